package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/milk9111/platformer/movement"
	"gopkg.in/yaml.v3"
)

const TuningFile = "tuning.yaml"

var ErrInvalidTuning = errors.New("prefabs: invalid tuning")

type Tuning struct {
	Physics   PhysicsSpec   `yaml:"physics"`
	Movement  MovementSpec  `yaml:"movement"`
	Camera    CameraSpec    `yaml:"camera"`
	Player    PlayerSpec    `yaml:"player"`
	Particles ParticlesSpec `yaml:"particles"`
	Screens   ScreensSpec   `yaml:"screens"`
	Audio     []AudioSpec   `yaml:"audio"`
}

type PhysicsSpec struct {
	Gravity    float64 `yaml:"gravity"`
	TPS        int     `yaml:"tps"`
	Iterations int     `yaml:"iterations"`
}

type MovementSpec struct {
	Acceleration     float64 `yaml:"acceleration"`
	Drag             float64 `yaml:"drag"`
	JumpVelocity     float64 `yaml:"jump_velocity"`
	ParticleVelocity float64 `yaml:"particle_velocity"`
}

type CameraSpec struct {
	Zoom      float64 `yaml:"zoom"`
	Lerp      float64 `yaml:"lerp"`
	DeadzoneW float64 `yaml:"deadzone_w"`
	DeadzoneH float64 `yaml:"deadzone_h"`
}

type PlayerSpec struct {
	SpawnX float64 `yaml:"spawn_x"`
	SpawnY float64 `yaml:"spawn_y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

type ParticlesSpec struct {
	Walking EmitterSpec `yaml:"walking"`
	Jumping EmitterSpec `yaml:"jumping"`
}

type EmitterSpec struct {
	Image      string  `yaml:"image"`
	BaseSize   float64 `yaml:"base_size"`
	ScaleStart float64 `yaml:"scale_start"`
	ScaleEnd   float64 `yaml:"scale_end"`
	AlphaStart float64 `yaml:"alpha_start"`
	AlphaEnd   float64 `yaml:"alpha_end"`
	MaxAlive   int     `yaml:"max_alive"`
	LifespanMS int     `yaml:"lifespan_ms"`
	GravityY   float64 `yaml:"gravity_y"`
	InsetX     float64 `yaml:"inset_x"`
	InsetY     float64 `yaml:"inset_y"`
}

// LifespanFrames converts the lifespan to update ticks at tps.
func (e EmitterSpec) LifespanFrames(tps int) int {
	frames := e.LifespanMS * tps / 1000
	if frames < 1 {
		frames = 1
	}
	return frames
}

type ScreensSpec struct {
	Title ScreenSpec `yaml:"title"`
	End   ScreenSpec `yaml:"end"`
	Score ScoreSpec  `yaml:"score"`
}

type ScreenSpec struct {
	Lines      []string   `yaml:"lines"`
	Color      *YAMLColor `yaml:"color"`
	Background *YAMLColor `yaml:"background"`
}

type ScoreSpec struct {
	X     float64    `yaml:"x"`
	Y     float64    `yaml:"y"`
	Color *YAMLColor `yaml:"color"`
}

type AudioSpec struct {
	Name   string  `yaml:"name"`
	Volume float64 `yaml:"volume"`
}

// DefaultTuning decodes the embedded tuning file.
func DefaultTuning() Tuning {
	var t Tuning
	data, err := PrefabsFS.ReadFile(TuningFile)
	if err == nil {
		err = yaml.Unmarshal(data, &t)
	}
	if err != nil {
		panic("prefabs: embedded " + TuningFile + ": " + err.Error())
	}
	return t
}

// LoadTuning reads tuning from path, or from the prefab lookup when path is
// empty. Fields the file leaves out keep their embedded defaults.
func LoadTuning(path string) (Tuning, error) {
	var (
		data []byte
		err  error
	)
	source := path
	if path == "" {
		source = TuningFile
		data, err = Load(TuningFile)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return Tuning{}, fmt.Errorf("prefabs: load %s: %w", source, err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes data over the embedded defaults and validates it.
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("prefabs: unmarshal tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate rejects tuning the game cannot run with.
func (t Tuning) Validate() error {
	var problems []string
	check := func(ok bool, msg string) {
		if !ok {
			problems = append(problems, msg)
		}
	}
	check(t.Physics.TPS > 0, "physics.tps must be positive")
	check(t.Physics.Gravity >= 0, "physics.gravity must not be negative")
	check(t.Movement.Acceleration > 0, "movement.acceleration must be positive")
	check(t.Movement.Drag >= 0, "movement.drag must not be negative")
	check(t.Movement.Drag > t.Movement.Acceleration, "movement.drag must exceed movement.acceleration")
	check(t.Movement.JumpVelocity < 0, "movement.jump_velocity must point up (negative)")
	check(t.Camera.Zoom > 0, "camera.zoom must be positive")
	check(t.Camera.Lerp > 0 && t.Camera.Lerp <= 1, "camera.lerp must be in (0, 1]")
	check(t.Camera.DeadzoneW >= 0 && t.Camera.DeadzoneH >= 0, "camera deadzone must not be negative")
	check(t.Player.Width > 0 && t.Player.Height > 0, "player size must be positive")
	for name, e := range map[string]EmitterSpec{"walking": t.Particles.Walking, "jumping": t.Particles.Jumping} {
		check(e.MaxAlive > 0, "particles."+name+".max_alive must be positive")
		check(e.LifespanMS > 0, "particles."+name+".lifespan_ms must be positive")
		check(e.BaseSize > 0, "particles."+name+".base_size must be positive")
	}
	seen := make(map[string]bool, len(t.Audio))
	for _, a := range t.Audio {
		check(a.Name != "", "audio entries need a name")
		check(!seen[a.Name], "duplicate audio entry "+strconv.Quote(a.Name))
		check(a.Volume >= 0 && a.Volume <= 1, "audio "+strconv.Quote(a.Name)+" volume must be in [0, 1]")
		seen[a.Name] = true
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidTuning, strings.Join(problems, "; "))
}

// MovementTuning converts the movement section for the controller.
func (t Tuning) MovementTuning() movement.Tuning {
	return movement.Tuning{
		Acceleration:     t.Movement.Acceleration,
		Drag:             t.Movement.Drag,
		JumpVelocity:     t.Movement.JumpVelocity,
		ParticleVelocity: t.Movement.ParticleVelocity,
	}
}

// Volume returns the configured volume for a sound, defaulting to 1.
func (t Tuning) Volume(name string) float64 {
	for _, a := range t.Audio {
		if a.Name == name {
			return a.Volume
		}
	}
	return 1
}

type YAMLColor struct {
	color.Color
}

// ColorOr returns c's color, or fallback when c is unset.
func ColorOr(c *YAMLColor, fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
