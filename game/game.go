// Package game hosts a level: it owns the ECS world and its systems, the
// level session and the overlay screens, and rebuilds the world when the
// session asks for a restart.
package game

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/ecs/system"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/movement"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/session"
	"github.com/milk9111/platformer/ui"
)

var skyColor = color.RGBA{R: 0x5f, G: 0xcd, B: 0xe4, A: 0xff}

// Overlay is the screen-space UI drawn over the level.
type Overlay interface {
	ScoreDisplay
	BestDisplay
	SetTitleVisible(visible bool)
	SetEndVisible(visible bool)
	SetScoreVisible(visible bool)
	Update()
	Draw(screen *ebiten.Image)
}

type Options struct {
	Level string
	// ConfigPath overrides the prefab tuning lookup.
	ConfigPath string
	Debug      bool
	// Mute skips loading the sound bank.
	Mute   bool
	Store  RunStore
	Logger *log.Logger
}

type Game struct {
	opts      Options
	levelName string
	levelMap  *levels.Map
	tuning    prefabs.Tuning
	tps       int
	log       *log.Logger

	world      *ecs.World
	level      *entity.Level
	scheduler  *ecs.Scheduler
	physics    *system.PhysicsSystem
	render     *system.RenderSystem
	controller *movement.Controller
	sounds     *component.Audio

	session  *session.Session[ecs.Entity]
	overlay  Overlay
	recorder *recorder
	watcher  *prefabs.Watcher

	reloadPending bool
}

func New(opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if opts.Level == "" {
		opts.Level = levels.DefaultLevel
	}
	name := levels.Name(opts.Level)

	m, err := levels.Open(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	tuning, err := prefabs.LoadTuning(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}

	g := &Game{
		opts:       opts,
		levelName:  name,
		levelMap:   m,
		tuning:     tuning,
		tps:        tuning.Physics.TPS,
		log:        logger,
		controller: movement.New(tuning.MovementTuning()),
		render:     system.NewRenderSystem(),
	}
	g.render.DebugColliders = opts.Debug
	g.overlay = ui.New(tuning.Screens)

	if !opts.Mute {
		bank, err := entity.LoadSoundBank(tuning.Audio)
		if err != nil {
			logger.Warn("sound disabled", "error", err)
		} else {
			g.sounds = bank
		}
	}

	g.recorder = &recorder{
		level: name,
		tps:   g.tps,
		store: opts.Store,
		best:  g.overlay,
		log:   logger,
	}
	host := &worldHost{
		world:  func() *ecs.World { return g.world },
		score:  g.overlay,
		reload: func() { g.reloadPending = true },
	}
	g.session = session.New[ecs.Entity](host, session.WithObserver[ecs.Entity](g.recorder.observe))

	if err := g.buildWorld(); err != nil {
		return nil, err
	}
	g.overlay.SetScore(0)
	g.syncOverlay()

	if opts.Debug {
		g.startWatcher()
	}
	return g, nil
}

// buildWorld replaces the world with a fresh copy of the level.
func (g *Game) buildWorld() error {
	w := ecs.NewWorld()
	lvl, err := entity.LoadLevelToWorld(w, g.levelMap, g.tuning)
	if err != nil {
		return fmt.Errorf("game: load level %s: %w", g.levelName, err)
	}
	if _, err := entity.NewSoundBank(w, g.sounds); err != nil {
		return fmt.Errorf("game: %w", err)
	}

	tps := g.tps
	g.physics = system.NewPhysicsSystem(g.tuning.Physics.Gravity, tps, g.tuning.Physics.Iterations)
	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(),
		system.NewPlayerControllerSystem(g.controller, g.session, tps),
		// Space is handled after movement, so the start tick does not move.
		system.NewConfirmSystem(g.session),
		g.physics,
		system.NewOverlapSystem(g.session),
		system.NewParticleSystem(tps),
		system.NewAnimationSystem(tps),
		system.NewCameraSystem(),
		system.NewAudioSystem(),
		system.NewTTLSystem(),
	)
	g.world = w
	g.level = lvl

	g.log.Info("level loaded", "level", g.levelName, "entities", ecs.EntityCount(w), "doors", len(lvl.Doors))
	return nil
}

func (g *Game) Update() error {
	g.pollWatcher()

	g.scheduler.Update(g.world)
	g.recorder.tick()

	if g.reloadPending {
		g.reloadPending = false
		if err := g.buildWorld(); err != nil {
			return err
		}
		g.session.LevelLoaded()
	}

	g.syncOverlay()
	g.overlay.Update()
	return nil
}

func (g *Game) syncOverlay() {
	g.overlay.SetTitleVisible(g.session.TitleVisible())
	g.overlay.SetEndVisible(g.session.EndVisible())
	g.overlay.SetScoreVisible(g.session.ScoreVisible())
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(skyColor)
	g.render.Draw(g.world, screen)
	g.overlay.Draw(screen)

	if g.opts.Debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f  state: %s  gems: %d  key: %v",
			ebiten.ActualFPS(), g.session.State(), g.session.GemCount(), g.session.KeyGet()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return common.ScreenWidth, common.ScreenHeight
}

// TPS is the tick rate every system steps at. The game loop must run at it.
func (g *Game) TPS() int {
	return g.tps
}

// Session exposes the level session, mostly for tests and tooling.
func (g *Game) Session() *session.Session[ecs.Entity] {
	return g.session
}

func (g *Game) World() *ecs.World {
	return g.world
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

// watchDirs lists the directories whose YAML edits trigger a tuning reload.
func (g *Game) watchDirs() []string {
	var dirs []string
	if g.opts.ConfigPath != "" {
		dirs = append(dirs, filepath.Dir(g.opts.ConfigPath))
	} else if info, err := os.Stat(prefabs.DiskDir()); err == nil && info.IsDir() {
		dirs = append(dirs, prefabs.DiskDir())
	}
	return dirs
}

func (g *Game) startWatcher() {
	dirs := g.watchDirs()
	if len(dirs) == 0 {
		g.log.Debug("no tuning directory on disk, hot reload off")
		return
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		g.log.Warn("tuning watcher", "error", err)
		return
	}
	g.watcher = w
	g.log.Info("watching tuning", "dirs", dirs)
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reloadTuning(path)
		case err, ok := <-g.watcher.Errors:
			if ok && err != nil {
				g.log.Error("tuning watcher", "error", err)
			}
		default:
			return
		}
	}
}

func (g *Game) reloadTuning(path string) {
	if g.opts.ConfigPath != "" && filepath.Clean(path) != filepath.Clean(g.opts.ConfigPath) {
		return
	}
	if g.opts.ConfigPath == "" && filepath.Base(path) != prefabs.TuningFile {
		return
	}
	t, err := prefabs.LoadTuning(g.opts.ConfigPath)
	if err != nil {
		if errors.Is(err, prefabs.ErrInvalidTuning) {
			g.log.Warn("tuning rejected", "path", path, "error", err)
			return
		}
		g.log.Error("tuning reload", "path", path, "error", err)
		return
	}
	g.applyTuning(t)
	g.log.Info("tuning reloaded", "path", path)
}

// applyTuning pushes live-tunable values into the running world. Spawn,
// particles and screens take effect on the next level load. The tick rate
// never changes after New.
func (g *Game) applyTuning(t prefabs.Tuning) {
	if t.Physics.TPS != g.tps {
		g.log.Warn("tps is fixed while running", "tps", g.tps, "requested", t.Physics.TPS)
		t.Physics.TPS = g.tps
	}
	g.tuning = t
	g.controller.SetTuning(t.MovementTuning())
	if g.physics != nil {
		g.physics.SetGravity(t.Physics.Gravity)
	}
	ecs.ForEach(g.world, component.CameraComponent.Kind(), func(_ ecs.Entity, cam *component.Camera) {
		cam.Lerp = t.Camera.Lerp
		cam.DeadzoneW = t.Camera.DeadzoneW
		cam.DeadzoneH = t.Camera.DeadzoneH
	})
}
