// Package movement turns held keys, ground contact and play mode into the
// per-tick motion and effect requests for the player.
package movement

// Tuned values for this level. Velocities are in pixels per second.
const (
	Acceleration     = 200.0
	Drag             = 700.0
	Gravity          = 900.0
	JumpVelocity     = -450.0
	ParticleVelocity = 50.0
	Scale            = 2.0
)

const (
	AnimIdle = "idle"
	AnimWalk = "walk"
	AnimJump = "jump"
)

// Intent is the horizontal movement request for a tick.
type Intent int

const (
	Idle Intent = iota
	MoveLeft
	MoveRight
)

func (i Intent) String() string {
	switch i {
	case MoveLeft:
		return "left"
	case MoveRight:
		return "right"
	default:
		return "idle"
	}
}

// IntentFrom gates held keys by play mode. Left wins when both are held.
func IntentFrom(left, right, playMode bool) Intent {
	switch {
	case left && playMode:
		return MoveLeft
	case right && playMode:
		return MoveRight
	default:
		return Idle
	}
}

// Facing is the sprite direction request.
type Facing int

const (
	FacingKeep Facing = iota
	FacingLeft
	FacingRight
)

// Emit is a start/stop request for a particle emitter.
type Emit int

const (
	EmitKeep Emit = iota
	EmitStart
	EmitStop
)

// Tuning holds the numbers the controller works with.
type Tuning struct {
	Acceleration     float64
	Drag             float64
	JumpVelocity     float64
	ParticleVelocity float64
}

func DefaultTuning() Tuning {
	return Tuning{
		Acceleration:     Acceleration,
		Drag:             Drag,
		JumpVelocity:     JumpVelocity,
		ParticleVelocity: ParticleVelocity,
	}
}

// Input is the controller's view of the keyboard for one tick.
type Input struct {
	Left  bool
	Right bool
	// JumpPressed is edge triggered: true only on the tick the key went down.
	JumpPressed bool
}

// Decision is everything the host has to apply for one tick.
type Decision struct {
	Intent Intent

	AccelX    float64
	ApplyDrag bool
	Drag      float64

	Facing    Facing
	Animation string

	Walk       Emit
	WalkFollow bool
	WalkSpeedX float64

	Jump          bool
	VelocityY     float64
	JumpSound     bool
	JumpParticles Emit
}

// Controller decides player motion. The zero value uses zero tuning; build
// one with New or DefaultController.
type Controller struct {
	tuning Tuning
}

func New(t Tuning) *Controller {
	return &Controller{tuning: t}
}

func DefaultController() *Controller {
	return New(DefaultTuning())
}

func (c *Controller) Tuning() Tuning { return c.tuning }

// SetTuning swaps the numbers used from the next Decide on.
func (c *Controller) SetTuning(t Tuning) { c.tuning = t }

// Decide evaluates one tick.
func (c *Controller) Decide(in Input, grounded, playMode bool) Decision {
	d := Decision{Intent: IntentFrom(in.Left, in.Right, playMode)}

	switch d.Intent {
	case MoveLeft:
		d.AccelX = -c.tuning.Acceleration
		d.Facing = FacingLeft
		d.Animation = AnimWalk
		d.WalkFollow = true
		// dust drifts opposite to travel
		d.WalkSpeedX = c.tuning.ParticleVelocity
		if grounded {
			d.Walk = EmitStart
		}
	case MoveRight:
		d.AccelX = c.tuning.Acceleration
		d.Facing = FacingRight
		d.Animation = AnimWalk
		d.WalkFollow = true
		d.WalkSpeedX = -c.tuning.ParticleVelocity
		if grounded {
			d.Walk = EmitStart
		}
	default:
		d.AccelX = 0
		d.ApplyDrag = true
		d.Drag = c.tuning.Drag
		d.Animation = AnimIdle
		d.Walk = EmitStop
	}

	if !grounded {
		d.Animation = AnimJump
	}

	if grounded && in.JumpPressed && playMode {
		d.Jump = true
		d.VelocityY = c.tuning.JumpVelocity
		d.JumpSound = true
		d.JumpParticles = EmitStart
	} else {
		d.JumpParticles = EmitStop
	}

	return d
}

// ApplyHorizontal integrates one tick of horizontal velocity. Drag only acts
// while there is no acceleration and never reverses direction.
func ApplyHorizontal(vx float64, d Decision, dt float64) float64 {
	if d.AccelX != 0 {
		return vx + d.AccelX*dt
	}
	if !d.ApplyDrag || d.Drag <= 0 {
		return vx
	}
	step := d.Drag * dt
	switch {
	case vx > step:
		return vx - step
	case vx < -step:
		return vx + step
	default:
		return 0
	}
}
