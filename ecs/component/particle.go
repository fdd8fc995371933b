package component

import "github.com/hajimehoshi/ebiten/v2"

type EmitterRole string

const (
	EmitterWalk EmitterRole = "walk"
	EmitterJump EmitterRole = "jump"
)

// ParticleEmitter spawns particles around the player while Emitting.
type ParticleEmitter struct {
	Role     EmitterRole
	Image    *ebiten.Image
	Emitting bool

	// Offset from the followed entity's center. Walk emitters follow the
	// player's lower edge; jump emitters sit on the center.
	FollowX float64
	FollowY float64
	Follow  bool

	SpeedX   float64
	SpeedY   float64
	Spread   float64
	GravityY float64

	MaxAlive       int
	LifespanFrames int
	ScaleStart     float64
	ScaleEnd       float64
	AlphaStart     float64
	AlphaEnd       float64

	X     float64
	Y     float64
	Alive int
	seq   uint64
}

// NextSeq returns a per-emitter sequence number used to vary spawn spread.
func (p *ParticleEmitter) NextSeq() uint64 {
	p.seq++
	return p.seq
}

var ParticleEmitterComponent = NewComponent[ParticleEmitter]()

// Particle is a single short-lived sprite owned by an emitter role.
type Particle struct {
	Role       EmitterRole
	VX         float64
	VY         float64
	GravityY   float64
	Age        int
	Life       int
	ScaleStart float64
	ScaleEnd   float64
	AlphaStart float64
	AlphaEnd   float64
}

var ParticleComponent = NewComponent[Particle]()
