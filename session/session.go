// Package session tracks progress through a single level: collected gems, the
// door key, and whether the player is currently allowed to move. It reacts to
// overlap notifications pushed by the physics layer and never touches the
// engine directly; everything engine-side goes through Host.
package session

// State is the coarse phase of a playthrough.
type State int

const (
	TitleShown State = iota
	Playing
	Won
	Restarting
)

func (s State) String() string {
	switch s {
	case TitleShown:
		return "title"
	case Playing:
		return "playing"
	case Won:
		return "won"
	case Restarting:
		return "restarting"
	default:
		return "unknown"
	}
}

// Sound names requested from the host.
const (
	SoundGem  = "gem"
	SoundKey  = "key"
	SoundDoor = "door"
	SoundWin  = "win"
	SoundJump = "jump"
)

// SessionState holds the progress flags of the current playthrough.
type SessionState struct {
	GemCount int
	KeyGet   bool
	PlayMode bool
}

// Host is the engine side of a session. E is whatever handle the engine uses
// for the objects the player touches.
type Host[E comparable] interface {
	Alive(e E) bool
	Destroy(e E)
	// DoorSegments returns every live member of the door group.
	DoorSegments() []E
	PlaySound(name string)
	SetScore(count int)
	// Reload rebuilds the level at its initial layout. The host calls
	// LevelLoaded once the rebuild is done.
	Reload()
}

// Session is the single source of truth for level progress. It is not safe
// for concurrent use; the host calls it from its update loop only.
type Session[E comparable] struct {
	host     Host[E]
	observer func(Event)

	state SessionState

	titleVisible bool
	endVisible   bool
	scoreVisible bool
	restarting   bool
}

// Option configures a Session.
type Option[E comparable] func(*Session[E])

// WithObserver registers fn to receive every applied transition.
func WithObserver[E comparable](fn func(Event)) Option[E] {
	return func(s *Session[E]) {
		s.observer = fn
	}
}

// New creates a session at the title screen.
func New[E comparable](host Host[E], opts ...Option[E]) *Session[E] {
	s := &Session[E]{
		host:         host,
		titleVisible: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// State derives the current phase from the visible screens.
func (s *Session[E]) State() State {
	switch {
	case s.restarting:
		return Restarting
	case s.endVisible:
		return Won
	case s.titleVisible:
		return TitleShown
	default:
		return Playing
	}
}

// Snapshot returns a copy of the progress flags.
func (s *Session[E]) Snapshot() SessionState { return s.state }

func (s *Session[E]) GemCount() int      { return s.state.GemCount }
func (s *Session[E]) KeyGet() bool       { return s.state.KeyGet }
func (s *Session[E]) PlayMode() bool     { return s.state.PlayMode }
func (s *Session[E]) TitleVisible() bool { return s.titleVisible }
func (s *Session[E]) EndVisible() bool   { return s.endVisible }
func (s *Session[E]) ScoreVisible() bool { return s.scoreVisible }

// OnGemTouched collects a gem.
func (s *Session[E]) OnGemTouched(gem E) {
	if !s.host.Alive(gem) {
		return
	}
	s.host.PlaySound(SoundGem)
	s.host.Destroy(gem)
	s.state.GemCount++
	s.host.SetScore(s.state.GemCount)
	s.emit(EventGemCollected)
}

// OnKeyTouched picks up the door key.
func (s *Session[E]) OnKeyTouched(key E) {
	if !s.host.Alive(key) {
		return
	}
	s.host.PlaySound(SoundKey)
	s.host.Destroy(key)
	s.state.KeyGet = true
	s.emit(EventKeyCollected)
}

// OnKeyholeTouched opens the door group, but only once the key is held.
func (s *Session[E]) OnKeyholeTouched(keyhole E) {
	if !s.state.KeyGet || !s.host.Alive(keyhole) {
		return
	}
	s.host.PlaySound(SoundDoor)
	s.host.Destroy(keyhole)
	for _, door := range s.host.DoorSegments() {
		s.host.Destroy(door)
	}
	s.emit(EventDoorOpened)
}

// OnExitTouched ends the playthrough and reveals the end screen.
func (s *Session[E]) OnExitTouched(exit E) {
	if !s.host.Alive(exit) {
		return
	}
	s.host.PlaySound(SoundWin)
	s.host.Destroy(exit)
	s.state.PlayMode = false
	s.endVisible = true
	s.scoreVisible = true
	s.emit(EventWon)
}

// OnStartRequested leaves the title screen.
func (s *Session[E]) OnStartRequested() {
	if !s.titleVisible {
		return
	}
	s.titleVisible = false
	s.state.PlayMode = true
	s.emit(EventStarted)
}

// OnRestartRequested reloads the level from the end screen. PlayMode is left
// as it is.
func (s *Session[E]) OnRestartRequested() {
	if !s.state.KeyGet || !s.endVisible {
		return
	}
	s.restarting = true
	s.titleVisible = false
	s.state.GemCount = 0
	s.state.KeyGet = false
	s.emit(EventRestarted)
	s.host.Reload()
}

// Confirm handles one press of the start/confirm key: the start check runs
// first, then the restart check.
func (s *Session[E]) Confirm() {
	s.OnStartRequested()
	s.OnRestartRequested()
}

// LevelLoaded is called by the host after a Reload finished. The rebuilt
// level comes up with its own title screen and the end screen hidden.
func (s *Session[E]) LevelLoaded() {
	if !s.restarting {
		return
	}
	s.restarting = false
	s.titleVisible = true
	s.endVisible = false
	s.scoreVisible = false
	s.host.SetScore(s.state.GemCount)
}

func (s *Session[E]) emit(kind EventKind) {
	if s.observer == nil {
		return
	}
	s.observer(Event{Kind: kind, State: s.State(), Snapshot: s.state})
}
