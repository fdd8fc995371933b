package component

// PlayerCollision stores per-player collision state derived from physics contacts.
type PlayerCollision struct {
	// Grounded is true while the underside of the body rests on solid ground.
	Grounded bool
}

var PlayerCollisionComponent = NewComponent[PlayerCollision]()
