package component

// Input stores per-frame input state for an entity.
type Input struct {
	Left  bool
	Right bool
	Up    bool
	// JumpPressed and ConfirmPressed are true only on the tick the key went down.
	JumpPressed    bool
	ConfirmPressed bool
}

var InputComponent = NewComponent[Input]()
