package component

// Door marks a solid segment of the door column opened by the keyhole.
type Door struct {
	Group string
}

var DoorComponent = NewComponent[Door]()
