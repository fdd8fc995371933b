package component

type PickupKind string

const (
	PickupGem     PickupKind = "gem"
	PickupKey     PickupKind = "key"
	PickupKeyhole PickupKind = "keyhole"
	PickupExit    PickupKind = "exit"
)

// Pickup marks a sensor entity the player can touch.
type Pickup struct {
	Kind PickupKind
}

var PickupComponent = NewComponent[Pickup]()
