package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()

// TileTag marks static tiles; Layer is the source tile layer name.
type TileTag struct {
	Layer string
}

var TileTagComponent = NewComponent[TileTag]()
