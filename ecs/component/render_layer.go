package component

// RenderLayer is used to sort draw order deterministically.
type RenderLayer struct {
	Index int
}

const (
	LayerBackground = iota
	LayerTerrain
	LayerGround
	LayerPickups
	LayerParticles
	LayerPlayer
)

var RenderLayerComponent = NewComponent[RenderLayer]()
