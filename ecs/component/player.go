package component

type Player struct {
	SpawnX float64
	SpawnY float64
	Width  float64
	Height float64
}

var PlayerComponent = NewComponent[Player]()
