package component

// Camera follows a target inside the level bounds. X and Y are the world
// coordinates of the top-left corner of the view.
type Camera struct {
	Zoom      float64
	Lerp      float64
	DeadzoneW float64
	DeadzoneH float64
	ViewW     float64
	ViewH     float64

	X           float64
	Y           float64
	Initialized bool
}

var CameraComponent = NewComponent[Camera]()
