package common

// Logical screen size. The camera zooms into the world, so the visible world
// area is ScreenWidth/zoom by ScreenHeight/zoom pixels.
const (
	ScreenWidth  = 720
	ScreenHeight = 450

	// TPS is the fallback tick rate when none is configured.
	TPS = 60
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FollowAxis moves a camera scroll value one step toward keeping target
// inside a deadzone centered on the view. view is the visible extent in world
// units, limit is the world extent; the result never shows past [0, limit].
func FollowAxis(scroll, view, target, deadzone, lerp, limit float64) float64 {
	half := deadzone / 2
	center := scroll + view/2
	desired := scroll
	switch {
	case target < center-half:
		desired = target + half - view/2
	case target > center+half:
		desired = target - half - view/2
	}
	if lerp <= 0 || lerp > 1 {
		lerp = 1
	}
	next := Lerp(scroll, desired, lerp)
	return Clamp(next, 0, limit-view)
}

// CenterOn returns the scroll value that centers target in the view, clamped
// to the world extent.
func CenterOn(view, target, limit float64) float64 {
	return Clamp(target-view/2, 0, limit-view)
}
