package component

import "github.com/hajimehoshi/ebiten/v2"

type AnimationDef struct {
	Name   string
	Frames []*ebiten.Image
	FPS    float64
	Loop   bool
}

type Animation struct {
	Defs       map[string]AnimationDef
	Current    string
	Frame      int
	FrameTimer int
	Playing    bool
}

// Play switches to name, restarting it only when it is not already current.
func (a *Animation) Play(name string) {
	if a == nil {
		return
	}
	if a.Current == name && a.Playing {
		return
	}
	if _, ok := a.Defs[name]; !ok {
		return
	}
	a.Current = name
	a.Frame = 0
	a.FrameTimer = 0
	a.Playing = true
}

var AnimationComponent = NewComponent[Animation]()
