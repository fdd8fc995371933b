package component

import "github.com/hajimehoshi/ebiten/v2/audio"

// Audio is a bank of named sound players. Systems set Play[i] and the audio
// system starts the matching player once.
type Audio struct {
	Names   []string
	Players []*audio.Player
	Volume  []float64
	Play    []bool
}

// Request flags the sound called name for playback on the next audio tick.
func (a *Audio) Request(name string) bool {
	if a == nil {
		return false
	}
	for i, n := range a.Names {
		if n == name && i < len(a.Play) {
			a.Play[i] = true
			return true
		}
	}
	return false
}

var AudioComponent = NewComponent[Audio]()
