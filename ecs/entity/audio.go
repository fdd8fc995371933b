package entity

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/platformer/assets"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/prefabs"
)

// LoadSoundBank decodes every configured sound effect. The bank is built once
// and attached to each rebuilt world with NewSoundBank.
func LoadSoundBank(specs []prefabs.AudioSpec) (*component.Audio, error) {
	bank, err := buildAudioComponent(specs)
	if err != nil {
		return nil, fmt.Errorf("sound bank: %w", err)
	}
	return bank, nil
}

// NewSoundBank creates the entity holding bank. Pending requests from a
// previous world are dropped.
func NewSoundBank(w *ecs.World, bank *component.Audio) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if bank == nil {
		return e, nil
	}
	for i := range bank.Play {
		bank.Play[i] = false
	}
	if err := ecs.Add(w, e, component.AudioComponent.Kind(), bank); err != nil {
		return 0, fmt.Errorf("sound bank: add audio: %w", err)
	}
	return e, nil
}

func buildAudioComponent(audioSpecs []prefabs.AudioSpec) (*component.Audio, error) {
	n := len(audioSpecs)
	if n == 0 {
		return nil, nil
	}

	names := make([]string, 0, n)
	players := make([]*audio.Player, 0, n)
	volume := make([]float64, 0, n)
	play := make([]bool, 0, n)

	for i, clip := range audioSpecs {
		player, err := assets.LoadAudioPlayer(assets.SoundFile(clip.Name))
		if err != nil {
			return nil, fmt.Errorf("audio clip %d (%q): %w", i, clip.Name, err)
		}
		names = append(names, clip.Name)
		players = append(players, player)
		volume = append(volume, clip.Volume)
		play = append(play, false)
	}

	return &component.Audio{
		Names:   names,
		Players: players,
		Volume:  volume,
		Play:    play,
	}, nil
}
