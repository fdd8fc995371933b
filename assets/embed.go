// Package assets embeds the placeholder tiles, character frames, particles
// and sound effects.
package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

//go:embed *.png *.wav
var assetsFS embed.FS

const (
	TileSize      = 18
	CharacterSize = 24
	SampleRate    = 44100
)

// TileSheet holds the level tiles and object sprites; BackgroundSheet the sky.
var TileSheet *ebiten.Image
var BackgroundSheet *ebiten.Image
var CharacterSheet *ebiten.Image

var particles map[string]*ebiten.Image

var (
	audioOnce    sync.Once
	audioContext *audio.Context
)

func init() {
	TileSheet = loadImageFromAssets("tilemap_packed.png")
	BackgroundSheet = loadImageFromAssets("backgrounds_packed.png")
	CharacterSheet = loadImageFromAssets("characters_packed.png")
	particles = map[string]*ebiten.Image{
		"star_01": loadImageFromAssets("star_01.png"),
		"star_09": loadImageFromAssets("star_09.png"),
	}
}

// Particle returns the particle image called name, or nil.
func Particle(name string) *ebiten.Image {
	return particles[strings.TrimSuffix(name, ".png")]
}

// Frame cuts frame index i out of a sheet of w×h cells laid out row-major.
func Frame(sheet *ebiten.Image, i, w, h int) *ebiten.Image {
	if sheet == nil || w <= 0 || h <= 0 || i < 0 {
		return nil
	}
	cols := sheet.Bounds().Dx() / w
	if cols == 0 {
		return nil
	}
	x := (i % cols) * w
	y := (i / cols) * h
	if y+h > sheet.Bounds().Dy() {
		return nil
	}
	return sheet.SubImage(image.Rect(x, y, x+w, y+h)).(*ebiten.Image)
}

// LoadImage loads an embedded asset by assets-relative path.
func LoadImage(path string) (*ebiten.Image, error) {
	clean := cleanAssetPath(path)
	b, err := assetsFS.ReadFile(clean)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

// LoadFile loads an embedded asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return assetsFS.ReadFile(cleanAssetPath(path))
}

// AudioContext returns the process-wide audio context.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.CurrentContext()
		if audioContext == nil {
			audioContext = audio.NewContext(SampleRate)
		}
	})
	return audioContext
}

// LoadAudioPlayer loads an embedded wav (or raw PCM) asset and creates a player.
func LoadAudioPlayer(path string) (*audio.Player, error) {
	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	ctx := AudioContext()
	clean := strings.ToLower(cleanAssetPath(path))
	if strings.HasSuffix(clean, ".wav") {
		stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(b))
		if err != nil {
			return nil, fmt.Errorf("decode wav %q: %w", path, err)
		}
		return ctx.NewPlayer(stream)
	}

	return ctx.NewPlayerFromBytes(b), nil
}

// SoundFile maps a sound name such as "gem" to its asset path.
func SoundFile(name string) string {
	return name + ".wav"
}

func loadImageFromAssets(path string) *ebiten.Image {
	img, err := LoadImage(path)
	if err != nil {
		log.Fatalf("embed: load %s: %v", path, err)
	}
	return img
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	return strings.TrimPrefix(s, "assets/")
}
