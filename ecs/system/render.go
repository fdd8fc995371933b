package system

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

var (
	colliderColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}
	sensorColor   = color.RGBA{R: 0, G: 220, B: 120, A: 255}
)

type RenderSystem struct {
	camEntity ecs.Entity
	// DebugColliders outlines every physics body.
	DebugColliders bool
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{}
}

func (r *RenderSystem) camera(w *ecs.World) (x, y, zoom float64) {
	zoom = 1
	cam, ok := ecs.Get(w, r.camEntity, component.CameraComponent.Kind())
	if !ok {
		// the world may have been rebuilt under us
		if camEntity, found := ecs.First(w, component.CameraComponent.Kind()); found {
			r.camEntity = camEntity
			cam, ok = ecs.Get(w, camEntity, component.CameraComponent.Kind())
		}
	}
	if ok {
		x, y = cam.X, cam.Y
		if cam.Zoom > 0 {
			zoom = cam.Zoom
		}
	}
	return x, y, zoom
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}
	camX, camY, zoom := r.camera(w)

	type drawable struct {
		e     ecs.Entity
		layer int
		t     *component.Transform
		s     *component.Sprite
	}
	var items []drawable
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.SpriteComponent.Kind(), func(e ecs.Entity, t *component.Transform, s *component.Sprite) {
		if s.Hidden || s.Image == nil {
			return
		}
		layer := 0
		if l, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			layer = l.Index
		}
		items = append(items, drawable{e: e, layer: layer, t: t, s: s})
	})
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].layer != items[j].layer {
			return items[i].layer < items[j].layer
		}
		return uint64(items[i].e) < uint64(items[j].e)
	})

	viewW := float64(screen.Bounds().Dx()) / zoom
	viewH := float64(screen.Bounds().Dy()) / zoom
	for _, it := range items {
		t, s := it.t, it.s
		img := s.Image

		sx := t.ScaleX
		if sx == 0 {
			sx = 1
		}
		sy := t.ScaleY
		if sy == 0 {
			sy = 1
		}

		// cull anything fully outside the view
		reach := float64(max(img.Bounds().Dx(), img.Bounds().Dy())) * max(sx, sy)
		if t.X+reach < camX || t.X-reach > camX+viewW || t.Y+reach < camY || t.Y-reach > camY+viewH {
			continue
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)
		if s.FacingLeft {
			sx = -sx
		}
		op.GeoM.Scale(sx, sy)
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Translate((t.X-camX)*zoom, (t.Y-camY)*zoom)
		if s.Alpha > 0 && s.Alpha < 1 {
			op.ColorScale.ScaleAlpha(float32(s.Alpha))
		}

		screen.DrawImage(img, op)
	}

	if r.DebugColliders {
		r.drawColliders(w, screen, camX, camY, zoom)
	}
}

func (r *RenderSystem) drawColliders(w *ecs.World, screen *ebiten.Image, camX, camY, zoom float64) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, b *component.PhysicsBody, t *component.Transform) {
		clr := colliderColor
		if b.Sensor {
			clr = sensorColor
		}
		x := (t.X - b.Width/2 - camX) * zoom
		y := (t.Y - b.Height/2 - camY) * zoom
		bw := b.Width * zoom
		bh := b.Height * zoom
		ebitenutil.DrawLine(screen, x, y, x+bw, y, clr)
		ebitenutil.DrawLine(screen, x+bw, y, x+bw, y+bh, clr)
		ebitenutil.DrawLine(screen, x+bw, y+bh, x, y+bh, clr)
		ebitenutil.DrawLine(screen, x, y+bh, x, y, clr)
	})
}
