// Package ui draws the title screen, end screen and gem counter on top of
// the world.
package ui

import (
	"fmt"
	"image/color"
	"strconv"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/prefabs"
	"golang.org/x/image/font/basicfont"
)

var (
	white     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	black     = color.NRGBA{A: 0xff}
	panelFill = color.NRGBA{A: 200}
)

// Overlay owns the screen-space widgets. Visibility is driven entirely by
// the caller; the overlay never changes it on its own.
type Overlay struct {
	ui *ebitenui.UI

	root  *widget.Container
	title *widget.Container
	end   *widget.Container
	score *widget.Container

	scoreText *widget.Text
	bestText  *widget.Text
}

// New builds the overlay from the screens section of the tuning file.
func New(spec prefabs.ScreensSpec) *Overlay {
	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	o := &Overlay{}
	o.title = panel(spec.Title, &face)
	o.end = panel(spec.End, &face)

	o.bestText = widget.NewText(
		widget.TextOpts.Text("", &face, prefabs.ColorOr(spec.End.Color, white)),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
	)
	o.end.AddChild(o.bestText)

	o.scoreText = widget.NewText(
		widget.TextOpts.Text("0", &face, prefabs.ColorOr(spec.Score.Color, black)),
	)
	// The counter keeps its authored screen position by padding an
	// unstyled container anchored to the top-left corner.
	o.score = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: int(spec.Score.Y), Left: int(spec.Score.X)}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	o.score.AddChild(o.scoreText)

	o.root = widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	o.root.AddChild(o.title)
	o.root.AddChild(o.end)
	o.root.AddChild(o.score)

	o.ui = &ebitenui.UI{Container: o.root}

	o.SetTitleVisible(true)
	o.SetEndVisible(false)
	o.SetScoreVisible(false)
	return o
}

func panel(spec prefabs.ScreenSpec, face *ebtext.Face) *widget.Container {
	bg := imageui.NewNineSliceColor(prefabs.ColorOr(spec.Background, panelFill))
	fg := prefabs.ColorOr(spec.Color, white)

	c := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(bg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(common.ScreenWidth/2, common.ScreenHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	for _, line := range spec.Lines {
		c.AddChild(widget.NewText(
			widget.TextOpts.Text(line, face, fg),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})),
		))
	}
	return c
}

func setVisible(c *widget.Container, visible bool) {
	if c == nil {
		return
	}
	if visible {
		c.GetWidget().Visibility = widget.Visibility_Show
	} else {
		c.GetWidget().Visibility = widget.Visibility_Hide
	}
	c.RequestRelayout()
}

func (o *Overlay) SetTitleVisible(visible bool) { setVisible(o.title, visible) }

func (o *Overlay) SetEndVisible(visible bool) { setVisible(o.end, visible) }

func (o *Overlay) SetScoreVisible(visible bool) { setVisible(o.score, visible) }

// SetScore replaces the counter text with count.
func (o *Overlay) SetScore(count int) {
	if o == nil || o.scoreText == nil {
		return
	}
	o.scoreText.Label = strconv.Itoa(count)
}

// SetBest shows the best recorded gem count on the end screen.
func (o *Overlay) SetBest(best int, ok bool) {
	if o == nil || o.bestText == nil {
		return
	}
	if !ok {
		o.bestText.Label = ""
		return
	}
	o.bestText.Label = fmt.Sprintf("best: %d gems", best)
}

func (o *Overlay) Update() {
	if o == nil || o.ui == nil {
		return
	}
	o.ui.Update()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	if o == nil || o.ui == nil {
		return
	}
	o.ui.Draw(screen)
}
