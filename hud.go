package main

import (
	"image"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

const selectedPreview = 60

// HUD is the toolbar above the pile: refresh, drop a thought and the text
// of the last selected post.
type HUD struct {
	ui       *ebitenui.UI
	panel    *widget.Container
	status   *widget.Text
	selected string
	loading  bool
}

func NewHUD(g *Game) *HUD {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x22, G: 0x22, B: 0x22, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 255})
	btnPressed := imageui.NewNineSliceColor(color.NRGBA{R: 0x66, G: 0x66, B: 0x66, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnPressed}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	h := &HUD{}
	h.status = widget.NewText(
		widget.TextOpts.Text("", &face, white),
		widget.TextOpts.WidgetOpts(center),
	)

	h.panel = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	h.panel.AddChild(button("Refresh", g.refresh))
	h.panel.AddChild(button("Drop thought", g.dropThought))
	h.panel.AddChild(h.status)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(h.panel)

	h.ui = &ebitenui.UI{Container: root}
	return h
}

func (h *HUD) Update() {
	h.ui.Update()
}

func (h *HUD) Draw(screen *ebiten.Image) {
	h.ui.Draw(screen)
}

// Contains reports whether (x, y) falls on the toolbar.
func (h *HUD) Contains(x, y int) bool {
	return image.Pt(x, y).In(h.panel.GetWidget().Rect)
}

// SetSelected shows text as the selected post; empty clears it.
func (h *HUD) SetSelected(text string) {
	h.selected = text
	h.refreshStatus()
}

func (h *HUD) SetLoading(loading bool) {
	if h.loading == loading {
		return
	}
	h.loading = loading
	h.refreshStatus()
}

func (h *HUD) refreshStatus() {
	switch {
	case h.loading:
		h.status.Label = "Loading..."
	case h.selected != "":
		h.status.Label = "Copied: " + preview(h.selected, selectedPreview)
	default:
		h.status.Label = ""
	}
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
