package main

import (
	"image/color"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/gravitypile/render"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

var (
	backgroundColor = colornames.Ivory
	darkText        = colornames.Darkslategray
	lightText       = colornames.White
)

const (
	// baseTextScale maps a font scale of 1.0 onto the 13px basic font.
	baseTextScale = 1.4
	lineSpacing   = 15
	draggedScale  = 1.06
)

type card struct {
	img  *ebiten.Image
	text string
	w, h float64
}

// Painter draws elements as rounded cards, caching each card's image until
// its text or size changes.
type Painter struct {
	face  ebtext.Face
	cards map[string]*card
	seen  map[string]bool
}

func NewPainter() *Painter {
	return &Painter{
		face:  ebtext.NewGoXFace(basicfont.Face7x13),
		cards: make(map[string]*card),
		seen:  make(map[string]bool),
	}
}

// Reset drops every cached card.
func (p *Painter) Reset() {
	for id, c := range p.cards {
		c.img.Deallocate()
		delete(p.cards, id)
	}
}

func (p *Painter) Draw(screen *ebiten.Image, elements []*render.Element) {
	clear(p.seen)
	for _, el := range elements {
		p.seen[el.ID] = true
		if !el.Visible {
			continue
		}
		c := p.card(el)

		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-c.w/2, -c.h/2)
		if el.Dragged {
			op.GeoM.Scale(draggedScale, draggedScale)
		}
		op.GeoM.Rotate(el.Angle)
		op.GeoM.Translate(el.CX, el.CY)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(c.img, op)
	}

	for id, c := range p.cards {
		if !p.seen[id] {
			c.img.Deallocate()
			delete(p.cards, id)
		}
	}
}

func (p *Painter) card(el *render.Element) *card {
	w, h := el.Class.Width, el.Class.Height
	if c, ok := p.cards[el.ID]; ok && c.text == el.Text && c.w == w && c.h == h {
		return c
	}
	if c, ok := p.cards[el.ID]; ok {
		c.img.Deallocate()
	}

	img := ebiten.NewImage(int(math.Ceil(w)), int(math.Ceil(h)))
	fillRounded(img, float32(w), float32(h), float32(el.Class.CornerRadius), el.Color)
	p.drawText(img, el)

	c := &card{img: img, text: el.Text, w: w, h: h}
	p.cards[el.ID] = c
	return c
}

func fillRounded(dst *ebiten.Image, w, h, r float32, clr color.Color) {
	r = min(r, w/2, h/2)
	vector.FillRect(dst, r, 0, w-2*r, h, clr, true)
	vector.FillRect(dst, 0, r, w, h-2*r, clr, true)
	for _, c := range [][2]float32{{r, r}, {w - r, r}, {r, h - r}, {w - r, h - r}} {
		vector.DrawFilledCircle(dst, c[0], c[1], r, clr, true)
	}
}

func (p *Painter) drawText(dst *ebiten.Image, el *render.Element) {
	scale := el.Class.FontScale * baseTextScale
	padX := math.Max(8, el.Class.CornerRadius*0.45)
	padY := math.Max(6, el.Class.CornerRadius*0.2)
	maxWidth := (el.Class.Width - 2*padX) / scale
	maxLines := int((el.Class.Height - 2*padY) / (lineSpacing * scale))
	lines := wrap(el.Text, maxWidth, maxLines, func(s string) float64 {
		return ebtext.Advance(s, p.face)
	})

	clr := textColorFor(el.Color)
	top := (el.Class.Height - float64(len(lines))*lineSpacing*scale) / 2
	for i, line := range lines {
		op := &ebtext.DrawOptions{}
		op.PrimaryAlign = ebtext.AlignCenter
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(el.Class.Width/2, top+float64(i)*lineSpacing*scale)
		op.ColorScale.ScaleWithColor(clr)
		ebtext.Draw(dst, line, p.face, op)
	}
}

// wrap breaks text into at most maxLines lines no wider than maxWidth,
// ending with an ellipsis when it had to cut.
func wrap(text string, maxWidth float64, maxLines int, advance func(string) float64) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		next := word
		if line != "" {
			next = line + " " + word
		}
		if line == "" || advance(next) <= maxWidth {
			line = next
			continue
		}
		lines = append(lines, line)
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		last := []rune(lines[maxLines-1])
		for len(last) > 0 && advance(string(last)+"...") > maxWidth {
			last = last[:len(last)-1]
		}
		lines[maxLines-1] = string(last) + "..."
	}
	return lines
}

// textColorFor picks dark text on light cards and light text on dark ones.
func textColorFor(c color.NRGBA) color.Color {
	lum := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if lum > 150 {
		return darkText
	}
	return lightText
}
