package render

import (
	"image/color"
	"sort"

	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/sizing"
)

// Element is the visual counterpart of one post body. X and Y are the
// top-left corner of the unrotated box; CX and CY its centre.
type Element struct {
	ID      string
	Text    string
	Color   color.NRGBA
	Class   sizing.Class
	X, Y    float64
	CX, CY  float64
	Angle   float64
	Visible bool
	Dragged bool
}

// Layer holds one element per post, keyed by identity.
type Layer struct {
	elements map[string]*Element
}

func NewLayer() *Layer {
	return &Layer{elements: make(map[string]*Element)}
}

// Ensure returns the element for item, creating a hidden one if needed.
// Text, colour and class are refreshed on every call.
func (l *Layer) Ensure(item content.Item, class sizing.Class) *Element {
	el, ok := l.elements[item.ID]
	if !ok {
		el = &Element{ID: item.ID}
		l.elements[item.ID] = el
	}
	el.Text = item.Text
	el.Color = item.Color
	el.Class = class
	return el
}

func (l *Layer) Get(id string) (*Element, bool) {
	el, ok := l.elements[id]
	return el, ok
}

func (l *Layer) Remove(id string) {
	delete(l.elements, id)
}

// Clear drops every element.
func (l *Layer) Clear() {
	clear(l.elements)
}

func (l *Layer) Len() int {
	return len(l.elements)
}

// Hide marks every element invisible until its next transform.
func (l *Layer) Hide() {
	for _, el := range l.elements {
		el.Visible = false
	}
}

// Elements returns the elements in draw order: by identity, with dragged
// elements last so they render on top.
func (l *Layer) Elements() []*Element {
	out := make([]*Element, 0, len(l.elements))
	for _, el := range l.elements {
		out = append(out, el)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dragged != out[j].Dragged {
			return !out[i].Dragged
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SyncItems makes the layer hold exactly one element per item, classified
// with density d.
func (l *Layer) SyncItems(items []content.Item, d sizing.Density) {
	keep := make(map[string]struct{}, len(items))
	for _, it := range items {
		keep[it.ID] = struct{}{}
		l.Ensure(it, sizing.Classify(it.Text, d))
	}
	for id := range l.elements {
		if _, ok := keep[id]; !ok {
			delete(l.elements, id)
		}
	}
}
