// Package sizing maps post text to one of five discrete visual size classes.
package sizing

import "unicode/utf8"

// Density selects which size table governs visual dimensions.
type Density int

const (
	Normal Density = iota
	Compact
)

// CompactBelowWidth is the viewport width under which hosts usually pick Compact.
const CompactBelowWidth = 640

func (d Density) String() string {
	if d == Compact {
		return "compact"
	}
	return "normal"
}

// DensityForWidth is a convenience for hosts deriving density from screen width.
func DensityForWidth(width float64) Density {
	if width < CompactBelowWidth {
		return Compact
	}
	return Normal
}

type Tier int

const (
	XS Tier = iota
	S
	M
	L
	XL
)

func (t Tier) String() string {
	switch t {
	case XS:
		return "XS"
	case S:
		return "S"
	case M:
		return "M"
	case L:
		return "L"
	default:
		return "XL"
	}
}

// Class is the visual footprint of a post.
type Class struct {
	Tier         Tier
	Width        float64
	Height       float64
	CornerRadius float64
	FontScale    float64
}

// tierLimits are inclusive upper bounds on text length for XS..L.
var tierLimits = [...]int{15, 40, 80, 120}

var normalTable = [...]Class{
	{Tier: XS, Width: 80, Height: 80, CornerRadius: 40, FontScale: 0.75},
	{Tier: S, Width: 140, Height: 70, CornerRadius: 35, FontScale: 0.8},
	{Tier: M, Width: 190, Height: 90, CornerRadius: 45, FontScale: 0.85},
	{Tier: L, Width: 240, Height: 110, CornerRadius: 55, FontScale: 0.9},
	{Tier: XL, Width: 280, Height: 130, CornerRadius: 65, FontScale: 1.0},
}

var compactTable = [...]Class{
	{Tier: XS, Width: 60, Height: 60, CornerRadius: 30, FontScale: 0.65},
	{Tier: S, Width: 100, Height: 55, CornerRadius: 25, FontScale: 0.7},
	{Tier: M, Width: 130, Height: 65, CornerRadius: 32, FontScale: 0.75},
	{Tier: L, Width: 160, Height: 75, CornerRadius: 38, FontScale: 0.8},
	{Tier: XL, Width: 190, Height: 90, CornerRadius: 45, FontScale: 0.85},
}

// TierFor returns the tier for a text length in runes.
func TierFor(length int) Tier {
	for i, limit := range tierLimits {
		if length <= limit {
			return Tier(i)
		}
	}
	return XL
}

// Classify returns the size class for text under density d.
// Length is measured in runes so multi-byte scripts size by visible characters.
func Classify(text string, d Density) Class {
	tier := TierFor(utf8.RuneCountInString(text))
	if d == Compact {
		return compactTable[tier]
	}
	return normalTable[tier]
}
