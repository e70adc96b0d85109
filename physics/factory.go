package physics

import (
	"math"
	"math/rand"
	"time"

	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/sizing"
)

// SpawnBias picks the vertical spawn policy for a new body.
type SpawnBias int

const (
	// Bulk scatters bodies far above the viewport so a batch cascades in.
	Bulk SpawnBias = iota
	// Fresh drops a body from just above the visible top edge.
	Fresh
)

func (b SpawnBias) String() string {
	if b == Fresh {
		return "fresh"
	}
	return "bulk"
}

// Descriptor is everything needed to build a post body.
type Descriptor struct {
	ID       string
	X, Y     float64
	Angle    float64
	VX, VY   float64
	Width    float64
	Height   float64
	Radius   float64
	Material Material
}

// Factory turns posts into body descriptors.
type Factory struct {
	spawn    SpawnConfig
	material Material
	rng      *rand.Rand
}

func NewFactory(spawn SpawnConfig, material Material, rng *rand.Rand) *Factory {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Factory{spawn: spawn, material: material, rng: rng}
}

// BiasFor reports Fresh when item was created within the fresh window of now.
// Items stamped slightly in the future count as fresh.
func (f *Factory) BiasFor(item content.Item, now time.Time) SpawnBias {
	if now.Sub(item.CreatedAt) < f.spawn.FreshWindow {
		return Fresh
	}
	return Bulk
}

// Create builds the descriptor for item.
func (f *Factory) Create(item content.Item, class sizing.Class, containerWidth float64, bias SpawnBias) Descriptor {
	d := Descriptor{
		ID:       item.ID,
		Width:    class.Width,
		Height:   class.Height,
		Radius:   class.CornerRadius,
		Material: f.material,
	}

	minX := class.Width/2 + f.spawn.Margin
	maxX := containerWidth - class.Width/2 - f.spawn.Margin
	if maxX > minX {
		d.X = minX + f.rng.Float64()*(maxX-minX)
	} else {
		d.X = containerWidth / 2
	}

	switch bias {
	case Fresh:
		d.Y = -class.Height - f.spawn.FreshOffset
		d.VY = f.spawn.FreshSpeed
	default:
		d.Y = -(f.spawn.BulkMin + f.rng.Float64()*f.spawn.BulkRange)
	}

	d.Angle = (f.rng.Float64()*2 - 1) * f.spawn.MaxTilt
	return d
}

// RandomX returns a uniform x for a body of the given width inside
// [0, containerWidth], keeping clear of the walls when there is room.
func (f *Factory) RandomX(width, containerWidth float64) float64 {
	minX := width / 2
	maxX := containerWidth - width/2
	if maxX <= minX {
		return containerWidth / 2
	}
	return common.Clamp(minX+f.rng.Float64()*(maxX-minX), 0, containerWidth)
}

// roundedArea is the area of a w×h rectangle with corners of radius r.
func roundedArea(w, h, r float64) float64 {
	r = math.Min(r, math.Min(w, h)/2)
	return w*h - (4-math.Pi)*r*r
}
