package interaction

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/physics"
)

// Config holds the tap heuristic and drag spring tuning.
type Config struct {
	TapDistance float64       `yaml:"tap_distance"`
	TapDuration time.Duration `yaml:"tap_duration"`
	Stiffness   float64       `yaml:"stiffness"`
	Damping     float64       `yaml:"damping"`
}

func DefaultConfig() Config {
	return Config{
		TapDistance: 30,
		TapDuration: 500 * time.Millisecond,
		Stiffness:   0.1,
		Damping:     0.1,
	}
}

// World is the part of physics.World the controller drives.
type World interface {
	Initialized() bool
	Has(id string) bool
	BodyAt(x, y float64) (string, bool)
	Grab(id string, x, y, stiffness, damping float64) (*physics.Grip, bool)
	Release(g *physics.Grip)
	Grabbed(id string) bool
}

type drag struct {
	id     string
	startX float64
	startY float64
	start  time.Time
	grip   *physics.Grip
}

// Controller turns pointer gestures into spring drags and taps. Each pointer
// holds at most one body, and a body is held by at most one pointer.
type Controller struct {
	cfg   Config
	world World
	log   *log.Logger
	drags map[int]*drag

	// OnSelect is called once for every gesture that qualifies as a tap.
	OnSelect func(id string)
}

func NewController(cfg Config, world World, l *log.Logger) *Controller {
	return &Controller{
		cfg:   cfg,
		world: world,
		log:   common.Component(l, "input"),
		drags: make(map[int]*drag),
	}
}

// Down starts a drag on the body under (x, y). It reports whether a body
// was picked up.
func (c *Controller) Down(pointer int, x, y float64, at time.Time) bool {
	if !c.world.Initialized() {
		return false
	}
	if d, ok := c.drags[pointer]; ok {
		c.world.Release(d.grip)
		delete(c.drags, pointer)
	}

	id, ok := c.world.BodyAt(x, y)
	if !ok || c.world.Grabbed(id) {
		return false
	}
	grip, ok := c.world.Grab(id, x, y, c.cfg.Stiffness, c.cfg.Damping)
	if !ok {
		return false
	}
	c.drags[pointer] = &drag{id: id, startX: x, startY: y, start: at, grip: grip}
	c.log.Debug("drag start", "pointer", pointer, "id", id)
	return true
}

// Move drags the spring anchor for pointer to (x, y).
func (c *Controller) Move(pointer int, x, y float64) {
	if d, ok := c.drags[pointer]; ok {
		d.grip.MoveTo(x, y)
	}
}

// Up ends the gesture for pointer. A short, nearly stationary gesture on a
// body that still exists is a tap and fires OnSelect. Up reports whether
// it did.
func (c *Controller) Up(pointer int, x, y float64, at time.Time) bool {
	d, ok := c.drags[pointer]
	if !ok {
		return false
	}
	delete(c.drags, pointer)
	c.world.Release(d.grip)

	dist := common.Distance(d.startX, d.startY, x, y)
	held := at.Sub(d.start)
	if dist >= c.cfg.TapDistance || held >= c.cfg.TapDuration {
		c.log.Debug("drag end", "pointer", pointer, "id", d.id, "distance", dist, "held", held)
		return false
	}
	if !c.world.Initialized() || !c.world.Has(d.id) {
		return false
	}
	c.log.Debug("tap", "id", d.id)
	if c.OnSelect != nil {
		c.OnSelect(d.id)
	}
	return true
}

// Cancel drops every drag without emitting taps.
func (c *Controller) Cancel() {
	for p, d := range c.drags {
		c.world.Release(d.grip)
		delete(c.drags, p)
	}
}

// Dragged reports whether any pointer holds id.
func (c *Controller) Dragged(id string) bool {
	for _, d := range c.drags {
		if d.id == id {
			return true
		}
	}
	return false
}

// Active is the number of pointers currently dragging.
func (c *Controller) Active() int {
	return len(c.drags)
}
