package physics

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/sizing"
)

// Boundary shapes are given full elasticity and friction so that the
// per-pair product Chipmunk computes equals the post material.
const (
	boundaryElasticity = 1.0
	boundaryFriction   = 1.0
)

// Transform is a read-only snapshot of a body's state.
type Transform struct {
	X, Y            float64
	Angle           float64
	VX, VY          float64
	AngularVelocity float64
}

type entry struct {
	body  *cp.Body
	shape *cp.Shape
	class sizing.Class
}

// World owns the Chipmunk space, the static boundaries and every post body.
// It is not safe for concurrent use; callers drive it from one goroutine.
type World struct {
	cfg     Config
	factory *Factory
	now     func() time.Time
	log     *log.Logger

	space      *cp.Space
	width      float64
	height     float64
	bounds     []*cp.Shape
	boundsBB   []cp.BB
	bodies     map[string]*entry
	shapes     map[*cp.Shape]string
	joints     map[*cp.Constraint]string
	grips      map[*Grip]struct{}
	generation int
	steps      uint64
}

type Option func(*World)

func WithRand(r *rand.Rand) Option {
	return func(w *World) {
		if r != nil {
			w.factory = NewFactory(w.cfg.Spawn, w.cfg.Material, r)
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *World) {
		if now != nil {
			w.now = now
		}
	}
}

func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		w.log = common.Component(l, "physics")
	}
}

// NewWorld creates an uninitialized world. Call Initialize before use.
func NewWorld(cfg Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		cfg:     cfg,
		factory: NewFactory(cfg.Spawn, cfg.Material, nil),
		now:     time.Now,
		log:     common.Component(nil, "physics"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Initialize builds a fresh space with boundaries for a width×height viewport.
// Any previous space is torn down first.
func (w *World) Initialize(width, height float64) error {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return fmt.Errorf("%w: %vx%v", ErrInvalidViewport, width, height)
	}
	if w.space != nil {
		w.Teardown()
	}

	space := cp.NewSpace()
	space.Iterations = uint(w.cfg.Iterations)
	space.SetGravity(cp.Vector{X: 0, Y: w.cfg.Gravity})
	space.SetDamping(w.cfg.Damping)

	w.space = space
	w.width = width
	w.height = height
	w.bodies = make(map[string]*entry)
	w.shapes = make(map[*cp.Shape]string)
	w.joints = make(map[*cp.Constraint]string)
	w.grips = make(map[*Grip]struct{})
	w.generation++
	w.buildBoundaries()

	w.log.Debug("world initialized", "width", width, "height", height, "generation", w.generation)
	return nil
}

// buildBoundaries adds the floor just below the viewport and two walls just
// outside it. The walls reach far enough up to guide bulk spawns.
func (w *World) buildBoundaries() {
	t := w.cfg.WallThickness
	bottom := w.height + t
	span := math.Max(w.cfg.WallSpan*w.height, bottom+w.cfg.Spawn.BulkMin+w.cfg.Spawn.BulkRange+t)
	top := bottom - span

	w.boundsBB = []cp.BB{
		{L: -t, B: w.height, R: w.width + t, T: bottom}, // floor
		{L: -t, B: top, R: 0, T: bottom},                // left
		{L: w.width, B: top, R: w.width + t, T: bottom}, // right
	}
	w.bounds = w.bounds[:0]
	for _, bb := range w.boundsBB {
		shape := cp.NewBox2(w.space.StaticBody, bb, 0)
		shape.SetElasticity(boundaryElasticity)
		shape.SetFriction(boundaryFriction)
		w.space.AddShape(shape)
		w.bounds = append(w.bounds, shape)
	}
}

// Teardown drops the space, boundaries, constraints and every body.
// The world must be initialized again before further use.
func (w *World) Teardown() {
	if w.space == nil {
		return
	}
	for c := range w.joints {
		w.space.RemoveConstraint(c)
	}
	for _, e := range w.bodies {
		w.space.RemoveShape(e.shape)
		w.space.RemoveBody(e.body)
	}
	for _, s := range w.bounds {
		w.space.RemoveShape(s)
	}
	n := len(w.bodies)
	w.space = nil
	w.bounds = nil
	w.boundsBB = nil
	w.bodies = nil
	w.shapes = nil
	w.joints = nil
	w.grips = nil
	w.log.Debug("world torn down", "bodies", n, "generation", w.generation)
}

func (w *World) mustBeAlive() {
	if w.space == nil {
		panic(errNotInitialized)
	}
}

// Initialized reports whether the world has a live space.
func (w *World) Initialized() bool {
	return w.space != nil
}

// Generation counts Initialize calls.
func (w *World) Generation() int {
	return w.generation
}

// Steps counts fixed steps taken since creation.
func (w *World) Steps() uint64 {
	return w.steps
}

func (w *World) Config() Config {
	return w.cfg
}

func (w *World) Factory() *Factory {
	return w.factory
}

// Size returns the viewport the world was initialized with.
func (w *World) Size() (float64, float64) {
	return w.width, w.height
}

// Boundaries returns the static floor and wall boxes.
func (w *World) Boundaries() []cp.BB {
	return append([]cp.BB(nil), w.boundsBB...)
}

// Step advances the simulation by one fixed timestep.
func (w *World) Step() {
	w.mustBeAlive()
	dt := w.cfg.Timestep()
	for g := range w.grips {
		g.advance(dt)
	}
	w.space.Step(dt)
	w.steps++
}

// AddBody creates a body for item if its identity is not registered yet.
// It reports whether a body was added.
func (w *World) AddBody(item content.Item, class sizing.Class, containerWidth float64) bool {
	w.mustBeAlive()
	if _, ok := w.bodies[item.ID]; ok {
		return false
	}

	bias := w.factory.BiasFor(item, w.now())
	d := w.factory.Create(item, class, containerWidth, bias)
	body, shape := newPostBody(d)
	w.space.AddBody(body)
	w.space.AddShape(shape)

	w.bodies[item.ID] = &entry{body: body, shape: shape, class: class}
	w.shapes[shape] = item.ID
	w.log.Debug("body added", "id", item.ID, "bias", bias, "tier", class.Tier, "x", d.X, "y", d.Y)
	return true
}

// newPostBody builds a rounded rectangle. Corners that consume a whole side
// collapse to a circle (square) or a capsule (pill); otherwise a box with
// bevel radius is used, shrunk so its outer extent matches the descriptor.
func newPostBody(d Descriptor) (*cp.Body, *cp.Shape) {
	half := math.Min(d.Width, d.Height) / 2
	r := math.Min(math.Max(d.Radius, 0), half)
	mass := d.Material.Density * roundedArea(d.Width, d.Height, r)

	var body *cp.Body
	var shape *cp.Shape
	switch {
	case r >= half && d.Width == d.Height:
		body = cp.NewBody(mass, cp.MomentForCircle(mass, 0, half, cp.Vector{}))
		shape = cp.NewCircle(body, half, cp.Vector{})
	case r >= half:
		ext := math.Abs(d.Width-d.Height) / 2
		a, b := cp.Vector{X: -ext}, cp.Vector{X: ext}
		if d.Height > d.Width {
			a, b = cp.Vector{Y: -ext}, cp.Vector{Y: ext}
		}
		body = cp.NewBody(mass, cp.MomentForSegment(mass, a, b, half))
		shape = cp.NewSegment(body, a, b, half)
	default:
		body = cp.NewBody(mass, cp.MomentForBox(mass, d.Width, d.Height))
		shape = cp.NewBox(body, d.Width-2*r, d.Height-2*r, r)
	}

	body.SetPosition(cp.Vector{X: d.X, Y: d.Y})
	body.SetAngle(d.Angle)
	body.SetVelocity(d.VX, d.VY)
	shape.SetElasticity(d.Material.Restitution)
	shape.SetFriction(d.Material.Friction)
	return body, shape
}

// RemoveBody deletes the body for id along with any constraint attached to it.
func (w *World) RemoveBody(id string) {
	w.mustBeAlive()
	e, ok := w.bodies[id]
	if !ok {
		return
	}
	for c, owner := range w.joints {
		if owner == id {
			w.space.RemoveConstraint(c)
			delete(w.joints, c)
		}
	}
	for g := range w.grips {
		if g.id == id {
			delete(w.grips, g)
		}
	}
	w.space.RemoveShape(e.shape)
	w.space.RemoveBody(e.body)
	delete(w.shapes, e.shape)
	delete(w.bodies, id)
	w.log.Debug("body removed", "id", id)
}

func (w *World) Has(id string) bool {
	w.mustBeAlive()
	_, ok := w.bodies[id]
	return ok
}

func (w *World) Len() int {
	w.mustBeAlive()
	return len(w.bodies)
}

// IDs returns the registered identities in sorted order.
func (w *World) IDs() []string {
	w.mustBeAlive()
	ids := make([]string, 0, len(w.bodies))
	for id := range w.bodies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Class returns the size class the body for id was built with.
func (w *World) Class(id string) (sizing.Class, bool) {
	w.mustBeAlive()
	e, ok := w.bodies[id]
	if !ok {
		return sizing.Class{}, false
	}
	return e.class, true
}

func (w *World) Transform(id string) (Transform, bool) {
	w.mustBeAlive()
	e, ok := w.bodies[id]
	if !ok {
		return Transform{}, false
	}
	return transformOf(e.body), true
}

func transformOf(b *cp.Body) Transform {
	p := b.Position()
	v := b.Velocity()
	return Transform{
		X:               p.X,
		Y:               p.Y,
		Angle:           b.Angle(),
		VX:              v.X,
		VY:              v.Y,
		AngularVelocity: b.AngularVelocity(),
	}
}

// Each calls fn for every registered body in identity order.
func (w *World) Each(fn func(id string, t Transform)) {
	for _, id := range w.IDs() {
		fn(id, transformOf(w.bodies[id].body))
	}
}

// Teleport moves the body for id to (x, y) and stops it.
func (w *World) Teleport(id string, x, y float64) bool {
	w.mustBeAlive()
	e, ok := w.bodies[id]
	if !ok {
		return false
	}
	e.body.SetPosition(cp.Vector{X: x, Y: y})
	e.body.SetVelocity(0, 0)
	e.body.SetAngularVelocity(0)
	e.body.Activate()
	return true
}

// BodyAt returns the identity of the post body under (x, y).
func (w *World) BodyAt(x, y float64) (string, bool) {
	w.mustBeAlive()
	info := w.space.PointQueryNearest(cp.Vector{X: x, Y: y}, 0, cp.SHAPE_FILTER_ALL)
	if info == nil || info.Shape == nil {
		return "", false
	}
	id, ok := w.shapes[info.Shape]
	return id, ok
}
