// Package pile wires the world, the visual layer and the input and
// lifecycle controllers into one scene driven from a single goroutine.
package pile

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/config"
	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/interaction"
	"github.com/milk9111/gravitypile/lifecycle"
	"github.com/milk9111/gravitypile/physics"
	"github.com/milk9111/gravitypile/render"
)

type sceneOptions struct {
	rng    *rand.Rand
	now    func() time.Time
	log    *log.Logger
	source lifecycle.Source
}

type Option func(*sceneOptions)

func WithRand(r *rand.Rand) Option {
	return func(o *sceneOptions) { o.rng = r }
}

// WithClock sets the clock used to decide spawn bias.
func WithClock(now func() time.Time) Option {
	return func(o *sceneOptions) { o.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(o *sceneOptions) { o.log = l }
}

// WithSource sets where refreshes pull a new content list from.
func WithSource(src lifecycle.Source) Option {
	return func(o *sceneOptions) { o.source = src }
}

// Scene is the pile: posts as bodies, bodies as elements, pointers as drags.
type Scene struct {
	world  *physics.World
	layer  *render.Layer
	sync   *render.SyncLoop
	input  *interaction.Controller
	life   *lifecycle.Manager
	events EventQueue
	log    *log.Logger

	// OnItemSelected is called for every tap on a post.
	OnItemSelected func(id string)
}

func NewScene(t config.Tuning, opts ...Option) (*Scene, error) {
	o := sceneOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	world, err := physics.NewWorld(t.Physics,
		physics.WithRand(o.rng),
		physics.WithClock(o.now),
		physics.WithLogger(o.log),
	)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		world: world,
		layer: render.NewLayer(),
		sync:  render.NewSyncLoop(t.Sync, o.log),
		input: interaction.NewController(t.Interaction, world, o.log),
		life:  lifecycle.NewManager(t.Lifecycle, world, o.source, o.log),
		log:   common.Component(o.log, "scene"),
	}
	s.input.OnSelect = s.selected
	s.life.OnItems = s.itemsChanged
	s.life.OnReset = s.reset
	return s, nil
}

func (s *Scene) selected(id string) {
	s.events.Push(Event{Type: EventSelected, ID: id})
	if s.OnItemSelected != nil {
		s.OnItemSelected(id)
	}
}

func (s *Scene) itemsChanged(items []content.Item) {
	s.layer.SyncItems(items, s.life.Viewport().Density)
	if s.life.Loading() && len(items) == 0 {
		s.events.Push(Event{Type: EventLoading})
		return
	}
	s.events.Push(Event{Type: EventItems, Count: len(items)})
}

func (s *Scene) reset(vp lifecycle.Viewport) {
	s.input.Cancel()
	s.layer.SyncItems(s.life.Items(), vp.Density)
	s.layer.Hide()
	s.events.Push(Event{Type: EventReset})
}

// Open builds the world for vp and populates it with the current items.
func (s *Scene) Open(vp lifecycle.Viewport) error {
	if err := s.life.Open(vp); err != nil {
		return err
	}
	s.layer.SyncItems(s.life.Items(), vp.Density)
	s.log.Info("scene opened", "width", vp.Width, "height", vp.Height, "density", vp.Density, "items", len(s.life.Items()))
	return nil
}

// SetItems replaces the content list.
func (s *Scene) SetItems(items []content.Item) {
	s.life.Reconcile(items)
}

// Prepend adds item at the front of the content list.
func (s *Scene) Prepend(item content.Item) {
	items := append([]content.Item{item}, s.life.Items()...)
	s.life.Reconcile(items)
}

func (s *Scene) Items() []content.Item {
	return s.life.Items()
}

// Item looks up a current post by identity.
func (s *Scene) Item(id string) (content.Item, bool) {
	for _, it := range s.life.Items() {
		if it.ID == id {
			return it, true
		}
	}
	return content.Item{}, false
}

func (s *Scene) Resize(vp lifecycle.Viewport, at time.Time) {
	s.life.Resize(vp, at)
}

func (s *Scene) Refresh(at time.Time) {
	s.input.Cancel()
	s.life.Refresh(at)
}

func (s *Scene) Loading() bool {
	return s.life.Loading()
}

func (s *Scene) Viewport() lifecycle.Viewport {
	return s.life.Viewport()
}

func (s *Scene) World() *physics.World {
	return s.world
}

// Recovered counts runaway bodies put back on top.
func (s *Scene) Recovered() int {
	return s.sync.Recovered()
}

// Tick runs due lifecycle work and advances the world one fixed step.
func (s *Scene) Tick(at time.Time) error {
	if err := s.life.Poll(at); err != nil {
		return err
	}
	if s.world.Initialized() {
		s.world.Step()
	}
	return nil
}

// Frame syncs the layer with the world and returns elements in draw order.
func (s *Scene) Frame() []*render.Element {
	if !s.world.Initialized() {
		return nil
	}
	vp := s.life.Viewport()
	s.sync.Sync(s.world, s.layer, vp.Width, vp.Height)
	elements := s.layer.Elements()
	for _, el := range elements {
		el.Dragged = s.input.Dragged(el.ID)
	}
	return s.layer.Elements()
}

func (s *Scene) PointerDown(pointer int, x, y float64, at time.Time) bool {
	return s.input.Down(pointer, x, y, at)
}

func (s *Scene) PointerMove(pointer int, x, y float64) {
	s.input.Move(pointer, x, y)
}

func (s *Scene) PointerUp(pointer int, x, y float64, at time.Time) bool {
	return s.input.Up(pointer, x, y, at)
}

// Events drains queued scene events.
func (s *Scene) Events() []Event {
	return s.events.Drain()
}
