package lifecycle

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/sizing"
)

// Viewport is the container the pile lives in.
type Viewport struct {
	Width   float64
	Height  float64
	Density sizing.Density
}

func (v Viewport) valid() bool {
	return v.Width > 0 && v.Height > 0
}

type Config struct {
	ResizeDebounce time.Duration `yaml:"resize_debounce"`
	RefreshDelay   time.Duration `yaml:"refresh_delay"`
}

func DefaultConfig() Config {
	return Config{
		ResizeDebounce: 300 * time.Millisecond,
		RefreshDelay:   500 * time.Millisecond,
	}
}

// World is the part of physics.World the manager rebuilds and reconciles.
type World interface {
	Initialize(width, height float64) error
	Teardown()
	Initialized() bool
	AddBody(item content.Item, class sizing.Class, containerWidth float64) bool
	RemoveBody(id string)
	IDs() []string
}

// Source supplies the content list on refresh.
type Source interface {
	Items() ([]content.Item, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func() ([]content.Item, error)

func (f SourceFunc) Items() ([]content.Item, error) {
	return f()
}

// Manager keeps the world's registry matching the content list and rebuilds
// the world when the viewport settles on a new size.
type Manager struct {
	cfg    Config
	world  World
	source Source
	log    *log.Logger

	viewport Viewport
	pending  Viewport
	items    []content.Item
	loading  bool

	resize  *Debouncer
	refresh *Debouncer

	// OnReset fires after the world was rebuilt for a new viewport.
	OnReset func(Viewport)
	// OnItems fires whenever the content list changes.
	OnItems func([]content.Item)
}

func NewManager(cfg Config, world World, source Source, l *log.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		world:   world,
		source:  source,
		log:     common.Component(l, "lifecycle"),
		resize:  NewDebouncer(cfg.ResizeDebounce),
		refresh: NewDebouncer(cfg.RefreshDelay),
	}
}

// Open initializes the world for vp right away.
func (m *Manager) Open(vp Viewport) error {
	if err := m.world.Initialize(vp.Width, vp.Height); err != nil {
		return fmt.Errorf("open viewport: %w", err)
	}
	m.viewport = vp
	m.resize.Cancel()
	m.reconcile()
	return nil
}

func (m *Manager) Viewport() Viewport {
	return m.viewport
}

func (m *Manager) Items() []content.Item {
	return m.items
}

// Loading reports whether a refresh is waiting for its delay.
func (m *Manager) Loading() bool {
	return m.loading
}

// ResizePending reports whether a resize is waiting for its debounce.
func (m *Manager) ResizePending() bool {
	return m.resize.Pending()
}

// Reconcile replaces the content list and brings the registry in line with
// it. Calling it twice with the same list changes nothing.
func (m *Manager) Reconcile(items []content.Item) {
	m.items = append([]content.Item(nil), items...)
	m.reconcile()
	m.notifyItems()
}

func (m *Manager) reconcile() {
	if !m.world.Initialized() {
		return
	}
	want := make(map[string]struct{}, len(m.items))
	added := 0
	for _, it := range m.items {
		want[it.ID] = struct{}{}
		if m.world.AddBody(it, sizing.Classify(it.Text, m.viewport.Density), m.viewport.Width) {
			added++
		}
	}
	removed := 0
	for _, id := range m.world.IDs() {
		if _, ok := want[id]; !ok {
			m.world.RemoveBody(id)
			removed++
		}
	}
	if added > 0 || removed > 0 {
		m.log.Debug("reconciled", "added", added, "removed", removed, "total", len(want))
	}
}

func (m *Manager) notifyItems() {
	if m.OnItems != nil {
		m.OnItems(m.items)
	}
}

// Resize schedules a rebuild for vp. Repeated calls within the debounce
// window collapse into one rebuild after the last of them.
func (m *Manager) Resize(vp Viewport, at time.Time) {
	if !vp.valid() {
		m.log.Debug("ignoring empty viewport", "width", vp.Width, "height", vp.Height)
		return
	}
	if m.resize.Pending() {
		if vp == m.pending {
			return
		}
		if vp == m.viewport {
			m.resize.Cancel()
			return
		}
	} else if vp == m.viewport && m.world.Initialized() {
		return
	}
	m.pending = vp
	m.resize.Trigger(at)
}

// Refresh empties the pile and schedules a reload from the source.
func (m *Manager) Refresh(at time.Time) {
	m.items = nil
	m.reconcile()
	m.loading = true
	m.refresh.Trigger(at)
	m.notifyItems()
	m.log.Info("refreshing pile")
}

// Poll runs whichever deadline has passed. An error means the world could
// not be rebuilt and is left uninitialized.
func (m *Manager) Poll(at time.Time) error {
	if m.resize.Due(at) {
		vp := m.pending
		m.world.Teardown()
		if err := m.world.Initialize(vp.Width, vp.Height); err != nil {
			return fmt.Errorf("resize to %vx%v: %w", vp.Width, vp.Height, err)
		}
		m.viewport = vp
		m.reconcile()
		m.log.Debug("world rebuilt", "width", vp.Width, "height", vp.Height, "density", vp.Density)
		if m.OnReset != nil {
			m.OnReset(vp)
		}
	}

	if m.refresh.Due(at) {
		m.loading = false
		if m.source == nil {
			return nil
		}
		items, err := m.source.Items()
		if err != nil {
			m.log.Warn("refresh failed", "err", err)
			m.notifyItems()
			return nil
		}
		m.Reconcile(items)
	}
	return nil
}
