package render

import (
	"github.com/charmbracelet/log"
	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/physics"
)

// SyncConfig tunes out-of-bounds recovery.
type SyncConfig struct {
	// Overflow is how far below the viewport a body may fall before it is
	// put back on top.
	Overflow float64 `yaml:"overflow"`
	// RespawnY is where recovered bodies reappear.
	RespawnY float64 `yaml:"respawn_y"`
}

func DefaultSyncConfig() SyncConfig {
	return SyncConfig{Overflow: 200, RespawnY: -200}
}

// Bodies is the read and recovery surface SyncLoop needs from the world.
type Bodies interface {
	IDs() []string
	Transform(id string) (physics.Transform, bool)
	Teleport(id string, x, y float64) bool
	Factory() *physics.Factory
}

// SyncLoop copies body transforms onto layer elements once per frame.
type SyncLoop struct {
	cfg SyncConfig
	log *log.Logger

	recovered int
}

func NewSyncLoop(cfg SyncConfig, l *log.Logger) *SyncLoop {
	return &SyncLoop{cfg: cfg, log: common.Component(l, "sync")}
}

// Recovered counts bodies teleported back to the top since creation.
func (s *SyncLoop) Recovered() int {
	return s.recovered
}

// Sync updates every element that has a body. Runaway bodies are recovered
// before their transform is read, so an element never shows a position
// outside the recovery bound.
func (s *SyncLoop) Sync(world Bodies, layer *Layer, viewportW, viewportH float64) {
	for _, id := range world.IDs() {
		el, ok := layer.Get(id)
		if !ok {
			continue
		}
		t, ok := world.Transform(id)
		if !ok {
			continue
		}

		if t.Y > viewportH+s.cfg.Overflow {
			x := world.Factory().RandomX(el.Class.Width, viewportW)
			world.Teleport(id, x, s.cfg.RespawnY)
			s.recovered++
			s.log.Debug("recovered runaway body", "id", id, "from_y", t.Y, "x", x)
			t, _ = world.Transform(id)
		}

		el.CX, el.CY = t.X, t.Y
		el.X = t.X - el.Class.Width/2
		el.Y = t.Y - el.Class.Height/2
		el.Angle = common.UprightAngle(t.Angle)
		el.Visible = true
	}
}
