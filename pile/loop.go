package pile

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/gravitypile/common"
	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/lifecycle"
	"github.com/milk9111/gravitypile/render"
)

type PointerKind int

const (
	PointerDown PointerKind = iota
	PointerMove
	PointerUp
)

type PointerEvent struct {
	Pointer int
	Kind    PointerKind
	X, Y    float64
}

// Loop drives a scene without a window. Steps, frames and every input
// arrive through one select, so the scene is only touched from Run.
type Loop struct {
	scene      *Scene
	stepEvery  time.Duration
	frameEvery time.Duration
	now        func() time.Time
	log        *log.Logger

	Items    chan []content.Item
	Resize   chan lifecycle.Viewport
	Pointers chan PointerEvent
	Refresh  chan struct{}

	// OnFrame receives the elements after every frame sync.
	OnFrame func([]*render.Element)
	// OnEvent receives drained scene events after every step.
	OnEvent func(Event)
}

func NewLoop(scene *Scene, stepRate, frameRate int, l *log.Logger) *Loop {
	return &Loop{
		scene:      scene,
		stepEvery:  time.Second / time.Duration(stepRate),
		frameEvery: time.Second / time.Duration(frameRate),
		now:        time.Now,
		log:        common.Component(l, "loop"),
		Items:      make(chan []content.Item, 1),
		Resize:     make(chan lifecycle.Viewport, 4),
		Pointers:   make(chan PointerEvent, 16),
		Refresh:    make(chan struct{}, 1),
	}
}

// Run blocks until ctx is done or the scene fails to rebuild.
func (l *Loop) Run(ctx context.Context) error {
	step := time.NewTicker(l.stepEvery)
	defer step.Stop()
	frame := time.NewTicker(l.frameEvery)
	defer frame.Stop()

	l.log.Debug("loop started", "step", l.stepEvery, "frame", l.frameEvery)
	for {
		select {
		case <-ctx.Done():
			l.log.Debug("loop stopped", "steps", l.scene.World().Steps())
			return nil
		case <-step.C:
			if err := l.scene.Tick(l.now()); err != nil {
				return err
			}
			for _, evt := range l.scene.Events() {
				if l.OnEvent != nil {
					l.OnEvent(evt)
				}
			}
		case <-frame.C:
			elements := l.scene.Frame()
			if l.OnFrame != nil {
				l.OnFrame(elements)
			}
		case items := <-l.Items:
			l.scene.SetItems(items)
		case vp := <-l.Resize:
			l.scene.Resize(vp, l.now())
		case <-l.Refresh:
			l.scene.Refresh(l.now())
		case p := <-l.Pointers:
			l.pointer(p)
		}
	}
}

func (l *Loop) pointer(p PointerEvent) {
	switch p.Kind {
	case PointerDown:
		l.scene.PointerDown(p.Pointer, p.X, p.Y, l.now())
	case PointerMove:
		l.scene.PointerMove(p.Pointer, p.X, p.Y)
	case PointerUp:
		l.scene.PointerUp(p.Pointer, p.X, p.Y, l.now())
	}
}
