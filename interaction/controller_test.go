package interaction

import (
	"math/rand"
	"testing"
	"time"

	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/physics"
	"github.com/milk9111/gravitypile/sizing"
)

var t0 = time.Unix(1_700_000_000, 0)

// worldWithPost returns a world holding one post centred near (100, 100).
func worldWithPost(t *testing.T) *physics.World {
	t.Helper()
	world, err := physics.NewWorld(physics.DefaultConfig(),
		physics.WithRand(rand.New(rand.NewSource(5))),
		physics.WithClock(func() time.Time { return t0 }),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := world.Initialize(800, 600); err != nil {
		t.Fatal(err)
	}
	it := content.Item{ID: "post", Text: "hello", CreatedAt: t0.Add(-time.Hour)}
	world.AddBody(it, sizing.Classify(it.Text, sizing.Normal), 800)
	world.Teleport("post", 100, 100)
	world.Step()
	return world
}

func TestTapVersusDrag(t *testing.T) {
	tests := []struct {
		name       string
		upX, upY   float64
		held       time.Duration
		wantSelect int
	}{
		{"short_tap", 102, 101, 120 * time.Millisecond, 1},
		{"long_move", 250, 400, 120 * time.Millisecond, 0},
		{"long_hold", 102, 101, 600 * time.Millisecond, 0},
		{"edge_distance", 130, 100, 100 * time.Millisecond, 0},
		{"edge_duration", 100, 100, 500 * time.Millisecond, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			world := worldWithPost(t)
			c := NewController(DefaultConfig(), world, nil)
			var selected []string
			c.OnSelect = func(id string) { selected = append(selected, id) }

			if !c.Down(0, 100, 100, t0) {
				t.Fatalf("expected to pick up the post")
			}
			if !c.Dragged("post") || !world.Grabbed("post") {
				t.Fatalf("post should be dragged")
			}
			c.Move(0, tc.upX, tc.upY)
			world.Step()
			c.Up(0, tc.upX, tc.upY, t0.Add(tc.held))

			if len(selected) != tc.wantSelect {
				t.Fatalf("selected %v, want %d selections", selected, tc.wantSelect)
			}
			if c.Dragged("post") || world.Grabbed("post") || c.Active() != 0 {
				t.Fatalf("drag state must be cleared on up")
			}
		})
	}
}

func TestDownOnEmptySpace(t *testing.T) {
	world := worldWithPost(t)
	c := NewController(DefaultConfig(), world, nil)
	if c.Down(0, 700, 100, t0) {
		t.Fatalf("nothing to pick up at (700, 100)")
	}
	if c.Up(0, 700, 100, t0.Add(10*time.Millisecond)) {
		t.Fatalf("up without a drag must not select")
	}
}

func TestBodyHeldByOnePointer(t *testing.T) {
	world := worldWithPost(t)
	c := NewController(DefaultConfig(), world, nil)
	if !c.Down(0, 100, 100, t0) {
		t.Fatalf("first pointer should grab")
	}
	if c.Down(1, 101, 101, t0) {
		t.Fatalf("second pointer must not grab a held body")
	}
	if c.Active() != 1 {
		t.Fatalf("expected one active drag, got %d", c.Active())
	}
}

func TestTapOnRemovedBodyIsIgnored(t *testing.T) {
	world := worldWithPost(t)
	c := NewController(DefaultConfig(), world, nil)
	called := false
	c.OnSelect = func(string) { called = true }

	c.Down(0, 100, 100, t0)
	world.RemoveBody("post")
	if c.Up(0, 101, 100, t0.Add(50*time.Millisecond)) || called {
		t.Fatalf("tap on a removed body must not select")
	}
}

func TestCancelDropsDrags(t *testing.T) {
	world := worldWithPost(t)
	c := NewController(DefaultConfig(), world, nil)
	called := false
	c.OnSelect = func(string) { called = true }

	c.Down(0, 100, 100, t0)
	c.Cancel()
	if c.Active() != 0 || world.Grabbed("post") {
		t.Fatalf("cancel should release every grip")
	}
	if c.Up(0, 100, 100, t0.Add(10*time.Millisecond)) || called {
		t.Fatalf("up after cancel must not select")
	}
}

func TestDownOnUninitializedWorld(t *testing.T) {
	world, err := physics.NewWorld(physics.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	c := NewController(DefaultConfig(), world, nil)
	if c.Down(0, 0, 0, t0) {
		t.Fatalf("down on an uninitialized world should do nothing")
	}
}
