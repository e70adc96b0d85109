package lifecycle

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/milk9111/gravitypile/content"
	"github.com/milk9111/gravitypile/physics"
	"github.com/milk9111/gravitypile/sizing"
)

var t0 = time.Unix(1_700_000_000, 0)

func newWorld(t *testing.T) *physics.World {
	t.Helper()
	w, err := physics.NewWorld(physics.DefaultConfig(),
		physics.WithRand(rand.New(rand.NewSource(9))),
		physics.WithClock(func() time.Time { return t0 }),
	)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func items(ids ...string) []content.Item {
	out := make([]content.Item, len(ids))
	for i, id := range ids {
		out[i] = content.Item{ID: id, Text: "post " + id, CreatedAt: t0.Add(-time.Hour)}
	}
	return out
}

var vp = Viewport{Width: 800, Height: 600, Density: sizing.Normal}

func TestReconcileMatchesItems(t *testing.T) {
	world := newWorld(t)
	m := NewManager(DefaultConfig(), world, nil, nil)
	if err := m.Open(vp); err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		name string
		ids  []string
	}{
		{"initial", []string{"a", "b", "c"}},
		{"same_again", []string{"a", "b", "c"}},
		{"shuffled", []string{"c", "a", "b"}},
		{"add_and_remove", []string{"b", "d"}},
		{"empty", nil},
		{"back", []string{"e"}},
	}
	sortStrings := cmpopts.SortSlices(func(a, b string) bool { return a < b })
	for _, step := range steps {
		t.Run(step.name, func(t *testing.T) {
			m.Reconcile(items(step.ids...))
			want := step.ids
			if want == nil {
				want = []string{}
			}
			if diff := cmp.Diff(want, world.IDs(), sortStrings, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("registry mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReconcileIsIdempotent(t *testing.T) {
	world := newWorld(t)
	m := NewManager(DefaultConfig(), world, nil, nil)
	if err := m.Open(vp); err != nil {
		t.Fatal(err)
	}
	list := items("a", "b")
	m.Reconcile(list)
	before, _ := world.Transform("a")
	m.Reconcile(list)
	after, _ := world.Transform("a")
	if before != after {
		t.Fatalf("second reconcile rebuilt the body: %+v -> %+v", before, after)
	}
}

func TestReconcileBeforeOpen(t *testing.T) {
	world := newWorld(t)
	m := NewManager(DefaultConfig(), world, nil, nil)
	m.Reconcile(items("a", "b"))
	if err := m.Open(vp); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, world.IDs()); diff != "" {
		t.Fatalf("open should populate stored items (-want +got):\n%s", diff)
	}
}

func TestOpenRejectsInvalidViewport(t *testing.T) {
	m := NewManager(DefaultConfig(), newWorld(t), nil, nil)
	err := m.Open(Viewport{Width: 0, Height: 600})
	if !errors.Is(err, physics.ErrInvalidViewport) {
		t.Fatalf("expected ErrInvalidViewport, got %v", err)
	}
}

func TestResizeBurstRebuildsOnce(t *testing.T) {
	world := newWorld(t)
	m := NewManager(DefaultConfig(), world, nil, nil)
	if err := m.Open(vp); err != nil {
		t.Fatal(err)
	}
	m.Reconcile(items("a", "b", "c"))
	resets := 0
	m.OnReset = func(Viewport) { resets++ }
	gen := world.Generation()

	at := t0
	for i := 0; i < 5; i++ {
		m.Resize(Viewport{Width: 700 + float64(i)*10, Height: 500, Density: sizing.Normal}, at)
		if err := m.Poll(at); err != nil {
			t.Fatal(err)
		}
		at = at.Add(50 * time.Millisecond)
	}
	last := at.Add(-50 * time.Millisecond)

	if err := m.Poll(last.Add(299 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if world.Generation() != gen {
		t.Fatalf("rebuilt before the debounce elapsed")
	}
	if err := m.Poll(last.Add(300 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if world.Generation() != gen+1 || resets != 1 {
		t.Fatalf("expected exactly one rebuild, generation %d->%d, resets %d", gen, world.Generation(), resets)
	}
	if w, h := world.Size(); w != 740 || h != 500 {
		t.Fatalf("rebuilt at %vx%v, want 740x500", w, h)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, world.IDs()); diff != "" {
		t.Fatalf("bodies not rebuilt (-want +got):\n%s", diff)
	}

	if err := m.Poll(last.Add(time.Second)); err != nil {
		t.Fatal(err)
	}
	if world.Generation() != gen+1 {
		t.Fatalf("debounce fired twice")
	}
}

func TestResizeSameViewportIsIgnored(t *testing.T) {
	world := newWorld(t)
	m := NewManager(DefaultConfig(), world, nil, nil)
	if err := m.Open(vp); err != nil {
		t.Fatal(err)
	}
	gen := world.Generation()

	m.Resize(vp, t0)
	if m.ResizePending() {
		t.Fatalf("resize to the current viewport should not schedule a rebuild")
	}

	bigger := Viewport{Width: 900, Height: 600}
	m.Resize(bigger, t0)
	m.Resize(bigger, t0.Add(200*time.Millisecond))
	if err := m.Poll(t0.Add(300 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if world.Generation() != gen+1 {
		t.Fatalf("repeating the pending viewport must not push the deadline")
	}

	m.Resize(Viewport{Width: 1000, Height: 600}, t0.Add(time.Second))
	m.Resize(bigger, t0.Add(time.Second+10*time.Millisecond))
	if m.ResizePending() {
		t.Fatalf("resizing back to the current viewport should cancel")
	}
	m.Resize(Viewport{}, t0)
	if m.ResizePending() {
		t.Fatalf("empty viewport should be ignored")
	}
}

func TestRefresh(t *testing.T) {
	world := newWorld(t)
	calls := 0
	src := SourceFunc(func() ([]content.Item, error) {
		calls++
		return items("x", "y"), nil
	})
	m := NewManager(DefaultConfig(), world, src, nil)
	if err := m.Open(vp); err != nil {
		t.Fatal(err)
	}
	m.Reconcile(items("a", "b"))
	var seen [][]content.Item
	m.OnItems = func(list []content.Item) { seen = append(seen, list) }

	m.Refresh(t0)
	if !m.Loading() || world.Len() != 0 || len(m.Items()) != 0 {
		t.Fatalf("refresh should clear the pile and enter loading")
	}
	if err := m.Poll(t0.Add(499 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatalf("source called before the refresh delay")
	}
	if err := m.Poll(t0.Add(500 * time.Millisecond)); err != nil {
		t.Fatal(err)
	}
	if m.Loading() || calls != 1 {
		t.Fatalf("loading=%v calls=%d after the delay", m.Loading(), calls)
	}
	if diff := cmp.Diff([]string{"x", "y"}, world.IDs()); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
	if len(seen) != 2 || len(seen[0]) != 0 || len(seen[1]) != 2 {
		t.Fatalf("unexpected item notifications: %v", seen)
	}
}

func TestRefreshSourceError(t *testing.T) {
	world := newWorld(t)
	src := SourceFunc(func() ([]content.Item, error) { return nil, errors.New("offline") })
	m := NewManager(DefaultConfig(), world, src, nil)
	if err := m.Open(vp); err != nil {
		t.Fatal(err)
	}
	m.Reconcile(items("a"))
	m.Refresh(t0)
	if err := m.Poll(t0.Add(time.Second)); err != nil {
		t.Fatalf("source errors are not fatal: %v", err)
	}
	if m.Loading() || world.Len() != 0 {
		t.Fatalf("failed refresh should leave an empty, idle pile")
	}
}

func TestDebouncer(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)
	if d.Due(t0) {
		t.Fatalf("idle debouncer fired")
	}
	d.Trigger(t0)
	d.Trigger(t0.Add(80 * time.Millisecond))
	if d.Due(t0.Add(150 * time.Millisecond)) {
		t.Fatalf("retrigger should push the deadline")
	}
	if !d.Due(t0.Add(180 * time.Millisecond)) {
		t.Fatalf("expected to fire at the pushed deadline")
	}
	if d.Due(t0.Add(time.Second)) {
		t.Fatalf("fired twice")
	}
	d.Trigger(t0)
	d.Cancel()
	if d.Pending() || d.Due(t0.Add(time.Second)) {
		t.Fatalf("cancelled debouncer fired")
	}
}
