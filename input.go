package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/gravitypile/pile"
)

// mousePointer keeps the mouse apart from touch IDs, which start at zero.
const mousePointer = -1

// Input forwards mouse and touch gestures to the scene as pointer events.
type Input struct {
	touches []ebiten.TouchID
	ignored map[int]bool
}

func NewInput() *Input {
	return &Input{ignored: make(map[int]bool)}
}

// Update forwards this tick's gestures. Gestures that start where blocked
// reports true belong to the HUD and never reach the pile.
func (in *Input) Update(scene *pile.Scene, at time.Time, blocked func(x, y int) bool) {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.down(scene, mousePointer, x, y, at, blocked)
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		scene.PointerMove(mousePointer, float64(x), float64(y))
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		in.up(scene, mousePointer, x, y, at)
	}

	in.touches = inpututil.AppendJustPressedTouchIDs(in.touches[:0])
	for _, id := range in.touches {
		x, y := ebiten.TouchPosition(id)
		in.down(scene, int(id), x, y, at, blocked)
	}
	in.touches = ebiten.AppendTouchIDs(in.touches[:0])
	for _, id := range in.touches {
		x, y := ebiten.TouchPosition(id)
		scene.PointerMove(int(id), float64(x), float64(y))
	}
	in.touches = inpututil.AppendJustReleasedTouchIDs(in.touches[:0])
	for _, id := range in.touches {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		in.up(scene, int(id), x, y, at)
	}
}

func (in *Input) down(scene *pile.Scene, pointer, x, y int, at time.Time, blocked func(x, y int) bool) {
	if blocked != nil && blocked(x, y) {
		in.ignored[pointer] = true
		return
	}
	scene.PointerDown(pointer, float64(x), float64(y), at)
}

func (in *Input) up(scene *pile.Scene, pointer, x, y int, at time.Time) {
	if in.ignored[pointer] {
		delete(in.ignored, pointer)
		return
	}
	scene.PointerUp(pointer, float64(x), float64(y), at)
}
