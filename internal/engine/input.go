package engine

import (
	"maps"
	"slices"

	"github.com/tomz197/applecatch/internal/physics"
)

// CatcherX returns the catcher's left edge.
func (e *Engine) CatcherX() float64 {
	return e.catcherX
}

// MovePointer moves the catcher so it is centred under pointer x, clamped to
// the play area. Ignored unless running.
func (e *Engine) MovePointer(x float64) {
	if e.Phase() != PhaseRunning {
		return
	}
	e.placeCatcher(x - e.dims.CatcherWidth/2)
}

// Click handles a click at (x, y). A click on a live object catches it;
// anywhere else it moves the catcher like MovePointer. Reports whether an
// object was caught.
func (e *Engine) Click(x, y float64) bool {
	if e.Phase() != PhaseRunning {
		return false
	}
	if id, ok := e.hit(x, y); ok {
		return e.Catch(id)
	}
	e.MovePointer(x)
	return false
}

// hit finds the live object under a point. Overlapping objects resolve to
// the most recently spawned one, which is drawn on top.
func (e *Engine) hit(x, y float64) (ObjectID, bool) {
	ids := slices.Sorted(maps.Keys(e.objects))
	for i := len(ids) - 1; i >= 0; i-- {
		if e.bounds(e.objects[ids[i]]).Contains(x, y) {
			return ids[i], true
		}
	}
	return 0, false
}

func (e *Engine) centerCatcher() {
	e.placeCatcher((e.surface.PlayArea().Width - e.dims.CatcherWidth) / 2)
}

// ClampCatcher pulls the catcher back inside the play area after it shrinks.
func (e *Engine) ClampCatcher() { e.placeCatcher(e.catcherX) }

func (e *Engine) placeCatcher(x float64) {
	e.catcherX = physics.Clamp(x, 0, e.surface.PlayArea().Width-e.dims.CatcherWidth)
	e.surface.MoveCatcher(e.catcherX)
}
