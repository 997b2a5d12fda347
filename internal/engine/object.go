package engine

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/tomz197/applecatch/internal/physics"
	"github.com/tomz197/applecatch/internal/sched"
)

// ObjectID identifies a falling object within one engine. IDs are never reused.
type ObjectID uint64

// FallingObject is a live target descending toward the bottom.
type FallingObject struct {
	ID           ObjectID
	X            float64       // Left edge
	FallDuration time.Duration // Active time from spawn to landing
	SpawnTime    time.Time

	fallen   time.Duration // Active fall time before the current leg
	legStart time.Time     // Start of the current leg; unused while frozen
	frozen   bool
	landing  sched.Timer
}

// Elapsed returns how long the object has actually been falling at now,
// excluding time spent frozen.
func (o *FallingObject) Elapsed(now time.Time) time.Duration {
	if o.frozen {
		return o.fallen
	}
	return o.fallen + now.Sub(o.legStart)
}

// Progress returns the fraction of the fall completed at now, in [0, 1].
func (o *FallingObject) Progress(now time.Time) float64 {
	if o.FallDuration <= 0 {
		return 1
	}
	p := float64(o.Elapsed(now)) / float64(o.FallDuration)
	return min(max(p, 0), 1)
}

// Objects returns copies of the live objects ordered by ID.
func (e *Engine) Objects() []FallingObject {
	ids := slices.Sorted(maps.Keys(e.objects))
	out := make([]FallingObject, 0, len(ids))
	for _, id := range ids {
		out = append(out, *e.objects[id])
	}
	return out
}

// Bounds returns where a live object currently is.
func (e *Engine) Bounds(id ObjectID) (Rect, bool) {
	obj, ok := e.objects[id]
	if !ok {
		return Rect{}, false
	}
	return e.bounds(obj), true
}

func (e *Engine) bounds(obj *FallingObject) Rect {
	travel := physics.Travel(e.surface.PlayArea().Height, e.dims.ObjectHeight)
	return Rect{
		X: obj.X,
		Y: obj.Progress(e.sched.Now()) * travel,
		W: e.dims.ObjectWidth,
		H: e.dims.ObjectHeight,
	}
}

// Catch catches a live object. It reports whether the catch counted; it does
// not when the game is not running, is paused, or the object is already gone.
func (e *Engine) Catch(id ObjectID) bool {
	if e.Phase() != PhaseRunning {
		return false
	}
	obj, ok := e.objects[id]
	if !ok {
		return false
	}
	at := e.bounds(obj)
	if !e.remove(id) {
		return false
	}

	e.state.Score += CatchScore
	e.publish()
	e.logger.Debug("caught", "id", id, "score", e.state.Score)

	if e.state.Score > 0 && e.state.Score%LevelUpScore == 0 {
		e.levelUp()
	}
	e.surface.ShowText(CatchEffectText, Point{X: at.X, Y: at.Y}, CatchEffectDuration)
	return true
}

// levelUp advances the level and restarts spawning at the faster cadence.
func (e *Engine) levelUp() {
	e.state.Level++
	e.publish()

	area := e.surface.PlayArea()
	e.surface.ShowText(fmt.Sprintf("Level %d!", e.state.Level),
		Point{X: area.Width / 2, Y: area.Height / 2}, LevelUpEffectDuration)
	e.startSpawnLoop()
	e.logger.Info("level up", "level", e.state.Level, "interval", SpawnInterval(e.state.Level))
}

// miss handles an object reaching the bottom.
func (e *Engine) miss(id ObjectID) {
	if !e.remove(id) {
		return
	}
	e.state.Lives--
	e.publish()
	e.logger.Debug("missed", "id", id, "lives", e.state.Lives)

	if e.state.Lives <= 0 {
		e.gameOver()
	}
}

// remove drops an object from the live set. The first call wins; later calls
// for the same id report false and do nothing.
func (e *Engine) remove(id ObjectID) bool {
	obj, ok := e.objects[id]
	if !ok {
		return false
	}
	delete(e.objects, id)
	if obj.landing != nil {
		obj.landing.Stop()
	}
	e.surface.RemoveObject(id)
	return true
}

// clearObjects removes every live object without scoring misses.
func (e *Engine) clearObjects() {
	for _, id := range slices.Sorted(maps.Keys(e.objects)) {
		e.remove(id)
	}
}

// scheduleLanding arms the miss timer for the remaining fall.
func (e *Engine) scheduleLanding(obj *FallingObject, remaining time.Duration) {
	id := obj.ID
	obj.landing = e.sched.After(remaining, func() { e.miss(id) })
}

// freezeObjects stops every fall timer and banks the time fallen so far.
func (e *Engine) freezeObjects() {
	now := e.sched.Now()
	for _, id := range slices.Sorted(maps.Keys(e.objects)) {
		obj := e.objects[id]
		if obj.frozen {
			continue
		}
		obj.fallen += now.Sub(obj.legStart)
		obj.frozen = true
		obj.landing.Stop()
		obj.landing = nil
	}
}

// thawObjects resumes every frozen fall for its remaining duration.
func (e *Engine) thawObjects() {
	now := e.sched.Now()
	for _, id := range slices.Sorted(maps.Keys(e.objects)) {
		obj := e.objects[id]
		if !obj.frozen {
			continue
		}
		obj.frozen = false
		obj.legStart = now
		e.scheduleLanding(obj, max(obj.FallDuration-obj.fallen, 0))
	}
}
