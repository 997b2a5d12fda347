package loop

import (
	"maps"
	"slices"
	"time"

	"github.com/tomz197/applecatch/internal/engine"
	"github.com/tomz197/applecatch/internal/object"
	"github.com/tomz197/applecatch/internal/physics"
)

// termSurface renders the engine's decisions as sprites on the half-block
// canvas. It only animates; every rule stays in the engine.
type termSurface struct {
	area engine.Size
	dims engine.Dimensions

	apples  map[engine.ObjectID]*object.Apple
	catcher *object.Catcher
	effects []object.Object // Particles, drawn on the canvas
	texts   []object.Object // Floating texts, drawn over the canvas
	toSpawn []object.Object // Effects queued during update
	frozen  bool

	status   engine.Status
	result   engine.Result
	gameOver bool
}

var _ engine.Surface = (*termSurface)(nil)

func newTermSurface(area engine.Size, dims engine.Dimensions) *termSurface {
	return &termSurface{
		area:    area,
		dims:    dims,
		apples:  make(map[engine.ObjectID]*object.Apple),
		catcher: object.NewCatcher(dims.CatcherWidth, CatcherHeight, area.Height),
	}
}

func (s *termSurface) PlayArea() engine.Size {
	return s.area
}

func (s *termSurface) SpawnObject(id engine.ObjectID, x float64, fall time.Duration) {
	travel := physics.Travel(s.area.Height, s.dims.ObjectHeight)
	s.apples[id] = object.NewApple(x, s.dims.ObjectWidth, s.dims.ObjectHeight, travel, fall)
}

// RemoveObject drops an apple with a splat if it reached the ground, or a
// burst if it was caught in the air.
func (s *termSurface) RemoveObject(id engine.ObjectID) {
	a, ok := s.apples[id]
	if !ok {
		return
	}
	delete(s.apples, id)

	cx, cy := a.Center()
	travel := physics.Travel(s.area.Height, s.dims.ObjectHeight)
	if a.Landed() || a.Y >= travel-1 {
		object.SpawnSplat(cx, s.area.Height-1, SplatParticles, s)
		return
	}
	object.SpawnBurst(cx, cy, BurstParticles, BurstSpeed, BurstLifetime, s)
}

func (s *termSurface) MoveCatcher(x float64) {
	s.catcher.X = x
}

func (s *termSurface) ShowText(text string, at engine.Point, d time.Duration) {
	ft := object.NewFloatingText(at.X, at.Y, text, TextRise, d)
	ft.Centered = true
	s.texts = append(s.texts, ft)
}

func (s *termSurface) SetFrozen(frozen bool) {
	s.frozen = frozen
}

func (s *termSurface) UpdateStatus(st engine.Status) {
	s.status = st
}

func (s *termSurface) ShowGameOver(r engine.Result) {
	s.result = r
	s.gameOver = true
}

func (s *termSurface) HideGameOver() {
	s.gameOver = false
}

// Spawn queues an effect to be added after the current update.
// Implements object.Spawner.
func (s *termSurface) Spawn(obj object.Object) {
	s.toSpawn = append(s.toSpawn, obj)
}

// update advances every animation by delta.
func (s *termSurface) update(delta time.Duration) {
	ctx := object.UpdateContext{
		Delta:   delta,
		Frozen:  s.frozen,
		Spawner: s,
	}
	for _, a := range s.apples {
		a.Update(ctx)
	}
	s.effects = updateAll(s.effects, ctx)
	s.texts = updateAll(s.texts, ctx)

	s.effects = append(s.effects, s.toSpawn...)
	s.toSpawn = s.toSpawn[:0]
}

// updateAll updates objs in place and drops the ones that finished.
func updateAll(objs []object.Object, ctx object.UpdateContext) []object.Object {
	kept := objs[:0]
	for _, obj := range objs {
		remove, err := obj.Update(ctx)
		if remove || err != nil {
			object.ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(objs[len(kept):])
	return kept
}

// drawShapes draws apples, catcher and particles onto the canvas. Apples are
// drawn in spawn order so newer ones sit on top, matching click hit testing.
func (s *termSurface) drawShapes(ctx object.DrawContext) error {
	for _, id := range slices.Sorted(maps.Keys(s.apples)) {
		if err := s.apples[id].Draw(ctx); err != nil {
			return err
		}
	}
	if err := s.catcher.Draw(ctx); err != nil {
		return err
	}
	for _, obj := range s.effects {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}

// drawTexts writes floating texts over the rendered canvas.
func (s *termSurface) drawTexts(ctx object.DrawContext) error {
	for _, obj := range s.texts {
		if err := obj.Draw(ctx); err != nil {
			return err
		}
	}
	return nil
}
