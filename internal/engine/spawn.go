package engine

import "github.com/tomz197/applecatch/internal/physics"

// startSpawnLoop (re)starts the spawn timer at the current level's cadence.
// The previous timer is cancelled, so the new phase starts from now.
func (e *Engine) startSpawnLoop() {
	e.stopSpawnLoop()
	e.spawnTimer = e.sched.Every(SpawnInterval(e.state.Level), e.spawn)
}

// stopSpawnLoop cancels the spawn timer if one is active.
func (e *Engine) stopSpawnLoop() {
	if e.spawnTimer != nil {
		e.spawnTimer.Stop()
		e.spawnTimer = nil
	}
}

// spawn creates one falling object at a random horizontal position.
// Ticks that arrive while not running, or while paused, are dropped.
func (e *Engine) spawn() {
	if e.Phase() != PhaseRunning {
		return
	}

	x := e.rng.Float64() * physics.Travel(e.surface.PlayArea().Width, e.dims.ObjectWidth)

	e.nextID++
	now := e.sched.Now()
	obj := &FallingObject{
		ID:           e.nextID,
		X:            x,
		FallDuration: FallDuration(e.state.Level),
		SpawnTime:    now,
		legStart:     now,
	}
	e.objects[obj.ID] = obj
	e.scheduleLanding(obj, obj.FallDuration)
	e.surface.SpawnObject(obj.ID, obj.X, obj.FallDuration)
}
