// Package engine implements the apple-catch game rules.
//
// An Engine owns the score, lives, level, catcher and the live falling
// objects. It is not safe for concurrent use: every method and every
// scheduler callback must run on the same goroutine, which is how both the
// terminal frame loop and the websocket session drive it.
package engine

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/tomz197/applecatch/internal/sched"
)

// Options configures an Engine. Zero values select defaults.
type Options struct {
	Dimensions Dimensions  // Defaults to BrowserDimensions
	Rand       *rand.Rand  // Source for spawn positions
	Logger     *log.Logger // Defaults to a discarding logger
}

// Engine runs one game.
type Engine struct {
	surface Surface
	sched   sched.Scheduler
	dims    Dimensions
	rng     *rand.Rand
	logger  *log.Logger

	state    GameState
	over     bool
	catcherX float64

	objects    map[ObjectID]*FallingObject
	nextID     ObjectID
	spawnTimer sched.Timer
}

// New creates an idle engine drawing to surface and timing with scheduler.
// The catcher starts centred and the readouts are published immediately.
func New(surface Surface, scheduler sched.Scheduler, opts Options) *Engine {
	dims := opts.Dimensions
	if dims == (Dimensions{}) {
		dims = BrowserDimensions
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		surface: surface,
		sched:   scheduler,
		dims:    dims,
		rng:     rng,
		logger:  logger,
		state:   initialState(),
		objects: make(map[ObjectID]*FallingObject),
	}
	e.centerCatcher()
	e.publish()
	return e
}

// State returns a copy of the game state.
func (e *Engine) State() GameState {
	return e.state
}

// Phase returns the current state-machine phase.
func (e *Engine) Phase() Phase {
	switch {
	case e.state.Running && e.state.Paused:
		return PhasePaused
	case e.state.Running:
		return PhaseRunning
	case e.over:
		return PhaseGameOver
	default:
		return PhaseIdle
	}
}

// Status returns the values the readouts should show.
func (e *Engine) Status() Status {
	return Status{
		Score: e.state.Score,
		Lives: e.state.Lives,
		Level: e.state.Level,
		Phase: e.Phase(),
	}
}

// Start begins play from Idle. It keeps score, lives and level as they are.
// Ignored in any other phase.
func (e *Engine) Start() {
	if e.Phase() != PhaseIdle {
		return
	}
	e.state.Running = true
	e.state.Paused = false
	e.publish()
	e.startSpawnLoop()
	e.logger.Info("game started", "level", e.state.Level)
}

// TogglePause pauses or resumes a running game. Pausing stops spawning and
// freezes every falling object; resuming restarts the spawn loop from now and
// lets each object finish the rest of its fall. Ignored unless running.
func (e *Engine) TogglePause() {
	if !e.state.Running {
		return
	}
	e.state.Paused = !e.state.Paused
	if e.state.Paused {
		e.stopSpawnLoop()
		e.freezeObjects()
		e.surface.SetFrozen(true)
	} else {
		e.thawObjects()
		e.surface.SetFrozen(false)
		e.startSpawnLoop()
	}
	e.publish()
	e.logger.Debug("pause toggled", "paused", e.state.Paused)
}

// Reset returns to Idle with a fresh score, lives and level from any phase.
// Live objects are dropped without costing lives.
func (e *Engine) Reset() {
	e.stopSpawnLoop()
	e.clearObjects()
	e.state = initialState()
	e.over = false
	e.surface.SetFrozen(false)
	e.surface.HideGameOver()
	e.centerCatcher()
	e.publish()
	e.logger.Debug("game reset")
}

// gameOver ends the game once lives run out.
func (e *Engine) gameOver() {
	e.stopSpawnLoop()
	e.clearObjects()
	e.state.Running = false
	e.state.Paused = false
	e.over = true
	e.publish()
	e.surface.ShowGameOver(Result{Score: e.state.Score, Level: e.state.Level})
	e.logger.Info("game over", "score", e.state.Score, "level", e.state.Level)
}

// publish pushes the current readouts to the surface.
func (e *Engine) publish() {
	e.surface.UpdateStatus(e.Status())
}
