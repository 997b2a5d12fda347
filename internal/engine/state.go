package engine

// Phase is the engine's position in its state machine.
type Phase int

const (
	PhaseIdle     Phase = iota // Waiting for Start
	PhaseRunning               // Spawning and accepting input
	PhasePaused                // Spawning halted, objects frozen
	PhaseGameOver              // Out of lives; only Reset is accepted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhasePaused:
		return "paused"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// GameState holds the score, lives, level and run flags.
// Running is always false when Lives is 0.
type GameState struct {
	Score   int
	Lives   int
	Level   int
	Running bool
	Paused  bool // Only meaningful while Running
}

// initialState is the state after construction and after Reset.
func initialState() GameState {
	return GameState{
		Lives: InitialLives,
		Level: InitialLevel,
	}
}

// Status is what the readouts display after every mutation.
type Status struct {
	Score int
	Lives int
	Level int
	Phase Phase
}

// Result is shown on the game-over panel.
type Result struct {
	Score int
	Level int
}
