package engine

import (
	"time"

	"github.com/tomz197/applecatch/internal/physics"
)

// Size is a width and height in play-area units.
type Size struct {
	Width  float64
	Height float64
}

// Point is a position in play-area units, origin top-left.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box in play-area units.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the rectangle (edges included).
func (r Rect) Contains(x, y float64) bool {
	return physics.PointInRect(x, y, r.X, r.Y, r.W, r.H)
}

// Surface draws what the engine decides. Implementations only render; they
// never mutate engine state. Calls always come from the engine's goroutine.
type Surface interface {
	// PlayArea returns the current play-area dimensions.
	PlayArea() Size
	// SpawnObject shows a new object at x, falling to the bottom over fall.
	SpawnObject(id ObjectID, x float64, fall time.Duration)
	// RemoveObject hides an object. Unknown ids are ignored.
	RemoveObject(id ObjectID)
	// MoveCatcher places the catcher's left edge at x.
	MoveCatcher(x float64)
	// ShowText shows a transient message at a position for d.
	ShowText(text string, at Point, d time.Duration)
	// SetFrozen stops or resumes all fall animations.
	SetFrozen(frozen bool)
	// UpdateStatus refreshes the score, lives and level readouts.
	UpdateStatus(s Status)
	// ShowGameOver presents the game-over panel.
	ShowGameOver(r Result)
	// HideGameOver dismisses the game-over panel if shown.
	HideGameOver()
}
