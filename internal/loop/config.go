package loop

import (
	"time"

	"github.com/tomz197/applecatch/internal/engine"
)

// View resolution - the play area in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 120 // Logical play-area width
	ViewHeight = 80  // Logical play-area height (in sub-pixels, so 40 terminal rows)
)

// Max render resolution. Larger terminals get a centred, bordered canvas.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// TerminalDimensions are the piece sizes on the logical canvas.
var TerminalDimensions = engine.Dimensions{
	ObjectWidth:  6,
	ObjectHeight: 6,
	CatcherWidth: 18,
}

// Pieces
const (
	CatcherHeight = 4
	KeyboardSpeed = 90.0 // Logical units per second while an arrow key is held
	TextRise      = 6.0  // Logical units a floating text climbs over its life
)

// Effects
const (
	BurstParticles    = 10
	BurstSpeed        = 25.0
	BurstLifetime     = 0.4 // Seconds
	SplatParticles    = 8
	PauseBlinkFreq    = 2.0 // Hz
	PromptBlinkPeriod = 600 * time.Millisecond
)

// Inactivity
const (
	InactivityWarnUser       = 90 * time.Second
	InactivityDisconnectUser = 120 * time.Second
)

// Rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)
