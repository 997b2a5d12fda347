package engine

import "time"

// Lives and progression
const (
	InitialLives = 3
	InitialLevel = 1
	CatchScore   = 10  // Points per caught object
	LevelUpScore = 100 // Every positive multiple of this advances the level
)

// Spawn cadence: max(SpawnBase - level*SpawnStep, SpawnMin)
const (
	SpawnBase = 1000 * time.Millisecond
	SpawnStep = 100 * time.Millisecond
	SpawnMin  = 300 * time.Millisecond
)

// Fall duration: max(FallBase - level*FallStep, FallMin)
const (
	FallBase = 2000 * time.Millisecond
	FallStep = 200 * time.Millisecond
	FallMin  = 800 * time.Millisecond
)

// Presentation
const (
	CatchEffectText       = "+10"
	CatchEffectDuration   = 500 * time.Millisecond
	LevelUpEffectDuration = 1000 * time.Millisecond
)

// Dimensions are the sizes of game pieces in play-area units.
type Dimensions struct {
	ObjectWidth  float64
	ObjectHeight float64
	CatcherWidth float64
}

// BrowserDimensions match the page stylesheet (pixels).
var BrowserDimensions = Dimensions{
	ObjectWidth:  30,
	ObjectHeight: 30,
	CatcherWidth: 80,
}

// SpawnInterval returns the spawn cadence for a level.
func SpawnInterval(level int) time.Duration {
	return stepDown(level, SpawnBase, SpawnStep, SpawnMin)
}

// FallDuration returns how long an object spawned at a level takes to land.
func FallDuration(level int) time.Duration {
	return stepDown(level, FallBase, FallStep, FallMin)
}

// stepDown computes max(base - level*step, floor) without overflowing for
// very large levels.
func stepDown(level int, base, step, floor time.Duration) time.Duration {
	if level <= 0 {
		return base
	}
	if level >= int((base-floor)/step) {
		return floor
	}
	return max(base-time.Duration(level)*step, floor)
}
