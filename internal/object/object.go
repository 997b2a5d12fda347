// Package object holds the drawable sprites of the terminal front end.
// Sprites only animate; game rules live in package engine.
package object

import (
	"time"

	"github.com/tomz197/applecatch/internal/draw"
)

// Spawner allows objects to spawn new objects during update.
type Spawner interface {
	Spawn(obj Object)
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Frozen  bool // Fall animations are paused
	Spawner Spawner
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // High-resolution canvas (2x vertical)
	Writer *draw.ChunkWriter // Text overlay output, offset to the canvas
}

// Object is a drawable and updatable sprite.
type Object interface {
	// Update advances the animation. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object. Use ctx.Canvas for shapes, ctx.Writer for text.
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}

// ShouldRenderBlink returns true if something blinking at frequency Hz should
// be drawn after elapsed seconds.
func ShouldRenderBlink(elapsed float64, frequency float64) bool {
	if elapsed <= 0 {
		return true
	}
	phase := int(elapsed * frequency)
	return phase%2 == 0
}
