package object

import (
	"math"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/tomz197/applecatch/internal/draw"
)

// applePolygonSides is the number of sides used to approximate the apple.
const applePolygonSides = 10

// Apple is a falling object sprite. X and Y are its top-left corner.
type Apple struct {
	X, Y          float64
	Width, Height float64
	fall          *gween.Tween
	landed        bool
}

// NewApple creates an apple at x that falls travel units over fall.
func NewApple(x, width, height, travel float64, fall time.Duration) *Apple {
	return &Apple{
		X:      x,
		Width:  width,
		Height: height,
		fall:   gween.New(0, float32(travel), float32(fall.Seconds()), ease.Linear),
	}
}

// Landed reports whether the fall animation has finished.
func (a *Apple) Landed() bool {
	return a.landed
}

// Center returns the middle of the apple.
func (a *Apple) Center() (float64, float64) {
	return a.X + a.Width/2, a.Y + a.Height/2
}

// Update advances the fall unless frozen. Apples are never removed by their
// own animation; the engine decides when they go.
func (a *Apple) Update(ctx UpdateContext) (bool, error) {
	if ctx.Frozen || a.landed {
		return false, nil
	}
	y, done := a.fall.Update(float32(ctx.Delta.Seconds()))
	a.Y = float64(y)
	a.landed = done
	return false, nil
}

// Draw renders the apple as a filled round body with a stem.
func (a *Apple) Draw(ctx DrawContext) error {
	cx, cy := a.Center()
	rx := a.Width / 2
	ry := a.Height / 2 * 0.85
	bodyY := cy + a.Height/2 - ry

	points := ctx.Canvas.BorrowPoints(applePolygonSides)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / applePolygonSides
		points[i] = draw.Point{
			X: cx + math.Cos(angle)*rx,
			Y: bodyY + math.Sin(angle)*ry,
		}
	}
	ctx.Canvas.DrawPolygon(points, true)
	ctx.Canvas.DrawLine(draw.Point{X: cx, Y: a.Y}, draw.Point{X: cx + rx/3, Y: a.Y - 1})
	return nil
}
