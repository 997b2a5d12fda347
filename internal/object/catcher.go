package object

import "github.com/tomz197/applecatch/internal/draw"

// Catcher is the player's basket, fixed to the bottom of the play area.
type Catcher struct {
	X, Y          float64 // Top-left corner
	Width, Height float64
}

// NewCatcher creates a catcher resting on bottom.
func NewCatcher(width, height, bottom float64) *Catcher {
	return &Catcher{
		Y:      bottom - height,
		Width:  width,
		Height: height,
	}
}

// Draw renders the basket as a trapezoid, wider at the top, under a rim.
func (c *Catcher) Draw(ctx DrawContext) error {
	inset := c.Width / 8
	points := ctx.Canvas.BorrowPoints(4)
	points[0] = draw.Point{X: c.X, Y: c.Y}
	points[1] = draw.Point{X: c.X + c.Width, Y: c.Y}
	points[2] = draw.Point{X: c.X + c.Width - inset, Y: c.Y + c.Height}
	points[3] = draw.Point{X: c.X + inset, Y: c.Y + c.Height}
	ctx.Canvas.DrawPolygon(points, true)
	ctx.Canvas.FillRect(c.X-1, c.Y-1, c.Width+2, 1) // Rim
	return nil
}
