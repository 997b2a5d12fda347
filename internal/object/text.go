package object

import (
	"time"
	"unicode/utf8"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ANSI attributes used for fading text.
const (
	attrDim   = "\033[2m"
	attrBold  = "\033[1m"
	attrReset = "\033[0m"
)

// FloatingText is a transient message that rises and fades out.
// X and Y are logical coordinates of the text's anchor.
type FloatingText struct {
	X, Y     float64
	Value    string
	Centered bool // Anchor is the middle of the text rather than its start
	rise     *gween.Tween
	offset   float64
	life     time.Duration
	elapsed  time.Duration
}

// NewFloatingText creates a text that lives for life, rising by rise units.
func NewFloatingText(x, y float64, value string, rise float64, life time.Duration) *FloatingText {
	return &FloatingText{
		X:     x,
		Y:     y,
		Value: value,
		rise:  gween.New(0, float32(rise), float32(life.Seconds()), ease.OutQuad),
		life:  life,
	}
}

// Update advances the rise. Returns true once the text has expired.
func (t *FloatingText) Update(ctx UpdateContext) (bool, error) {
	t.elapsed += ctx.Delta
	offset, _ := t.rise.Update(float32(ctx.Delta.Seconds()))
	t.offset = float64(offset)
	return t.elapsed >= t.life, nil
}

// Draw writes the text at its current position, dimmed in its second half.
func (t *FloatingText) Draw(ctx DrawContext) error {
	if t.Value == "" {
		return nil
	}
	col, row := ctx.Canvas.LogicalToTerminal(t.X, t.Y-t.offset)
	if t.Centered {
		col -= utf8.RuneCountInString(t.Value) / 2
	}
	col = max(col, 1)
	row = max(row, 1)

	attr := attrBold
	if t.elapsed*2 >= t.life {
		attr = attrDim
	}
	ctx.Writer.WriteAt(col, row, attr+t.Value+attrReset)
	return nil
}
