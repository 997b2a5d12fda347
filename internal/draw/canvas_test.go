package draw

import (
	"strings"
	"testing"
)

func TestTerminalToLogicalRoundTrip(t *testing.T) {
	c := NewScaledCanvas(120, 40, 120, 80)

	x, y, ok := c.TerminalToLogical(11, 6)
	if !ok {
		t.Fatal("position inside canvas reported outside")
	}
	if x != 10.5 || y != 11 {
		t.Fatalf("TerminalToLogical(11, 6) = (%v, %v), want (10.5, 11)", x, y)
	}
	col, row := c.LogicalToTerminal(10, y)
	if col != 11 || row != 6 {
		t.Fatalf("LogicalToTerminal(10, %v) = (%d, %d), want (11, 6)", y, col, row)
	}
}

func TestTerminalToLogicalHonoursOffset(t *testing.T) {
	c := NewScaledCanvas(60, 20, 120, 80)
	c.SetOffset(10, 5)

	if _, _, ok := c.TerminalToLogical(10, 10); ok {
		t.Fatal("column left of the offset canvas reported inside")
	}
	if _, _, ok := c.TerminalToLogical(20, 5); ok {
		t.Fatal("row above the offset canvas reported inside")
	}
	x, y, ok := c.TerminalToLogical(11, 6)
	if !ok || x != 1 || y != 2 {
		t.Fatalf("TerminalToLogical(11, 6) = (%v, %v, %v), want (1, 2, true)", x, y, ok)
	}
}

func TestFillRectRendersBlocks(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.FillRect(1, 0, 2, 4)

	var sb strings.Builder
	c.Render(&sb)
	out := sb.String()

	if n := strings.Count(out, string(BlockFull)); n != 4 {
		t.Fatalf("full blocks = %d, want 4 in %q", n, out)
	}
	if strings.Contains(out, "\033[1;1H") {
		t.Fatalf("column outside the rectangle was drawn: %q", out)
	}
}
