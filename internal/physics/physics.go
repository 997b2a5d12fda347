// Package physics provides hit testing and bounds utilities.
package physics

// PointInRect reports whether (px, py) lies inside the rectangle at (x, y)
// with size w×h. Edges count as inside.
func PointInRect(px, py, x, y, w, h float64) bool {
	return px >= x && px <= x+w && py >= y && py <= y+h
}

// Clamp limits v to [lo, hi]. If hi < lo, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}

// Travel returns how far something of the given size can move inside span.
// Never negative.
func Travel(span, size float64) float64 {
	return max(span-size, 0)
}
