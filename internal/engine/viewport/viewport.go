// Package viewport maps window coordinates to drawable pixels.
package viewport

// Viewport relates the window size in screen points to the drawable size in
// pixels. On HiDPI displays the drawable is larger than the window.
type Viewport struct {
	WindowW, WindowH     int
	DrawableW, DrawableH int
}

// New returns a viewport for the given sizes.
func New(windowW, windowH, drawableW, drawableH int) Viewport {
	return Viewport{
		WindowW:   windowW,
		WindowH:   windowH,
		DrawableW: drawableW,
		DrawableH: drawableH,
	}
}

// Valid reports whether both sizes are non-empty. Minimised windows report
// zero sizes.
func (v Viewport) Valid() bool {
	return v.WindowW > 0 && v.WindowH > 0 && v.DrawableW > 0 && v.DrawableH > 0
}

// ToPixels converts a point in window coordinates to drawable pixels.
// Points outside the window are scaled the same way and not clamped.
func (v Viewport) ToPixels(x, y int) (int, int) {
	if !v.Valid() {
		return x, y
	}
	return scale(x, v.DrawableW, v.WindowW), scale(y, v.DrawableH, v.WindowH)
}

// Scale returns the horizontal pixels-per-point ratio.
func (v Viewport) Scale() float64 {
	if !v.Valid() {
		return 1
	}
	return float64(v.DrawableW) / float64(v.WindowW)
}

// scale computes v*num/den, rounding toward negative infinity so that a point
// maps to the first pixel it covers.
func scale(v, num, den int) int {
	n := v * num
	q := n / den
	if n%den != 0 && n < 0 {
		q--
	}
	return q
}
