// Package viewport holds the seating chart's pan/zoom transform and the
// tap-vs-drag classifier over a unified pointer stream.
package viewport

const (
	// MinScale and MaxScale bound the zoom factor.
	MinScale = 0.5
	MaxScale = 3.0

	// ButtonZoomStep is the scale change per discrete zoom control press.
	ButtonZoomStep = 0.2
	// WheelZoomStep is the scale change per wheel notch.
	WheelZoomStep = 0.1
)

// Viewport is the chart transform: a zoom scale and a pan translation.
// It resets to identity on session start and is never persisted.
type Viewport struct {
	Scale float64
	X     float64
	Y     float64
}

// New returns the identity viewport.
func New() Viewport {
	return Viewport{Scale: 1}
}

// ZoomIn increments the scale by one control step, clamped.
func (v *Viewport) ZoomIn() {
	v.ZoomBy(ButtonZoomStep)
}

// ZoomOut decrements the scale by one control step, clamped.
func (v *Viewport) ZoomOut() {
	v.ZoomBy(-ButtonZoomStep)
}

// ZoomBy adjusts the scale by delta, clamped to [MinScale, MaxScale].
func (v *Viewport) ZoomBy(delta float64) {
	v.Scale = clamp(v.Scale+delta, MinScale, MaxScale)
}

// Pan shifts the translation by (dx, dy).
func (v *Viewport) Pan(dx, dy float64) {
	v.X += dx
	v.Y += dy
}

// Reset restores scale 1 and translation (0, 0).
func (v *Viewport) Reset() {
	*v = Viewport{Scale: 1}
}

func clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
