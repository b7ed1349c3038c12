package viewport

import "time"

// PointerSource distinguishes mouse from touch input. Tap classification is
// stricter for touch: a touch tap must also be shorter than TapMaxDuration,
// while mouse taps classify by distance alone.
type PointerSource int

const (
	Mouse PointerSource = iota
	Touch
)

const (
	// DragThreshold is the movement (either axis) past which a pressed
	// pointer becomes a drag.
	DragThreshold = 5.0
	// TapMaxDuration is the longest press-to-release time that still counts
	// as a tap for touch input.
	TapMaxDuration = 200 * time.Millisecond
)

// PointerEvent is one element of the unified pointer stream. Platform
// adapters (terminal mouse, touch digitizer) construct these; the classifier
// never branches on platform beyond the Source field.
type PointerEvent struct {
	X      float64
	Y      float64
	Time   time.Time
	Source PointerSource
}

// EventKind tags the classifier's output.
type EventKind int

const (
	// None: the event changed internal state but produced no intent.
	None EventKind = iota
	// Pan: the gesture is a drag; DX/DY carry the translation delta since
	// the previous event.
	Pan
	// Tap: the gesture ended as a tap at (X, Y).
	Tap
)

// Intent is the classifier's verdict for one pointer event.
type Intent struct {
	Kind EventKind
	X    float64
	Y    float64
	DX   float64
	DY   float64
}

type gesturePhase int

const (
	idle gesturePhase = iota
	pressed
	dragging
)

// Classifier turns a press/move/release stream into either pan deltas or a
// single tap intent, never both for the same gesture. One gesture is one
// press-to-release cycle; a new press cannot arrive before the prior release
// in the single-pointer model, so the classifier holds at most one session.
type Classifier struct {
	phase     gesturePhase
	startX    float64
	startY    float64
	lastX     float64
	lastY     float64
	startTime time.Time
	source    PointerSource
}

// Press begins a gesture session. A press while a session is live (missed
// release) restarts the session.
func (c *Classifier) Press(ev PointerEvent) Intent {
	c.phase = pressed
	c.startX, c.startY = ev.X, ev.Y
	c.lastX, c.lastY = ev.X, ev.Y
	c.startTime = ev.Time
	c.source = ev.Source
	return Intent{Kind: None}
}

// Move feeds pointer motion. Once movement since the press exceeds
// DragThreshold on either axis the gesture is a drag for good, and every move
// (including this one) yields a pan delta.
func (c *Classifier) Move(ev PointerEvent) Intent {
	switch c.phase {
	case idle:
		return Intent{Kind: None}
	case pressed:
		if abs(ev.X-c.startX) < DragThreshold && abs(ev.Y-c.startY) < DragThreshold {
			c.lastX, c.lastY = ev.X, ev.Y
			return Intent{Kind: None}
		}
		c.phase = dragging
	}
	intent := Intent{Kind: Pan, DX: ev.X - c.lastX, DY: ev.Y - c.lastY}
	c.lastX, c.lastY = ev.X, ev.Y
	return intent
}

// Release ends the gesture session. A release while still in the pressed
// phase is a tap when it lands within DragThreshold of the press, and, for
// touch, when the press was held shorter than TapMaxDuration. A release after
// dragging emits nothing.
func (c *Classifier) Release(ev PointerEvent) Intent {
	phase := c.phase
	source := c.source
	start := c.startTime
	startX, startY := c.startX, c.startY
	c.phase = idle

	if phase != pressed {
		return Intent{Kind: None}
	}
	// The release position counts as movement even when no move event was
	// delivered in between.
	if abs(ev.X-startX) >= DragThreshold || abs(ev.Y-startY) >= DragThreshold {
		return Intent{Kind: None}
	}
	if source == Touch && ev.Time.Sub(start) >= TapMaxDuration {
		return Intent{Kind: None}
	}
	return Intent{Kind: Tap, X: ev.X, Y: ev.Y}
}

// Dragging reports whether the live gesture has been classified as a drag.
func (c *Classifier) Dragging() bool {
	return c.phase == dragging
}

// Active reports whether a gesture session is live.
func (c *Classifier) Active() bool {
	return c.phase != idle
}

// Cancel drops the live gesture session without emitting anything, for when
// the pointer stream is taken over by a control that owns it press-to-release.
func (c *Classifier) Cancel() {
	c.phase = idle
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
