package viewport

import "testing"

func TestNew_Identity(t *testing.T) {
	v := New()
	if v.Scale != 1 || v.X != 0 || v.Y != 0 {
		t.Fatalf("expected identity viewport, got %+v", v)
	}
}

func TestZoom_ButtonSteps(t *testing.T) {
	v := New()
	v.ZoomIn()
	if v.Scale != 1.2 {
		t.Fatalf("expected 1.2, got %v", v.Scale)
	}
	v.ZoomOut()
	v.ZoomOut()
	if v.Scale != 0.8 {
		t.Fatalf("expected 0.8, got %v", v.Scale)
	}
}

func TestZoom_ClampsAtBounds(t *testing.T) {
	v := New()
	for i := 0; i < 30; i++ {
		v.ZoomIn()
	}
	if v.Scale != MaxScale {
		t.Fatalf("expected clamp at %v, got %v", MaxScale, v.Scale)
	}

	for i := 0; i < 30; i++ {
		v.ZoomOut()
	}
	if v.Scale != MinScale {
		t.Fatalf("expected clamp at %v, got %v", MinScale, v.Scale)
	}

	// A further step at the bound is a no-op, not an error.
	v.ZoomOut()
	if v.Scale != MinScale {
		t.Fatalf("expected scale unchanged at %v, got %v", MinScale, v.Scale)
	}
}

func TestZoomBy_WheelSteps(t *testing.T) {
	v := New()
	v.ZoomBy(WheelZoomStep)
	if v.Scale != 1.1 {
		t.Fatalf("expected 1.1, got %v", v.Scale)
	}
	v.ZoomBy(-WheelZoomStep)
	v.ZoomBy(-WheelZoomStep)
	if v.Scale != 0.9 {
		t.Fatalf("expected 0.9, got %v", v.Scale)
	}
}

func TestPan_Accumulates(t *testing.T) {
	v := New()
	v.Pan(4, -2)
	v.Pan(-1, 5)
	if v.X != 3 || v.Y != 3 {
		t.Fatalf("expected (3, 3), got (%v, %v)", v.X, v.Y)
	}
}

func TestReset_RestoresIdentity(t *testing.T) {
	v := New()
	v.ZoomIn()
	v.Pan(10, 20)
	v.Reset()
	if v.Scale != 1 || v.X != 0 || v.Y != 0 {
		t.Fatalf("expected identity after reset, got %+v", v)
	}
}
