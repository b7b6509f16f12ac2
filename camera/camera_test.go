package camera

import (
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, true)

	// Should be centered on the surface
	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected camera at (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}

func TestNewFitsSmallSurface(t *testing.T) {
	cam := New(1280, 720, 320, 180, false)

	// A surface smaller than the screen starts magnified to fill it
	if cam.Zoom != 4 {
		t.Errorf("expected zoom 4, got %f", cam.Zoom)
	}
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	if minX != 0 || minY != 0 || maxX != 320 || maxY != 180 {
		t.Errorf("expected full surface visible, got (%f,%f)-(%f,%f)", minX, minY, maxX, maxY)
	}
}

func TestWorldToScreenCentered(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, true)

	// Camera center should map to screen center
	sx, sy := cam.WorldToScreen(1280, 720)
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}
}

func TestScreenToWorldRoundtrip(t *testing.T) {
	for _, wrap := range []bool{true, false} {
		cam := New(1280, 720, 2560, 1440, wrap)
		cam.SetZoom(2)

		testCases := []struct{ sx, sy float32 }{
			{640, 360},  // center
			{100, 100},  // top-left
			{1200, 600}, // near bottom-right
		}

		for _, tc := range testCases {
			wx, wy := cam.ScreenToWorld(tc.sx, tc.sy)
			sx, sy := cam.WorldToScreen(wx, wy)
			if math.Abs(float64(sx-tc.sx)) > 0.01 || math.Abs(float64(sy-tc.sy)) > 0.01 {
				t.Errorf("wrap=%v roundtrip failed: (%f,%f) -> (%f,%f) -> (%f,%f)",
					wrap, tc.sx, tc.sy, wx, wy, sx, sy)
			}
		}
	}
}

func TestToroidalWrap(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, true)
	cam.X = 100 // Near left edge

	// A point at the right edge is closer through the seam
	sx, _ := cam.WorldToScreen(2500, 720)
	if sx >= 640 {
		t.Errorf("expected point on left of screen, got x=%f", sx)
	}
}

func TestPanWraps(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, true)
	cam.X = 100

	// Pan left should wrap to right side of the surface
	cam.Pan(-200, 0)

	if cam.X < 2000 {
		t.Errorf("expected X to wrap around, got %f", cam.X)
	}
}

func TestPanClampsWhenBounded(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, false)

	cam.Pan(-5000, -5000)
	minX, minY, _, _ := cam.VisibleWorldBounds()
	if minX != 0 || minY != 0 {
		t.Errorf("expected view pinned to origin, got (%f, %f)", minX, minY)
	}

	cam.Pan(10000, 10000)
	_, _, maxX, maxY := cam.VisibleWorldBounds()
	if maxX != 2560 || maxY != 1440 {
		t.Errorf("expected view pinned to far corner, got (%f, %f)", maxX, maxY)
	}
}

func TestZoomClamp(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, true)

	// MinZoom should be max(1280/2560, 720/1440) = 0.5
	if cam.MinZoom != 0.5 {
		t.Errorf("expected MinZoom 0.5, got %f", cam.MinZoom)
	}

	cam.SetZoom(0.1) // Below min
	if cam.Zoom != 0.5 {
		t.Errorf("expected zoom clamped to 0.5, got %f", cam.Zoom)
	}

	cam.SetZoom(100.0) // Above max
	if cam.Zoom != cam.MaxZoom {
		t.Errorf("expected zoom clamped to %f, got %f", cam.MaxZoom, cam.Zoom)
	}
}

func TestMinZoomPreventsDeadSpace(t *testing.T) {
	cam := New(800, 600, 1600, 800, false)

	// MinZoom should be max(800/1600, 600/800) = 0.75
	if math.Abs(float64(cam.MinZoom-0.75)) > 0.001 {
		t.Errorf("expected MinZoom 0.75, got %f", cam.MinZoom)
	}

	// At min zoom, visible area should exactly fit the surface in the limiting dimension
	cam.SetZoom(cam.MinZoom)
	visibleH := cam.ViewportH / cam.Zoom
	if math.Abs(float64(visibleH-cam.WorldH)) > 0.01 {
		t.Errorf("at min zoom, visible height %f should equal surface height %f", visibleH, cam.WorldH)
	}
}

func TestResizeRaisesMinZoom(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, true)
	cam.SetZoom(0.5)

	cam.Resize(2560*2, 1440)
	if cam.Zoom != 2 {
		t.Errorf("expected zoom raised to 2, got %f", cam.Zoom)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 2560, 1440, true)
	cam.X = 500
	cam.Y = 500
	cam.Zoom = 2.5

	cam.Reset()

	if cam.X != 1280 || cam.Y != 720 {
		t.Errorf("expected position (1280, 720), got (%f, %f)", cam.X, cam.Y)
	}
	if cam.Zoom != 1.0 {
		t.Errorf("expected zoom 1.0, got %f", cam.Zoom)
	}
}
