// Package camera provides a 2D camera for viewing the trail surface.
package camera

import "math"

// Camera controls the viewport into the trail surface.
// A wrapping camera pans endlessly across a toroidal surface; a bounded
// camera keeps the view inside the surface.
type Camera struct {
	// Position is the camera center in surface coordinates
	X, Y float32

	// Zoom level (1.0 = one texel per screen pixel)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Surface dimensions
	WorldW, WorldH float32

	// Wrap selects toroidal panning
	Wrap bool

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the surface. The starting zoom fits the
// surface to the viewport on its tighter axis.
func New(viewportW, viewportH, worldW, worldH float32, wrap bool) *Camera {
	c := &Camera{
		X:         worldW / 2,
		Y:         worldH / 2,
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		Wrap:      wrap,
	}
	c.updateZoomLimits()
	c.Zoom = max(1, c.MinZoom)
	c.constrain()
	return c
}

// updateZoomLimits keeps the visible area within the surface.
// At zoom Z the visible area is (viewportW/Z, viewportH/Z).
func (c *Camera) updateZoomLimits() {
	c.MinZoom = max(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
	c.MaxZoom = max(16, c.MinZoom*4)
}

// WorldToScreen converts surface coordinates to screen coordinates.
// When wrapping, the nearest copy of the point is used.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	dx := wx - c.X
	dy := wy - c.Y
	if c.Wrap {
		dx = toroidalDelta(wx, c.X, c.WorldW)
		dy = toroidalDelta(wy, c.Y, c.WorldH)
	}
	sx = c.ViewportW/2 + dx*c.Zoom
	sy = c.ViewportH/2 + dy*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to surface coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	dx := (sx - c.ViewportW/2) / c.Zoom
	dy := (sy - c.ViewportH/2) / c.Zoom

	if c.Wrap {
		return mod(c.X+dx, c.WorldW), mod(c.Y+dy, c.WorldH)
	}
	return clamp(c.X+dx, 0, c.WorldW), clamp(c.Y+dy, 0, c.WorldH)
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.updateZoomLimits()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float32) {
	c.X += dx / c.Zoom
	c.Y += dy / c.Zoom
	c.constrain()
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
	c.constrain()
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.WorldW / 2
	c.Y = c.WorldH / 2
	c.SetZoom(max(1, c.MinZoom))
}

// constrain wraps or clamps the center so the view stays valid.
func (c *Camera) constrain() {
	if c.Wrap {
		c.X = mod(c.X, c.WorldW)
		c.Y = mod(c.Y, c.WorldH)
		return
	}
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	c.X = clamp(c.X, min(halfW, c.WorldW/2), max(c.WorldW-halfW, c.WorldW/2))
	c.Y = clamp(c.Y, min(halfH, c.WorldH/2), max(c.WorldH-halfH, c.WorldH/2))
}

// VisibleWorldBounds returns the surface-coordinate bounds of the visible area.
// When wrapping, min may be negative or max beyond the surface; a texture with
// repeat addressing maps those back onto the surface.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float32) float32 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	if r >= m {
		r = 0
	}
	return r
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
