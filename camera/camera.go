// Package camera provides a 2D camera system for viewport control.
package camera

// Camera controls the viewport into a square arena centered on the origin.
// Zoom is screen pixels per world unit.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Arena spans [-HalfExtent, HalfExtent] on both axes
	HalfExtent float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the origin, zoomed so the whole arena fits.
func New(viewportW, viewportH, halfExtent float32) *Camera {
	c := &Camera{
		ViewportW:  viewportW,
		ViewportH:  viewportH,
		HalfExtent: halfExtent,
	}
	c.fitZoomLimits()
	c.Reset()
	return c
}

// fitZoom returns the zoom at which the arena exactly fits the shorter
// viewport side.
func (c *Camera) fitZoom() float32 {
	return min(c.ViewportW, c.ViewportH) / (2 * c.HalfExtent)
}

func (c *Camera) fitZoomLimits() {
	fit := c.fitZoom()
	c.MinZoom = fit * 0.5
	c.MaxZoom = fit * 16
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fitZoomLimits()
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels. The center
// stays inside the arena.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, -c.HalfExtent, c.HalfExtent)
	c.Y = clamp(c.Y+dy/c.Zoom, -c.HalfExtent, c.HalfExtent)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera on the origin with the whole arena in view.
func (c *Camera) Reset() {
	c.X = 0
	c.Y = 0
	c.Zoom = c.fitZoom() * 0.95
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
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
