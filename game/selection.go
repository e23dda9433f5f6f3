package game

import (
	"github.com/dhconnelly/rtreego"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"
)

// pickSlop widens creature bounds so small bodies stay clickable.
const pickSlop = 1.5

// creatureBounds is a creature's footprint in the picking index.
type creatureBounds struct {
	entity ecs.Entity
	x, y   float64
	rect   rtreego.Rect
}

func (c *creatureBounds) Bounds() rtreego.Rect {
	return c.rect
}

// buildPickIndex indexes every creature's body square.
func (g *Game) buildPickIndex() *rtreego.Rtree {
	half := g.config().Arena.BodyRadius + pickSlop
	side := []float64{2 * half, 2 * half}

	var objs []rtreego.Spatial
	query := g.filter.Query()
	for query.Next() {
		pos, _, _, _, _, _ := query.Get()
		x, y := float64(pos.X), float64(pos.Y)
		rect, err := rtreego.NewRect(rtreego.Point{x - half, y - half}, side)
		if err != nil {
			continue
		}
		objs = append(objs, &creatureBounds{entity: query.Entity(), x: x, y: y, rect: rect})
	}
	return rtreego.NewTree(2, 25, 50, objs...)
}

// pickAt returns the creature closest to the world point whose bounds
// contain it.
func (g *Game) pickAt(wx, wy float32) (ecs.Entity, bool) {
	tree := g.buildPickIndex()
	probe, err := rtreego.NewRect(rtreego.Point{float64(wx), float64(wy)}, []float64{0.01, 0.01})
	if err != nil {
		return ecs.Entity{}, false
	}

	var best ecs.Entity
	bestDist := -1.0
	for _, hit := range tree.SearchIntersect(probe) {
		c := hit.(*creatureBounds)
		dx, dy := c.x-float64(wx), c.y-float64(wy)
		d := dx*dx + dy*dy
		if bestDist < 0 || d < bestDist {
			best, bestDist = c.entity, d
		}
	}
	return best, bestDist >= 0
}

// handleSelection selects the creature under a left click, or clears the
// selection when the click hits nothing.
func (g *Game) handleSelection() {
	if g.camera == nil || !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	if g.overPanel(mouse.X, mouse.Y) {
		return
	}
	wx, wy := g.camera.ScreenToWorld(mouse.X, mouse.Y)
	g.selected, g.hasSelection = g.pickAt(wx, wy)
}
