// Package systems provides ECS systems for the simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
)

// Neighbor holds a nearby entity with precomputed spatial data.
type Neighbor struct {
	E      ecs.Entity
	DX, DY float32 // delta from query origin
	DistSq float32 // squared distance
}

// SpatialGrid provides O(1) neighbor lookups using a cell-based grid over a
// square arena centered on the origin. Positions outside the arena are
// clamped into the border cells.
type SpatialGrid struct {
	cellSize   float32
	cols       int
	rows       int
	halfExtent float32
	cells      [][]ecs.Entity
}

// NewSpatialGrid creates a spatial grid covering [-halfExtent, halfExtent] on both axes.
func NewSpatialGrid(halfExtent, cellSize float32) *SpatialGrid {
	size := halfExtent * 2
	cols := int(size/cellSize) + 1
	rows := cols

	cells := make([][]ecs.Entity, cols*rows)
	for i := range cells {
		cells[i] = make([]ecs.Entity, 0, 8)
	}

	return &SpatialGrid{
		cellSize:   cellSize,
		cols:       cols,
		rows:       rows,
		halfExtent: halfExtent,
		cells:      cells,
	}
}

// Clear removes all entities from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity to the grid at the given position.
func (g *SpatialGrid) Insert(e ecs.Entity, x, y float32) {
	col, row := g.cellCoords(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], e)
}

// MaxQueryResults caps the number of neighbors returned by spatial queries.
const MaxQueryResults = 128

// QueryRadiusInto finds entities within radius and appends to dst (up to MaxQueryResults).
// Reuse dst across calls to avoid allocations.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, x, y, radius float32, exclude ecs.Entity, posMap *ecs.Map[components.Position]) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cellCoords(x, y)
	radiusSq := radius * radius

	for row := max(centerRow-cellRadius, 0); row <= min(centerRow+cellRadius, g.rows-1); row++ {
		for col := max(centerCol-cellRadius, 0); col <= min(centerCol+cellRadius, g.cols-1); col++ {
			for _, e := range g.cells[row*g.cols+col] {
				if e == exclude {
					continue
				}
				pos := posMap.Get(e)
				if pos == nil {
					continue
				}

				dx := pos.X - x
				dy := pos.Y - y
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{E: e, DX: dx, DY: dy, DistSq: distSq})
					if len(dst) >= MaxQueryResults {
						return dst
					}
				}
			}
		}
	}

	return dst
}

// Pairs appends every unordered pair of entities whose centers are within
// radius of each other. Each pair is reported once, lower entity ID first.
func (g *SpatialGrid) Pairs(dst []Pair, radius float32, posMap *ecs.Map[components.Position]) []Pair {
	var scratch []Neighbor
	for _, cell := range g.cells {
		for _, e := range cell {
			pos := posMap.Get(e)
			if pos == nil {
				continue
			}
			scratch = g.QueryRadiusInto(scratch[:0], pos.X, pos.Y, radius, e, posMap)
			for _, n := range scratch {
				if e.ID() < n.E.ID() {
					dst = append(dst, Pair{A: e, B: n.E})
				}
			}
		}
	}
	return dst
}

// cellCoords returns the clamped column and row for a world position.
func (g *SpatialGrid) cellCoords(x, y float32) (col, row int) {
	col = int((x + g.halfExtent) / g.cellSize)
	row = int((y + g.halfExtent) / g.cellSize)

	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}
