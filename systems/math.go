package systems

import (
	"math"

	"github.com/pthm-cable/creatures/components"
)

// clampFloat clamps a float32 value between min and max.
func clampFloat(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// MoveTowards moves from toward to by at most maxDelta and never overshoots.
// A negative maxDelta moves away from the target.
func MoveTowards(from, to components.Position, maxDelta float32) components.Position {
	dx := to.X - from.X
	dy := to.Y - from.Y
	sq := dx*dx + dy*dy
	if sq == 0 || (maxDelta >= 0 && sq <= maxDelta*maxDelta) {
		return to
	}
	dist := float32(math.Sqrt(float64(sq)))
	return components.Position{
		X: from.X + dx/dist*maxDelta,
		Y: from.Y + dy/dist*maxDelta,
	}
}

// ClampToArena keeps a position inside [-halfExtent, halfExtent] on both axes.
func ClampToArena(p components.Position, halfExtent float32) components.Position {
	return components.Position{
		X: clampFloat(p.X, -halfExtent, halfExtent),
		Y: clampFloat(p.Y, -halfExtent, halfExtent),
	}
}
