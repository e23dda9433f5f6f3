package components

// Position represents an entity's location on the arena plane.
type Position struct {
	X, Y float32
}
