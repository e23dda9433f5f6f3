// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// BehaviorState is the top-level mode of a creature's state machine.
type BehaviorState uint8

const (
	Wandering BehaviorState = iota // roaming toward TargetPos
	Engaging                       // locked onto Target
)

// Behavior holds the state machine of one creature.
// Target is only meaningful while State is Engaging; it is a handle that must
// be checked with World.Alive before use.
type Behavior struct {
	State     BehaviorState
	Target    ecs.Entity
	TargetPos Position
}

// Engage locks onto target and aims at its current position.
func (b *Behavior) Engage(target ecs.Entity, at Position) {
	b.State = Engaging
	b.Target = target
	b.TargetPos = at
}

// Disengage returns to wandering toward a fresh roaming point.
func (b *Behavior) Disengage(next Position) {
	b.State = Wandering
	b.Target = ecs.Entity{}
	b.TargetPos = next
}

// EngagedWith returns the target handle when engaging.
func (b *Behavior) EngagedWith() (ecs.Entity, bool) {
	if b.State != Engaging {
		return ecs.Entity{}, false
	}
	return b.Target, true
}
