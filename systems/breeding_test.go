package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/genome"
)

// countGate allows births until the count reaches ceiling.
type countGate struct {
	count, ceiling int
}

func (g *countGate) CanReproduce() bool { return g.count < g.ceiling }

func TestOffspringPositionInDisk(t *testing.T) {
	rng := testRNG()
	center := components.Position{X: 10, Y: -4}
	for i := 0; i < 500; i++ {
		p := OffspringPosition(center, 5, rng)
		d := math.Hypot(float64(p.X-center.X), float64(p.Y-center.Y))
		if d > 5+1e-4 {
			t.Fatalf("offspring at distance %v", d)
		}
	}
}

func TestReadyToReproduce(t *testing.T) {
	if ReadyToReproduce(5, 0, 5) {
		t.Error("elapsed equal to cooldown must not reproduce")
	}
	if !ReadyToReproduce(5.1, 0, 5) {
		t.Error("elapsed past cooldown should reproduce")
	}
}

func TestBreedingSpawnsAfterCooldown(t *testing.T) {
	tw := newTestWorld()
	parent := tw.spawn(0, 0, founderTraits())
	sys := NewBreedingSystem(tw.world, genome.DefaultMutationRanges(), 5, 60, testRNG())
	gate := &countGate{count: 1, ceiling: 50}

	timers := ecs.NewMap[components.Timers](tw.world)
	var births []Birth
	create := func(b Birth) ecs.Entity {
		births = append(births, b)
		gate.count++
		child := tw.spawn(b.Pos.X, b.Pos.Y, b.Traits)
		timers.Get(child).LastReproduce = 5.1
		return child
	}

	if n := sys.Update(4.9, gate, create); n != 0 {
		t.Fatalf("births before cooldown = %d", n)
	}
	if n := sys.Update(5.1, gate, create); n != 1 {
		t.Fatalf("births = %d, want 1", n)
	}

	b := births[0]
	if b.Parent != parent || b.ParentID != 1 || b.Generation != 1 {
		t.Errorf("birth lineage = %+v", b)
	}
	if d := math.Hypot(float64(b.Pos.X), float64(b.Pos.Y)); d > 5+1e-4 {
		t.Errorf("offspring %v from parent", d)
	}
	if math.Abs(b.Traits.AttackPower-10) > 5 {
		t.Errorf("attack mutated out of range: %v", b.Traits.AttackPower)
	}

	if got := timers.Get(parent).LastReproduce; got != 5.1 {
		t.Errorf("parent LastReproduce = %v, want 5.1", got)
	}

	// Parent and child are both on cooldown.
	if n := sys.Update(6, gate, create); n != 0 {
		t.Errorf("births right after reproducing = %d", n)
	}
}

func TestBreedingHonorsCeiling(t *testing.T) {
	tw := newTestWorld()
	for i := 0; i < 5; i++ {
		tw.spawn(float32(i*10), 0, founderTraits())
	}
	sys := NewBreedingSystem(tw.world, genome.DefaultMutationRanges(), 5, 60, testRNG())
	gate := &countGate{count: 5, ceiling: 7}

	create := func(b Birth) ecs.Entity {
		gate.count++
		return tw.spawn(b.Pos.X, b.Pos.Y, b.Traits)
	}
	if n := sys.Update(10, gate, create); n != 2 {
		t.Fatalf("births = %d, want 2", n)
	}
	if gate.count != 7 {
		t.Errorf("count = %d, want 7", gate.count)
	}

	full := &countGate{count: 50, ceiling: 50}
	if n := sys.Update(100, full, create); n != 0 {
		t.Errorf("births at ceiling = %d", n)
	}
}

func TestBreedingSkipsDepleted(t *testing.T) {
	tw := newTestWorld()
	e := tw.spawn(0, 0, founderTraits())
	ecs.NewMap[components.Vigor](tw.world).Get(e).Current = 0

	sys := NewBreedingSystem(tw.world, genome.DefaultMutationRanges(), 5, 60, testRNG())
	gate := &countGate{count: 1, ceiling: 50}
	n := sys.Update(10, gate, func(b Birth) ecs.Entity { return tw.spawn(b.Pos.X, b.Pos.Y, b.Traits) })
	if n != 0 {
		t.Errorf("depleted creature reproduced")
	}
}
