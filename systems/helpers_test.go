package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/genome"
)

// testWorld wraps a world with a creature mapper for system tests.
type testWorld struct {
	world  *ecs.World
	mapper *ecs.Map6[components.Position, components.Behavior, components.Vigor, components.Genes, components.Timers, components.Organism]
	nextID uint32
}

func newTestWorld() *testWorld {
	w := ecs.NewWorld()
	return &testWorld{
		world:  w,
		mapper: ecs.NewMap6[components.Position, components.Behavior, components.Vigor, components.Genes, components.Timers, components.Organism](w),
	}
}

// spawn adds a wandering creature at (x, y) with full vigor.
func (tw *testWorld) spawn(x, y float32, traits genome.Traits) ecs.Entity {
	tw.nextID++
	pos := components.Position{X: x, Y: y}
	beh := components.Behavior{TargetPos: pos}
	vigor := components.Vigor{Current: traits.MaxVigor, Max: traits.MaxVigor}
	genes := components.NewGenes(traits)
	timers := components.Timers{}
	org := components.Organism{ID: tw.nextID}
	return tw.mapper.NewEntity(&pos, &beh, &vigor, &genes, &timers, &org)
}

func founderTraits() genome.Traits {
	return genome.Traits{AttackPower: 10, MoveSpeed: 5, MaxVigor: 100, HitCooldown: 1, ReproduceCooldown: 5}
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
