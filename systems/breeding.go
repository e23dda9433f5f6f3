package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/genome"
)

// Gate decides whether one more creature may be born.
type Gate interface {
	CanReproduce() bool
}

// Birth describes an offspring about to be spawned.
type Birth struct {
	Parent     ecs.Entity
	ParentID   uint32
	Generation uint32
	Traits     genome.Traits
	Pos        components.Position
}

// OrganismCreator is called to create a new creature from a birth record.
type OrganismCreator func(b Birth) ecs.Entity

// OffspringPosition returns a point uniformly distributed in the disk of
// radius around center.
func OffspringPosition(center components.Position, radius float32, rng *rand.Rand) components.Position {
	r := radius * float32(math.Sqrt(rng.Float64()))
	angle := rng.Float64() * 2 * math.Pi
	return components.Position{
		X: center.X + r*float32(math.Cos(angle)),
		Y: center.Y + r*float32(math.Sin(angle)),
	}
}

// ReadyToReproduce reports whether the reproduction cooldown has elapsed.
func ReadyToReproduce(now, lastReproduce, cooldown float64) bool {
	return now-lastReproduce > cooldown
}

// BreedingSystem handles asexual reproduction with trait mutation.
type BreedingSystem struct {
	filter      ecs.Filter5[components.Position, components.Genes, components.Vigor, components.Timers, components.Organism]
	ranges      genome.MutationRanges
	spawnRadius float32
	halfExtent  float32
	rng         *rand.Rand

	posMap   *ecs.Map[components.Position]
	genesMap *ecs.Map[components.Genes]
	timerMap *ecs.Map[components.Timers]
	orgMap   *ecs.Map[components.Organism]

	parents []ecs.Entity
}

// NewBreedingSystem creates a new breeding system.
func NewBreedingSystem(w *ecs.World, ranges genome.MutationRanges, spawnRadius, halfExtent float32, rng *rand.Rand) *BreedingSystem {
	return &BreedingSystem{
		filter:      *ecs.NewFilter5[components.Position, components.Genes, components.Vigor, components.Timers, components.Organism](w),
		ranges:      ranges,
		spawnRadius: spawnRadius,
		halfExtent:  halfExtent,
		rng:         rng,
		posMap:      ecs.NewMap[components.Position](w),
		genesMap:    ecs.NewMap[components.Genes](w),
		timerMap:    ecs.NewMap[components.Timers](w),
		orgMap:      ecs.NewMap[components.Organism](w),
	}
}

// Update spawns one offspring for every living creature whose cooldown has
// elapsed, asking gate before each birth so the ceiling holds within a
// tick. Returns the number of births.
func (s *BreedingSystem) Update(now float64, gate Gate, create OrganismCreator) int {
	// Creating entities inside a query is not allowed, so collect first.
	s.parents = s.parents[:0]
	query := s.filter.Query()
	for query.Next() {
		_, genes, vigor, timers, _ := query.Get()
		if vigor.Depleted() {
			continue
		}
		if ReadyToReproduce(now, timers.LastReproduce, genes.Traits.ReproduceCooldown) {
			s.parents = append(s.parents, query.Entity())
		}
	}

	births := 0
	for _, parent := range s.parents {
		if !gate.CanReproduce() {
			break
		}
		pos := *s.posMap.Get(parent)
		traits := s.genesMap.Get(parent).Traits
		org := *s.orgMap.Get(parent)

		create(Birth{
			Parent:     parent,
			ParentID:   org.ID,
			Generation: org.Generation + 1,
			Traits:     genome.Mutate(traits, s.ranges, s.rng),
			Pos:        ClampToArena(OffspringPosition(pos, s.spawnRadius, s.rng), s.halfExtent),
		})
		// create may grow the archetype storage, so fetch the parent again.
		s.timerMap.Get(parent).LastReproduce = now
		births++
	}
	return births
}
