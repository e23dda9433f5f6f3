package game

import (
	"log/slog"
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/genome"
	"github.com/pthm-cable/creatures/systems"
)

// spawnFounders creates the starting population. The first founder sits at
// the origin; any others are scattered inside the wander ring.
func (g *Game) spawnFounders() {
	cfg := g.config()
	wander := float32(cfg.Arena.WanderRadius)

	for i := 0; i < max(cfg.Population.Initial, 1); i++ {
		var pos components.Position
		if i > 0 {
			pos = systems.OffspringPosition(components.Position{}, wander, g.rng)
		}
		g.spawnCreature(cfg.Founder, pos, 0, 0)
	}
}

// spawnCreature creates a creature with full vigor, registers it with the
// population controller and starts its lifetime record.
func (g *Game) spawnCreature(traits genome.Traits, pos components.Position, parentID, generation uint32) ecs.Entity {
	id := g.nextID
	g.nextID++

	genes := components.NewGenes(traits)
	beh := components.Behavior{
		State:     components.Wandering,
		TargetPos: g.behavior.Wanderer().RandomTarget(g.rng),
	}
	vigor := components.Vigor{Current: traits.MaxVigor, Max: traits.MaxVigor}
	timers := components.Timers{LastReproduce: g.now}
	org := components.Organism{
		ID:         id,
		ParentID:   parentID,
		Generation: generation,
		BirthTick:  g.tick,
	}

	entity := g.mapper.NewEntity(&pos, &beh, &vigor, &genes, &timers, &org)

	g.pop.Register()
	g.lifetimes.Register(id, g.tick, g.now, generation)
	g.archiveBirth(org, genes)
	return entity
}

// spawnOffspring is the OrganismCreator handed to the breeding system.
func (g *Game) spawnOffspring(b systems.Birth) ecs.Entity {
	child := g.spawnCreature(b.Traits, b.Pos, b.ParentID, b.Generation)

	g.collector.RecordBirth()
	g.totalBirths++
	g.lifetimes.RecordChild(b.ParentID)

	slog.Debug("birth",
		"tick", g.tick,
		"parent", b.ParentID,
		"child", g.orgMap.Get(child).ID,
		"generation", b.Generation,
		"fingerprint", g.genesMap.Get(child).Fingerprint,
		"population", g.pop.Count(),
	)
	return child
}

// cleanupDead removes every depleted creature. Each removal unregisters from
// the population controller exactly once.
func (g *Game) cleanupDead() {
	var dead []ecs.Entity

	// Collect first; the world cannot change during a query.
	query := g.filter.Query()
	for query.Next() {
		_, _, vigor, _, _, _ := query.Get()
		if vigor.Depleted() {
			dead = append(dead, query.Entity())
		}
	}

	for _, e := range dead {
		org := *g.orgMap.Get(e)
		vigor := g.vigorMap.Get(e).Current

		g.world.RemoveEntity(e)
		if !g.pop.Unregister() {
			slog.Error("population_underflow", "tick", g.tick, "id", org.ID)
		}
		g.collector.RecordDeath()
		g.totalDeaths++

		if g.hasSelection && g.selected == e {
			g.hasSelection = false
		}

		stats := g.lifetimes.Remove(org.ID)
		g.archiveDeath(org, stats)

		lifespan := math.NaN()
		if stats != nil {
			lifespan = stats.Lifespan(g.now)
		}
		slog.Debug("death",
			"tick", g.tick,
			"id", org.ID,
			"generation", org.Generation,
			"vigor", vigor,
			"lifespan", lifespan,
			"population", g.pop.Count(),
		)
	}
}
