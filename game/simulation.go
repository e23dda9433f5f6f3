package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/creatures/telemetry"
)

// Step advances the simulation by one tick of realDt real seconds, scaled by
// the population speed multiplier. It returns false once the population is
// extinct; later calls are no-ops.
func (g *Game) Step(realDt float64) bool {
	if realDt < 0 {
		panic(fmt.Sprintf("game: negative frame delta %v", realDt))
	}
	if g.pop.Count() <= 0 {
		if !g.extinct {
			g.extinct = true
			slog.Warn("population_extinct", "tick", g.tick, "sim_time", g.now)
			g.logWorldState()
		}
		return false
	}

	g.perf.StartTick()

	dt := realDt * g.pop.SpeedMultiplier()
	g.now += dt
	g.tick++

	g.perf.StartPhase(telemetry.PhaseRetarget)
	g.behavior.Retarget()

	g.perf.StartPhase(telemetry.PhaseMovement)
	g.move(float32(dt))

	g.perf.StartPhase(telemetry.PhaseSpatialGrid)
	g.updateSpatialGrid()

	g.perf.StartPhase(telemetry.PhaseOverlap)
	events := g.overlaps.Update(g.pairs)
	g.behavior.Dispatch(events, g.now)

	g.perf.StartPhase(telemetry.PhaseCleanup)
	g.cleanupDead()
	g.behavior.ReleaseDeadTargets()

	g.perf.StartPhase(telemetry.PhaseReproduction)
	g.breeding.Update(g.now, g.pop, g.spawnOffspring)

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perf.EndTick()
	return true
}

// move advances wanderers, fanning out to the worker pool for large
// populations.
func (g *Game) move(dt float32) {
	if g.pop.Count() >= g.config().Parallel.Threshold {
		g.moveParallel(dt)
		return
	}
	g.behavior.Move(dt, float32(g.config().Arena.HalfExtent))
}

// updateSpatialGrid rebuilds the spatial index and collects overlapping pairs.
func (g *Game) updateSpatialGrid() {
	g.grid.Clear()

	query := g.filter.Query()
	for query.Next() {
		pos, _, vigor, _, _, _ := query.Get()
		if vigor.Depleted() {
			continue
		}
		g.grid.Insert(query.Entity(), pos.X, pos.Y)
	}

	g.pairs = g.grid.Pairs(g.pairs[:0], float32(g.config().Physics.InteractionRadius), g.posMap)
}
