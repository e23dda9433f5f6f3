package game

import (
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/storage"
	"github.com/pthm-cable/creatures/telemetry"
)

// combatHooks feeds behavior transitions into the window collector and the
// per-creature lifetime records.
type combatHooks struct {
	g *Game
}

func (h combatHooks) Engaged(attacker, target ecs.Entity) {
	h.g.collector.RecordEngagement()
	if org := h.g.orgMap.Get(attacker); org != nil {
		h.g.lifetimes.RecordEngagement(org.ID)
	}
}

func (h combatHooks) Disengaged(ecs.Entity) {
	h.g.collector.RecordDisengagement()
}

func (h combatHooks) Hit(attacker, target ecs.Entity, damage float64, killed bool) {
	h.g.collector.RecordHit(damage, killed)
	if org := h.g.orgMap.Get(attacker); org != nil {
		h.g.lifetimes.RecordHit(org.ID, damage, killed)
	}
}

// flushTelemetry checks if the stats window should be flushed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.samplePopulation())
	perfStats := g.perf.Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
		g.logWorldState()
	}

	// Write to CSV if output manager is enabled
	if g.output != nil {
		if err := g.output.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// samplePopulation collects the live population for window statistics.
func (g *Game) samplePopulation() telemetry.PopulationSample {
	sample := telemetry.PopulationSample{SimTime: g.now}
	if g.pop.Count() > 0 {
		sample.SpeedMultiplier = g.pop.SpeedMultiplier()
	}

	query := g.filter.Query()
	for query.Next() {
		_, beh, vigor, genes, _, org := query.Get()
		if beh.State == components.Engaging {
			sample.Engaged++
		}
		sample.MaxGeneration = max(sample.MaxGeneration, org.Generation)
		sample.Vigor = append(sample.Vigor, vigor.Current)
		sample.Traits = append(sample.Traits, genes.Traits)
		sample.Fingerprints = append(sample.Fingerprints, genes.Fingerprint)
	}
	return sample
}

// archiveBirth writes a birth record to the lineage store.
func (g *Game) archiveBirth(org components.Organism, genes components.Genes) {
	if g.store == nil {
		return
	}
	err := g.store.SaveBirth(g.ctx, storage.Birth{
		RunID:       g.runID,
		ID:          org.ID,
		ParentID:    org.ParentID,
		Generation:  org.Generation,
		Traits:      genes.Traits,
		Fingerprint: genes.Fingerprint,
		BirthTick:   org.BirthTick,
		BornAt:      g.now,
	})
	if err != nil {
		slog.Warn("lineage_birth_failed", "id", org.ID, "error", err)
	}
}

// archiveDeath closes a creature's lineage record.
func (g *Game) archiveDeath(org components.Organism, stats *telemetry.LifetimeStats) {
	if g.store == nil {
		return
	}
	d := storage.Death{
		RunID:     g.runID,
		ID:        org.ID,
		DeathTick: g.tick,
		DiedAt:    g.now,
	}
	if stats != nil {
		d.Hits = stats.Hits
		d.Kills = stats.Kills
		d.Children = stats.Children
		d.DamageDealt = stats.DamageDealt
	}
	if err := g.store.SaveDeath(g.ctx, d); err != nil {
		slog.Warn("lineage_death_failed", "id", org.ID, "error", err)
	}
}
