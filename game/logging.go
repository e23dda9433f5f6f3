package game

import (
	"log/slog"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/storage"
	"github.com/pthm-cable/creatures/telemetry"
)

// RunSummary describes a finished or interrupted run.
type RunSummary struct {
	Ticks          int32
	SimTime        float64
	Population     int
	Extinct        bool
	TotalBirths    int
	TotalDeaths    int
	MaxGeneration  uint32
	LongestLineage int // ancestry length of the deepest living creature
}

// LogValue implements slog.LogValuer.
func (s RunSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("ticks", int(s.Ticks)),
		slog.Float64("sim_time", s.SimTime),
		slog.Int("population", s.Population),
		slog.Bool("extinct", s.Extinct),
		slog.Int("births", s.TotalBirths),
		slog.Int("deaths", s.TotalDeaths),
		slog.Int("max_generation", int(s.MaxGeneration)),
		slog.Int("longest_lineage", s.LongestLineage),
	)
}

// Summary gathers end-of-run counters. The lineage walk needs a store.
func (g *Game) Summary() RunSummary {
	s := RunSummary{
		Ticks:       g.tick,
		SimTime:     g.now,
		Population:  g.pop.Count(),
		Extinct:     g.extinct,
		TotalBirths: g.totalBirths,
		TotalDeaths: g.totalDeaths,
	}

	var deepest uint32
	query := g.filter.Query()
	for query.Next() {
		_, _, _, _, _, org := query.Get()
		if org.Generation >= s.MaxGeneration {
			s.MaxGeneration = org.Generation
			deepest = org.ID
		}
	}

	if g.store != nil && deepest != 0 {
		chain, err := storage.Ancestry(g.ctx, g.store, g.runID, deepest)
		if err != nil {
			slog.Warn("lineage_walk_failed", "id", deepest, "error", err)
		} else {
			s.LongestLineage = len(chain)
		}
	}
	return s
}

// LogSummary writes the run summary at info level.
func (g *Game) LogSummary() {
	slog.Info("run_summary", "run_id", g.runID, "summary", g.Summary())
}

// logWorldState writes a snapshot of state counts and diversity.
func (g *Game) logWorldState() {
	var wandering, engaging int
	fingerprints := make([]int, 0, g.pop.Count())

	query := g.filter.Query()
	for query.Next() {
		_, beh, _, genes, _, _ := query.Get()
		switch beh.State {
		case components.Wandering:
			wandering++
		case components.Engaging:
			engaging++
		}
		fingerprints = append(fingerprints, genes.Fingerprint)
	}

	slog.Info("world_state",
		"tick", g.tick,
		"sim_time", g.now,
		"population", g.pop.Count(),
		"wandering", wandering,
		"engaging", engaging,
		"active_overlaps", g.overlaps.Active(),
		"distinct_fingerprints", telemetry.DistinctCount(fingerprints),
	)
}
