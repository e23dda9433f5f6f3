package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/creatures/config"
	"github.com/pthm-cable/creatures/game"
	"github.com/pthm-cable/creatures/telemetry"
)

// FitnessEvaluator runs headless simulations and scores how diverse and
// active the resulting populations are.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	bestFitness float64
	bestSummary game.RunSummary
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		bestFitness: math.Inf(1),
	}
}

// BestSummary returns the run summary of the best evaluation's best seed.
func (fe *FitnessEvaluator) BestSummary() game.RunSummary {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSummary
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// runResult holds the results from a single simulation run.
type runResult struct {
	windows []telemetry.WindowStats
	summary game.RunSummary
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var total float64
	best := math.Inf(1)
	var bestSummary game.RunSummary
	for _, r := range results {
		q := computeQuality(r.windows, fe.baseConfig.Population.Ceiling)
		total += q
		if -q < best {
			best = -q
			bestSummary = r.summary
		}
	}

	quality := total / float64(len(fe.seeds))
	fitness := -quality

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
		fe.bestSummary = bestSummary
	}
	fe.lastQuality = quality
	fe.mu.Unlock()

	return fitness
}

// runSimulation executes a single headless simulation run.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) runResult {
	cfg := *fe.baseConfig
	fe.params.ApplyToConfig(&cfg, x)

	var result runResult
	g := game.NewGameWithOptions(game.Options{
		Config:         &cfg,
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windows = append(result.windows, stats)
		},
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks && !g.Extinct() {
		g.UpdateHeadless()
	}
	result.summary = g.Summary()
	return result
}

// Quality component weights.
const (
	qualityWeightDiversity = 0.40
	qualityWeightTurnover  = 0.25
	qualityWeightCombat    = 0.20
	qualityWeightStability = 0.15

	qualityWarmupWindows = 2 // skip first N windows (warmup)
)

// computeQuality scores a run in [0, 1] from its window stats. It rewards
// many coexisting fingerprints, steady births and deaths, regular combat
// and a population that does not swing wildly.
func computeQuality(windows []telemetry.WindowStats, ceiling int) float64 {
	if len(windows) <= qualityWarmupWindows || ceiling <= 0 {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var diversity, turnover, combat float64
	pops := make([]float64, 0, len(valid))
	for _, w := range valid {
		pops = append(pops, float64(w.Population))
		if w.Population == 0 {
			continue
		}
		diversity += float64(w.DistinctFingerprints) / float64(w.Population)
		turnover += 1 - math.Exp(-float64(w.Births+w.Deaths)/float64(ceiling))
		if w.Hits > 0 {
			combat += 1 - math.Exp(-float64(w.Kills)/3)
		}
	}
	n := float64(len(valid))

	stability := 0.0
	if mean, std := stat.MeanStdDev(pops, nil); mean > 0 && !math.IsNaN(std) {
		cv := std / mean
		stability = math.Exp(-cv * cv)
	}

	quality := qualityWeightDiversity*diversity/n +
		qualityWeightTurnover*turnover/n +
		qualityWeightCombat*combat/n +
		qualityWeightStability*stability

	return min(max(quality, 0), 1)
}
