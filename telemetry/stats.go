package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"` // scaled simulation clock at window end

	// Population at window end
	Population      int     `csv:"population"`
	SpeedMultiplier float64 `csv:"speed_multiplier"`
	Engaged         int     `csv:"engaged"`
	MaxGeneration   uint32  `csv:"max_generation"`

	// Events during window
	Births         int     `csv:"births"`
	Deaths         int     `csv:"deaths"`
	Engagements    int     `csv:"engagements"`
	Disengagements int     `csv:"disengagements"`
	Hits           int     `csv:"hits"`
	Kills          int     `csv:"kills"`
	DamageDealt    float64 `csv:"damage_dealt"`
	KillRate       float64 `csv:"kill_rate"` // kills per hit

	// Vigor distribution (sampled at window end)
	VigorMean float64 `csv:"vigor_mean"`
	VigorP10  float64 `csv:"vigor_p10"`
	VigorP50  float64 `csv:"vigor_p50"`
	VigorP90  float64 `csv:"vigor_p90"`

	// Trait drift
	AttackMean      float64 `csv:"attack_mean"`
	AttackStd       float64 `csv:"attack_std"`
	SpeedMean       float64 `csv:"speed_mean"`
	SpeedStd        float64 `csv:"speed_std"`
	MaxVigorMean    float64 `csv:"max_vigor_mean"`
	MaxVigorStd     float64 `csv:"max_vigor_std"`
	HitCDMean       float64 `csv:"hit_cd_mean"`
	HitCDStd        float64 `csv:"hit_cd_std"`
	ReproduceCDMean float64 `csv:"reproduce_cd_mean"`
	ReproduceCDStd  float64 `csv:"reproduce_cd_std"`

	// Fingerprint diversity
	DistinctFingerprints int     `csv:"distinct_fingerprints"`
	FingerprintStd       float64 `csv:"fingerprint_std"`
}

// Percentile returns the empirical p-quantile of a sorted slice.
// p is clamped to [0, 1]. Returns 0 if the slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = min(max(p, 0), 1)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// ComputeDistribution calculates mean, population std and percentiles.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	mean, std := stat.PopMeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return Distribution{
		Mean: mean,
		Std:  std,
		P10:  Percentile(sorted, 0.10),
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
	}
}

// DistinctCount returns the number of distinct fingerprints.
func DistinctCount(fingerprints []int) int {
	seen := make(map[int]struct{}, len(fingerprints))
	for _, fp := range fingerprints {
		seen[fp] = struct{}{}
	}
	return len(seen)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("population", s.Population),
		slog.Float64("speed_multiplier", s.SpeedMultiplier),
		slog.Int("engaged", s.Engaged),
		slog.Int("max_generation", int(s.MaxGeneration)),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("engagements", s.Engagements),
		slog.Int("disengagements", s.Disengagements),
		slog.Int("hits", s.Hits),
		slog.Int("kills", s.Kills),
		slog.Float64("damage_dealt", s.DamageDealt),
		slog.Float64("kill_rate", s.KillRate),
		slog.Float64("vigor_mean", s.VigorMean),
		slog.Float64("vigor_p10", s.VigorP10),
		slog.Float64("vigor_p50", s.VigorP50),
		slog.Float64("vigor_p90", s.VigorP90),
		slog.Float64("attack_mean", s.AttackMean),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("max_vigor_mean", s.MaxVigorMean),
		slog.Float64("hit_cd_mean", s.HitCDMean),
		slog.Float64("reproduce_cd_mean", s.ReproduceCDMean),
		slog.Int("distinct_fingerprints", s.DistinctFingerprints),
		slog.Float64("fingerprint_std", s.FingerprintStd),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"population", s.Population,
		"speed_multiplier", s.SpeedMultiplier,
		"engaged", s.Engaged,
		"max_generation", s.MaxGeneration,
		"births", s.Births,
		"deaths", s.Deaths,
		"engagements", s.Engagements,
		"hits", s.Hits,
		"kills", s.Kills,
		"vigor_p50", s.VigorP50,
		"attack_mean", s.AttackMean,
		"speed_mean", s.SpeedMean,
		"distinct_fingerprints", s.DistinctFingerprints,
	)
}
