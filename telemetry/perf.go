package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step, in execution order.
const (
	PhaseRetarget     = "retarget"
	PhaseMovement     = "movement"
	PhaseSpatialGrid  = "spatial_grid"
	PhaseOverlap      = "overlap"
	PhaseCleanup      = "cleanup"
	PhaseReproduction = "reproduction"
	PhaseTelemetry    = "telemetry"
)

// Phases lists every phase name in execution order.
var Phases = []string{
	PhaseRetarget, PhaseMovement, PhaseSpatialGrid, PhaseOverlap,
	PhaseCleanup, PhaseReproduction, PhaseTelemetry,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks tick timing over a rolling window.
type PerfCollector struct {
	samples     []PerfSample
	writeIndex  int
	sampleCount int

	current    map[string]time.Duration
	tickStart  time.Time
	phaseStart time.Time
	lastPhase  string

	// Frame timing (viewer only)
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		samples: make([]PerfSample, windowSize),
		current: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = make(map[string]time.Duration, len(Phases))
	p.lastPhase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.current,
	}
	p.writeIndex = (p.writeIndex + 1) % len(p.samples)
	if p.sampleCount < len(p.samples) {
		p.sampleCount++
	}
}

// RecordFrame records frame timing for the viewer.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of average tick time

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		out.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.sampleCount == 0 {
		return out
	}

	var total time.Duration
	phaseSum := make(map[string]time.Duration)
	for i, s := range p.samples[:p.sampleCount] {
		total += s.TickDuration
		if i == 0 || s.TickDuration < out.MinTickDuration {
			out.MinTickDuration = s.TickDuration
		}
		out.MaxTickDuration = max(out.MaxTickDuration, s.TickDuration)
		for phase, d := range s.Phases {
			phaseSum[phase] += d
		}
	}

	n := time.Duration(p.sampleCount)
	out.AvgTickDuration = total / n
	for phase, sum := range phaseSum {
		out.PhaseAvg[phase] = sum / n
		if out.AvgTickDuration > 0 {
			out.PhasePct[phase] = float64(out.PhaseAvg[phase]) / float64(out.AvgTickDuration) * 100
		}
	}
	if out.AvgTickDuration > 0 {
		out.TicksPerSecond = float64(time.Second) / float64(out.AvgTickDuration)
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd       int32   `csv:"window_end"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	FPS             float64 `csv:"fps"`
	RetargetPct     float64 `csv:"retarget_pct"`
	MovementPct     float64 `csv:"movement_pct"`
	SpatialGridPct  float64 `csv:"spatial_grid_pct"`
	OverlapPct      float64 `csv:"overlap_pct"`
	CleanupPct      float64 `csv:"cleanup_pct"`
	ReproductionPct float64 `csv:"reproduction_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		FPS:             s.FPS,
		RetargetPct:     s.PhasePct[PhaseRetarget],
		MovementPct:     s.PhasePct[PhaseMovement],
		SpatialGridPct:  s.PhasePct[PhaseSpatialGrid],
		OverlapPct:      s.PhasePct[PhaseOverlap],
		CleanupPct:      s.PhasePct[PhaseCleanup],
		ReproductionPct: s.PhasePct[PhaseReproduction],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}
