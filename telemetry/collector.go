package telemetry

import "github.com/pthm-cable/creatures/genome"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	births         int
	deaths         int
	engagements    int
	disengagements int
	hits           int
	kills          int
	damage         float64
}

// NewCollector creates a new stats collector flushing every ticksPerWindow ticks.
func NewCollector(ticksPerWindow int32) *Collector {
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{windowDurationTicks: ticksPerWindow}
}

// RecordBirth records a birth event.
func (c *Collector) RecordBirth() { c.births++ }

// RecordDeath records a death event.
func (c *Collector) RecordDeath() { c.deaths++ }

// RecordEngagement records a creature locking onto a target.
func (c *Collector) RecordEngagement() { c.engagements++ }

// RecordDisengagement records a creature releasing its target.
func (c *Collector) RecordDisengagement() { c.disengagements++ }

// RecordHit records damage dealt, and a kill if the hit depleted the victim.
func (c *Collector) RecordHit(damage float64, killed bool) {
	c.hits++
	c.damage += damage
	if killed {
		c.kills++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// PopulationSample is the state of the living population at flush time.
type PopulationSample struct {
	SimTime         float64
	SpeedMultiplier float64
	Engaged         int
	MaxGeneration   uint32
	Vigor           []float64
	Traits          []genome.Traits
	Fingerprints    []int
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, pop PopulationSample) WindowStats {
	var killRate float64
	if c.hits > 0 {
		killRate = float64(c.kills) / float64(c.hits)
	}

	vigor := ComputeDistribution(pop.Vigor)
	attack, speed, maxVigor, hitCD, reproCD := traitDistributions(pop.Traits)

	fps := make([]float64, len(pop.Fingerprints))
	for i, fp := range pop.Fingerprints {
		fps[i] = float64(fp)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      pop.SimTime,

		Population:      len(pop.Traits),
		SpeedMultiplier: pop.SpeedMultiplier,
		Engaged:         pop.Engaged,
		MaxGeneration:   pop.MaxGeneration,

		Births:         c.births,
		Deaths:         c.deaths,
		Engagements:    c.engagements,
		Disengagements: c.disengagements,
		Hits:           c.hits,
		Kills:          c.kills,
		DamageDealt:    c.damage,
		KillRate:       killRate,

		VigorMean: vigor.Mean,
		VigorP10:  vigor.P10,
		VigorP50:  vigor.P50,
		VigorP90:  vigor.P90,

		AttackMean:      attack.Mean,
		AttackStd:       attack.Std,
		SpeedMean:       speed.Mean,
		SpeedStd:        speed.Std,
		MaxVigorMean:    maxVigor.Mean,
		MaxVigorStd:     maxVigor.Std,
		HitCDMean:       hitCD.Mean,
		HitCDStd:        hitCD.Std,
		ReproduceCDMean: reproCD.Mean,
		ReproduceCDStd:  reproCD.Std,

		DistinctFingerprints: DistinctCount(pop.Fingerprints),
		FingerprintStd:       ComputeDistribution(fps).Std,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0
	c.engagements = 0
	c.disengagements = 0
	c.hits = 0
	c.kills = 0
	c.damage = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

func traitDistributions(traits []genome.Traits) (attack, speed, maxVigor, hitCD, reproCD Distribution) {
	n := len(traits)
	a := make([]float64, n)
	s := make([]float64, n)
	v := make([]float64, n)
	h := make([]float64, n)
	r := make([]float64, n)
	for i, t := range traits {
		a[i] = t.AttackPower
		s[i] = t.MoveSpeed
		v[i] = t.MaxVigor
		h[i] = t.HitCooldown
		r[i] = t.ReproduceCooldown
	}
	return ComputeDistribution(a), ComputeDistribution(s), ComputeDistribution(v),
		ComputeDistribution(h), ComputeDistribution(r)
}
