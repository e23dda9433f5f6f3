package telemetry

import (
	"testing"

	"github.com/pthm-cable/creatures/genome"
)

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(10)
	if c.ShouldFlush(9) {
		t.Error("flush before window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Error("no flush at window end")
	}

	c.RecordBirth()
	c.RecordBirth()
	c.RecordDeath()
	c.RecordEngagement()
	c.RecordDisengagement()
	c.RecordHit(10, false)
	c.RecordHit(10, true)

	founder := genome.Traits{AttackPower: 10, MoveSpeed: 5, MaxVigor: 100, HitCooldown: 1, ReproduceCooldown: 5}
	child := founder
	child.AttackPower = 12

	stats := c.Flush(10, PopulationSample{
		SimTime:         42,
		SpeedMultiplier: 50,
		Engaged:         1,
		MaxGeneration:   1,
		Vigor:           []float64{100, 80},
		Traits:          []genome.Traits{founder, child},
		Fingerprints:    []int{genome.Fingerprint(founder), genome.Fingerprint(child)},
	})

	if stats.Births != 2 || stats.Deaths != 1 || stats.Hits != 2 || stats.Kills != 1 {
		t.Errorf("event counts = %+v", stats)
	}
	if stats.KillRate != 0.5 {
		t.Errorf("kill rate = %v, want 0.5", stats.KillRate)
	}
	if stats.DamageDealt != 20 {
		t.Errorf("damage = %v, want 20", stats.DamageDealt)
	}
	if stats.Population != 2 || stats.DistinctFingerprints != 2 {
		t.Errorf("population = %d, distinct = %d", stats.Population, stats.DistinctFingerprints)
	}
	if stats.AttackMean != 11 || stats.AttackStd != 1 {
		t.Errorf("attack mean/std = %v/%v, want 11/1", stats.AttackMean, stats.AttackStd)
	}
	if stats.VigorMean != 90 {
		t.Errorf("vigor mean = %v, want 90", stats.VigorMean)
	}
	if stats.SimTimeSec != 42 {
		t.Errorf("sim time = %v", stats.SimTimeSec)
	}

	// Counters reset and window advances.
	next := c.Flush(20, PopulationSample{})
	if next.Births != 0 || next.Hits != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
	if c.ShouldFlush(25) {
		t.Error("flush before second window elapsed")
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	if got := NewCollector(0).WindowDurationTicks(); got != 1 {
		t.Errorf("window = %d, want 1", got)
	}
}
