// Package genome defines the heritable traits of a creature and the
// fingerprint derived from them.
//
// The fingerprint is a weighted sum of the five traits truncated to an
// integer. It doubles as the creature's identity for affinity checks and as
// the source of its display color. Different trait vectors can alias to
// similar fingerprints because the weights overlap in magnitude; callers that
// need a faithful trait-space distance should compare Traits directly.
package genome

import (
	"fmt"
	"math/bits"
)

// Fingerprint weights, one power of ten per trait.
const (
	WeightAttackPower       = 1
	WeightMoveSpeed         = 10
	WeightMaxVigor          = 100
	WeightHitCooldown       = 1000
	WeightReproduceCooldown = 10000
)

// Traits holds the heritable, real-valued parameters of a creature.
type Traits struct {
	AttackPower       float64 `yaml:"attack_power"`       // damage dealt per hit
	MoveSpeed         float64 `yaml:"move_speed"`         // units per simulated second
	MaxVigor          float64 `yaml:"max_vigor"`          // starting health
	HitCooldown       float64 `yaml:"hit_cooldown"`       // seconds between hits
	ReproduceCooldown float64 `yaml:"reproduce_cooldown"` // seconds between births
}

// Fingerprint returns the weighted trait sum truncated toward zero.
// Equal traits always produce equal fingerprints.
func Fingerprint(t Traits) int {
	sum := t.AttackPower*WeightAttackPower +
		t.MoveSpeed*WeightMoveSpeed +
		t.MaxVigor*WeightMaxVigor +
		t.HitCooldown*WeightHitCooldown +
		t.ReproduceCooldown*WeightReproduceCooldown
	return int(sum)
}

// AffinityDistance is the absolute difference of two fingerprints.
func AffinityDistance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}

// HammingDistance counts the differing bits of two fingerprints.
func HammingDistance(a, b int) int {
	return bits.OnesCount64(uint64(a ^ b))
}

// Metric selects how two fingerprints are compared.
type Metric uint8

const (
	MetricLinear Metric = iota
	MetricHamming
)

// ParseMetric maps a config name to a Metric. An empty name selects
// MetricLinear.
func ParseMetric(name string) (Metric, error) {
	switch name {
	case "", "linear":
		return MetricLinear, nil
	case "hamming":
		return MetricHamming, nil
	}
	return MetricLinear, fmt.Errorf("unknown metric %q (want linear or hamming)", name)
}

// String returns the config name of the metric.
func (m Metric) String() string {
	if m == MetricHamming {
		return "hamming"
	}
	return "linear"
}

// Distance compares two fingerprints with the selected metric.
func (m Metric) Distance(a, b int) int {
	if m == MetricHamming {
		return HammingDistance(a, b)
	}
	return AffinityDistance(a, b)
}
