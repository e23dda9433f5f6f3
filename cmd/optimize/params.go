package main

import (
	"github.com/pthm-cable/creatures/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters: the
// founder genome, the affinity threshold and the mutation widths.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Founder
			{Name: "attack_power", Path: "founder.attack_power", Min: 0, Max: 50, Default: 10},
			{Name: "move_speed", Path: "founder.move_speed", Min: 0.5, Max: 20, Default: 5},
			{Name: "max_vigor", Path: "founder.max_vigor", Min: 20, Max: 300, Default: 100},
			{Name: "hit_cooldown", Path: "founder.hit_cooldown", Min: 0.1, Max: 5, Default: 1},
			{Name: "reproduce_cooldown", Path: "founder.reproduce_cooldown", Min: 1, Max: 30, Default: 5},
			// Engagement
			{Name: "threshold", Path: "engagement.threshold", Min: 500, Max: 20000, Default: 5000},
			// Mutation
			{Name: "mut_attack", Path: "mutation.attack_power", Min: 0, Max: 20, Default: 5},
			{Name: "mut_vigor", Path: "mutation.max_vigor", Min: 0, Max: 20, Default: 5},
			{Name: "mut_reproduce", Path: "mutation.reproduce_cooldown", Min: 0, Max: 2, Default: 0.5},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Founder.AttackPower = c[0]
	cfg.Founder.MoveSpeed = c[1]
	cfg.Founder.MaxVigor = c[2]
	cfg.Founder.HitCooldown = c[3]
	cfg.Founder.ReproduceCooldown = c[4]

	cfg.Engagement.Threshold = int(c[5])

	cfg.Mutation.AttackPower = c[6]
	cfg.Mutation.MaxVigor = c[7]
	cfg.Mutation.ReproduceCooldown = c[8]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Founder.AttackPower,
		cfg.Founder.MoveSpeed,
		cfg.Founder.MaxVigor,
		cfg.Founder.HitCooldown,
		cfg.Founder.ReproduceCooldown,
		float64(cfg.Engagement.Threshold),
		cfg.Mutation.AttackPower,
		cfg.Mutation.MaxVigor,
		cfg.Mutation.ReproduceCooldown,
	}
}
