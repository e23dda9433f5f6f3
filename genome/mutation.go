package genome

import "math/rand"

// MutationRanges holds the half-width of the uniform perturbation applied
// to each trait at birth.
type MutationRanges struct {
	AttackPower       float64 `yaml:"attack_power"`
	MoveSpeed         float64 `yaml:"move_speed"`
	MaxVigor          float64 `yaml:"max_vigor"`
	HitCooldown       float64 `yaml:"hit_cooldown"`
	ReproduceCooldown float64 `yaml:"reproduce_cooldown"`
}

// DefaultMutationRanges returns ±5 for attack and vigor and ±0.5 for the rest.
func DefaultMutationRanges() MutationRanges {
	return MutationRanges{
		AttackPower:       5,
		MoveSpeed:         0.5,
		MaxVigor:          5,
		HitCooldown:       0.5,
		ReproduceCooldown: 0.5,
	}
}

// Mutate clones parent and perturbs every trait independently.
// Results are not clamped: cooldowns and speeds may go to zero or below.
func Mutate(parent Traits, r MutationRanges, rng *rand.Rand) Traits {
	child := parent
	child.AttackPower += jitter(rng, r.AttackPower)
	child.MoveSpeed += jitter(rng, r.MoveSpeed)
	child.MaxVigor += jitter(rng, r.MaxVigor)
	child.HitCooldown += jitter(rng, r.HitCooldown)
	child.ReproduceCooldown += jitter(rng, r.ReproduceCooldown)
	return child
}

// jitter returns a uniform sample in [-halfWidth, halfWidth).
func jitter(rng *rand.Rand, halfWidth float64) float64 {
	return (rng.Float64()*2 - 1) * halfWidth
}
