package components

// Vigor is a creature's health. Current only decreases after birth;
// Max is the mutated max_vigor trait.
type Vigor struct {
	Current float64
	Max     float64
}

// Depleted reports whether the creature must be removed.
func (v *Vigor) Depleted() bool {
	return v.Current <= 0
}

// Fraction returns Current/Max clamped to [0,1] for health displays.
func (v *Vigor) Fraction() float32 {
	if v.Max <= 0 {
		return 0
	}
	f := v.Current / v.Max
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return float32(f)
}

// Timers holds the simulated-clock timestamps of the last hit and birth.
type Timers struct {
	LastHit       float64
	LastReproduce float64
}

// Organism bundles identity and lineage.
type Organism struct {
	ID         uint32
	ParentID   uint32 // 0 for founders
	Generation uint32
	BirthTick  int32
}
