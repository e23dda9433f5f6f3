package components

import "github.com/pthm-cable/creatures/genome"

// Genes holds the immutable heritable traits of a creature together with the
// fingerprint computed from them at birth.
type Genes struct {
	Traits      genome.Traits
	Fingerprint int
}

// NewGenes wraps traits and caches their fingerprint.
func NewGenes(t genome.Traits) Genes {
	return Genes{Traits: t, Fingerprint: genome.Fingerprint(t)}
}
