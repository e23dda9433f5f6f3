// Package storage archives creature lineage: one record per birth, closed
// out with a death record when the creature is removed.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pthm-cable/creatures/genome"
)

// ErrNotInitialized is returned by store operations called before Init.
var ErrNotInitialized = errors.New("store is not initialized")

// Birth is written when a creature is spawned.
type Birth struct {
	RunID       uuid.UUID
	ID          uint32
	ParentID    uint32 // 0 for founders
	Generation  uint32
	Traits      genome.Traits
	Fingerprint int
	BirthTick   int32
	BornAt      float64 // simulation clock
}

// Death is written when a creature is removed.
type Death struct {
	RunID       uuid.UUID
	ID          uint32
	DeathTick   int32
	DiedAt      float64
	Hits        int
	Kills       int
	Children    int
	DamageDealt float64
}

// Creature is a birth record joined with its death, if any.
type Creature struct {
	Birth
	Death *Death
}

// Alive reports whether no death has been recorded.
func (c Creature) Alive() bool {
	return c.Death == nil
}

// Store defines lineage persistence operations.
type Store interface {
	Init(ctx context.Context) error
	SaveBirth(ctx context.Context, b Birth) error
	SaveDeath(ctx context.Context, d Death) error
	GetCreature(ctx context.Context, runID uuid.UUID, id uint32) (Creature, bool, error)
	ListRun(ctx context.Context, runID uuid.UUID) ([]Creature, error)
}

// Ancestry walks parent links from id back to its founder. The first entry
// is the creature itself; a missing ancestor ends the walk.
func Ancestry(ctx context.Context, s Store, runID uuid.UUID, id uint32) ([]Creature, error) {
	var chain []Creature
	for id != 0 {
		c, ok, err := s.GetCreature(ctx, runID, id)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		chain = append(chain, c)
		id = c.ParentID
	}
	return chain, nil
}
