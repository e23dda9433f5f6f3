package storage

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

type creatureKey struct {
	run uuid.UUID
	id  uint32
}

// MemoryStore keeps lineage in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	creatures   map[creatureKey]Creature
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.creatures = make(map[creatureKey]Creature)
	return nil
}

func (s *MemoryStore) SaveBirth(_ context.Context, b Birth) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.creatures[creatureKey{b.RunID, b.ID}] = Creature{Birth: b}
	return nil
}

func (s *MemoryStore) SaveDeath(_ context.Context, d Death) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	key := creatureKey{d.RunID, d.ID}
	c, ok := s.creatures[key]
	if !ok {
		c = Creature{Birth: Birth{RunID: d.RunID, ID: d.ID}}
	}
	c.Death = &d
	s.creatures[key] = c
	return nil
}

func (s *MemoryStore) GetCreature(_ context.Context, runID uuid.UUID, id uint32) (Creature, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Creature{}, false, ErrNotInitialized
	}
	c, ok := s.creatures[creatureKey{runID, id}]
	return c, ok, nil
}

func (s *MemoryStore) ListRun(_ context.Context, runID uuid.UUID) ([]Creature, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	var out []Creature
	for key, c := range s.creatures {
		if key.run == runID {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b Creature) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}
