package telemetry

// LifetimeStats tracks per-creature statistics over its lifetime.
type LifetimeStats struct {
	BirthTick  int32
	BirthTime  float64 // simulation clock at birth
	Generation uint32

	Engagements int
	Hits        int
	Kills       int
	DamageDealt float64
	Children    int
}

// Lifespan returns simulated seconds lived as of now.
func (s *LifetimeStats) Lifespan(now float64) float64 {
	return now - s.BirthTime
}

// LifetimeTracker manages per-creature lifetime statistics keyed by organism ID.
type LifetimeTracker struct {
	stats map[uint32]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[uint32]*LifetimeStats),
	}
}

// Register creates lifetime stats for a new creature.
func (lt *LifetimeTracker) Register(id uint32, birthTick int32, birthTime float64, generation uint32) {
	lt.stats[id] = &LifetimeStats{
		BirthTick:  birthTick,
		BirthTime:  birthTime,
		Generation: generation,
	}
}

// Get returns the lifetime stats for a creature, or nil if not found.
func (lt *LifetimeTracker) Get(id uint32) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a creature's stats and returns them.
func (lt *LifetimeTracker) Remove(id uint32) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// Len returns the number of tracked creatures.
func (lt *LifetimeTracker) Len() int {
	return len(lt.stats)
}

// RecordEngagement increments the engagement count.
func (lt *LifetimeTracker) RecordEngagement(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Engagements++
	}
}

// RecordHit adds a landed hit and, if it depleted the victim, a kill.
func (lt *LifetimeTracker) RecordHit(id uint32, damage float64, killed bool) {
	s := lt.stats[id]
	if s == nil {
		return
	}
	s.Hits++
	s.DamageDealt += damage
	if killed {
		s.Kills++
	}
}

// RecordChild increments the offspring count.
func (lt *LifetimeTracker) RecordChild(id uint32) {
	if s := lt.stats[id]; s != nil {
		s.Children++
	}
}
