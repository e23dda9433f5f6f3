package telemetry

import "testing"

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(1, 0, 0, 0)
	lt.Register(2, 30, 12.5, 1)

	lt.RecordEngagement(1)
	lt.RecordHit(1, 10, false)
	lt.RecordHit(1, 10, true)
	lt.RecordChild(1)
	lt.RecordHit(99, 10, true) // unknown IDs are ignored

	s := lt.Get(1)
	if s.Engagements != 1 || s.Hits != 2 || s.Kills != 1 || s.Children != 1 || s.DamageDealt != 20 {
		t.Errorf("stats = %+v", s)
	}
	if got := lt.Get(2).Lifespan(20); got != 7.5 {
		t.Errorf("lifespan = %v, want 7.5", got)
	}

	removed := lt.Remove(1)
	if removed == nil || removed.Kills != 1 {
		t.Fatalf("Remove returned %+v", removed)
	}
	if lt.Get(1) != nil || lt.Len() != 1 {
		t.Error("creature still tracked after Remove")
	}
	if lt.Remove(1) != nil {
		t.Error("second Remove returned stats")
	}
}
