package systems

import (
	"cmp"
	"slices"

	"github.com/mlange-42/ark/ecs"
)

// OverlapKind classifies a change in a pair's overlap state.
type OverlapKind uint8

const (
	OverlapBegin OverlapKind = iota // pair started overlapping this tick
	OverlapStay                     // pair overlapped last tick and still does
	OverlapEnd                      // pair overlapped last tick and no longer does
)

// String returns the event name used in logs.
func (k OverlapKind) String() string {
	switch k {
	case OverlapBegin:
		return "begin"
	case OverlapStay:
		return "stay"
	case OverlapEnd:
		return "end"
	default:
		return "unknown"
	}
}

// Pair is an unordered pair of overlapping entities, A has the lower ID.
type Pair struct {
	A, B ecs.Entity
}

// OverlapEvent is one entry of the per-tick overlap queue.
type OverlapEvent struct {
	Kind OverlapKind
	A, B ecs.Entity
}

// OverlapTracker turns the set of overlapping pairs seen each tick into a
// queue of begin/stay/end events. It keeps no reference to the world, so
// End events may name entities that were removed since the last tick.
type OverlapTracker struct {
	prev   map[Pair]struct{}
	cur    map[Pair]struct{}
	events []OverlapEvent
}

// NewOverlapTracker creates an empty tracker.
func NewOverlapTracker() *OverlapTracker {
	return &OverlapTracker{
		prev: make(map[Pair]struct{}),
		cur:  make(map[Pair]struct{}),
	}
}

// Update consumes this tick's pairs and returns the event queue. Begin and
// Stay events keep the order of pairs; End events follow, sorted by IDs.
// The returned slice is reused by the next call.
func (t *OverlapTracker) Update(pairs []Pair) []OverlapEvent {
	t.events = t.events[:0]
	clear(t.cur)

	for _, p := range pairs {
		p = normalize(p)
		if _, dup := t.cur[p]; dup {
			continue
		}
		t.cur[p] = struct{}{}

		kind := OverlapBegin
		if _, seen := t.prev[p]; seen {
			kind = OverlapStay
		}
		t.events = append(t.events, OverlapEvent{Kind: kind, A: p.A, B: p.B})
	}

	endStart := len(t.events)
	for p := range t.prev {
		if _, still := t.cur[p]; !still {
			t.events = append(t.events, OverlapEvent{Kind: OverlapEnd, A: p.A, B: p.B})
		}
	}
	slices.SortFunc(t.events[endStart:], func(x, y OverlapEvent) int {
		if c := cmp.Compare(x.A.ID(), y.A.ID()); c != 0 {
			return c
		}
		return cmp.Compare(x.B.ID(), y.B.ID())
	})

	t.prev, t.cur = t.cur, t.prev
	return t.events
}

// Active returns the number of pairs overlapping after the last Update.
func (t *OverlapTracker) Active() int {
	return len(t.prev)
}

// normalize orders a pair by entity ID.
func normalize(p Pair) Pair {
	if p.B.ID() < p.A.ID() {
		p.A, p.B = p.B, p.A
	}
	return p
}
