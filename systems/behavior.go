package systems

import (
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/genome"
)

// Wanderer picks roaming targets on a ring around the origin.
type Wanderer struct {
	Radius        float32
	ArriveEpsilon float32
}

// RandomTarget returns a point on the ring at a uniformly random angle.
func (w Wanderer) RandomTarget(rng *rand.Rand) components.Position {
	angle := rng.Float64() * 2 * math.Pi
	return components.Position{
		X: float32(math.Sin(angle)) * w.Radius,
		Y: float32(math.Cos(angle)) * w.Radius,
	}
}

// Arrived reports whether pos is close enough to target to pick a new one.
func (w Wanderer) Arrived(pos, target components.Position) bool {
	return distanceSq(pos.X, pos.Y, target.X, target.Y) <= w.ArriveEpsilon*w.ArriveEpsilon
}

// Engagement is the affinity gate deciding when one creature locks onto another.
type Engagement struct {
	Threshold int
	Metric    genome.Metric
}

// ShouldEngage reports whether the fingerprints are far enough apart.
func (e Engagement) ShouldEngage(self, other int) bool {
	return e.Metric.Distance(self, other) > e.Threshold
}

// CanHit reports whether the hit cooldown has elapsed.
func CanHit(now, lastHit, cooldown float64) bool {
	return now-lastHit > cooldown
}

// CombatObserver receives state machine transitions. Any method may be
// called with entities that are removed later in the same tick.
type CombatObserver interface {
	Engaged(attacker, target ecs.Entity)
	Disengaged(attacker ecs.Entity)
	Hit(attacker, target ecs.Entity, damage float64, killed bool)
}

type nopObserver struct{}

func (nopObserver) Engaged(ecs.Entity, ecs.Entity)            {}
func (nopObserver) Disengaged(ecs.Entity)                     {}
func (nopObserver) Hit(ecs.Entity, ecs.Entity, float64, bool) {}

// BehaviorSystem runs the wander/engage state machine. Overlap events are
// delivered through Dispatch; everything else runs once per tick.
type BehaviorSystem struct {
	world    *ecs.World
	filter   ecs.Filter3[components.Position, components.Behavior, components.Vigor]
	posMap   *ecs.Map[components.Position]
	behMap   *ecs.Map[components.Behavior]
	vigorMap *ecs.Map[components.Vigor]
	genesMap *ecs.Map[components.Genes]
	timerMap *ecs.Map[components.Timers]

	wander   Wanderer
	gate     Engagement
	rng      *rand.Rand
	observer CombatObserver
}

// NewBehaviorSystem creates a new behavior system.
func NewBehaviorSystem(w *ecs.World, wander Wanderer, gate Engagement, rng *rand.Rand) *BehaviorSystem {
	return &BehaviorSystem{
		world:    w,
		filter:   *ecs.NewFilter3[components.Position, components.Behavior, components.Vigor](w),
		posMap:   ecs.NewMap[components.Position](w),
		behMap:   ecs.NewMap[components.Behavior](w),
		vigorMap: ecs.NewMap[components.Vigor](w),
		genesMap: ecs.NewMap[components.Genes](w),
		timerMap: ecs.NewMap[components.Timers](w),
		wander:   wander,
		gate:     gate,
		rng:      rng,
		observer: nopObserver{},
	}
}

// SetObserver installs a combat observer. Passing nil restores the no-op.
func (s *BehaviorSystem) SetObserver(o CombatObserver) {
	if o == nil {
		o = nopObserver{}
	}
	s.observer = o
}

// Wanderer returns the roaming target picker.
func (s *BehaviorSystem) Wanderer() Wanderer {
	return s.wander
}

// Retarget gives every living wanderer that reached its target a new one.
func (s *BehaviorSystem) Retarget() {
	query := s.filter.Query()
	for query.Next() {
		pos, beh, vigor := query.Get()
		if vigor.Depleted() || beh.State != components.Wandering {
			continue
		}
		if s.wander.Arrived(*pos, beh.TargetPos) {
			beh.TargetPos = s.wander.RandomTarget(s.rng)
		}
	}
}

// Dispatch delivers the tick's overlap events to both participants, lower
// ID first.
func (s *BehaviorSystem) Dispatch(events []OverlapEvent, now float64) {
	for _, ev := range events {
		switch ev.Kind {
		case OverlapBegin, OverlapStay:
			s.contact(ev.A, ev.B, now)
			s.contact(ev.B, ev.A, now)
		case OverlapEnd:
			s.separate(ev.A, ev.B)
			s.separate(ev.B, ev.A)
		}
	}
}

// contact handles self touching other: the engagement check followed by a
// hit attempt.
func (s *BehaviorSystem) contact(self, other ecs.Entity, now float64) {
	if !s.world.Alive(self) || !s.world.Alive(other) {
		return
	}
	// A creature killed earlier this tick neither acts nor can be engaged.
	victim := s.vigorMap.Get(other)
	if s.vigorMap.Get(self).Depleted() || victim.Depleted() {
		return
	}

	beh := s.behMap.Get(self)
	if beh.State == components.Wandering {
		selfGenes := s.genesMap.Get(self)
		otherGenes := s.genesMap.Get(other)
		if s.gate.ShouldEngage(selfGenes.Fingerprint, otherGenes.Fingerprint) {
			beh.Engage(other, *s.posMap.Get(other))
			s.observer.Engaged(self, other)
		}
	}

	if target, ok := beh.EngagedWith(); !ok || target != other {
		return
	}

	timers := s.timerMap.Get(self)
	traits := s.genesMap.Get(self).Traits
	if !CanHit(now, timers.LastHit, traits.HitCooldown) {
		return
	}

	damage := max(traits.AttackPower, 0)
	victim.Current -= damage
	timers.LastHit = now
	s.observer.Hit(self, other, damage, victim.Depleted())
}

// separate handles other leaving self's interaction range.
func (s *BehaviorSystem) separate(self, other ecs.Entity) {
	if !s.world.Alive(self) {
		return
	}
	beh := s.behMap.Get(self)
	if target, ok := beh.EngagedWith(); ok && target == other {
		beh.Disengage(s.wander.RandomTarget(s.rng))
		s.observer.Disengaged(self)
	}
}

// ReleaseDeadTargets returns every creature whose target was removed to
// wandering with a fresh roaming point.
func (s *BehaviorSystem) ReleaseDeadTargets() {
	query := s.filter.Query()
	for query.Next() {
		_, beh, _ := query.Get()
		target, ok := beh.EngagedWith()
		if !ok || s.world.Alive(target) {
			continue
		}
		beh.Disengage(s.wander.RandomTarget(s.rng))
		s.observer.Disengaged(query.Entity())
	}
}

// Move advances every living wanderer toward its target. Engaged creatures
// hold still.
func (s *BehaviorSystem) Move(dt, halfExtent float32) {
	query := s.filter.Query()
	for query.Next() {
		pos, beh, vigor := query.Get()
		if vigor.Depleted() || beh.State != components.Wandering {
			continue
		}
		speed := float32(s.genesMap.Get(query.Entity()).Traits.MoveSpeed)
		*pos = ClampToArena(MoveTowards(*pos, beh.TargetPos, speed*dt), halfExtent)
	}
}
