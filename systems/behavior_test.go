package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/creatures/components"
	"github.com/pthm-cable/creatures/genome"
)

type recordingObserver struct {
	engaged    int
	disengaged int
	hits       int
	kills      int
}

func (r *recordingObserver) Engaged(ecs.Entity, ecs.Entity) { r.engaged++ }
func (r *recordingObserver) Disengaged(ecs.Entity)          { r.disengaged++ }
func (r *recordingObserver) Hit(_, _ ecs.Entity, _ float64, killed bool) {
	r.hits++
	if killed {
		r.kills++
	}
}

func newBehaviorFixture() (*testWorld, *BehaviorSystem, *recordingObserver) {
	tw := newTestWorld()
	sys := NewBehaviorSystem(tw.world,
		Wanderer{Radius: 50, ArriveEpsilon: 0.1},
		Engagement{Threshold: 5000, Metric: genome.MetricLinear},
		testRNG())
	obs := &recordingObserver{}
	sys.SetObserver(obs)
	return tw, sys, obs
}

func TestWandererRandomTargetOnRing(t *testing.T) {
	w := Wanderer{Radius: 50, ArriveEpsilon: 0.1}
	rng := testRNG()
	for i := 0; i < 100; i++ {
		p := w.RandomTarget(rng)
		r := math.Hypot(float64(p.X), float64(p.Y))
		if math.Abs(r-50) > 1e-3 {
			t.Fatalf("target %+v has radius %v", p, r)
		}
	}
}

func TestWandererArrived(t *testing.T) {
	w := Wanderer{Radius: 50, ArriveEpsilon: 0.1}
	if !w.Arrived(components.Position{X: 10, Y: 10}, components.Position{X: 10.05, Y: 10}) {
		t.Error("0.05 away should count as arrived")
	}
	if w.Arrived(components.Position{X: 10, Y: 10}, components.Position{X: 10.5, Y: 10}) {
		t.Error("0.5 away should not count as arrived")
	}
}

func TestEngagementGate(t *testing.T) {
	linear := Engagement{Threshold: 5000, Metric: genome.MetricLinear}
	tests := []struct {
		a, b int
		want bool
	}{
		{1000, 7000, true},
		{1000, 4000, false},
		{1000, 6000, false}, // distance equal to threshold does not engage
		{7000, 1000, true},
	}
	for _, tt := range tests {
		if got := linear.ShouldEngage(tt.a, tt.b); got != tt.want {
			t.Errorf("ShouldEngage(%d, %d) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}

	hamming := Engagement{Threshold: 2, Metric: genome.MetricHamming}
	if !hamming.ShouldEngage(0, 7) {
		t.Error("hamming 3 > 2 should engage")
	}
	if hamming.ShouldEngage(0, 3) {
		t.Error("hamming 2 should not engage")
	}
}

func TestCanHit(t *testing.T) {
	if CanHit(1, 0, 1) {
		t.Error("elapsed equal to cooldown must not hit")
	}
	if !CanHit(1.01, 0, 1) {
		t.Error("elapsed past cooldown should hit")
	}
}

func TestContactEngagesAndHits(t *testing.T) {
	tw, sys, obs := newBehaviorFixture()
	// fingerprints 1000 and 7000
	a := tw.spawn(0, 0, genome.Traits{AttackPower: 100, MaxVigor: 9})
	b := tw.spawn(1, 0, genome.Traits{MaxVigor: 70})

	sys.Dispatch([]OverlapEvent{{Kind: OverlapBegin, A: a, B: b}}, 2)

	behMap := ecs.NewMap[components.Behavior](tw.world)
	vigorMap := ecs.NewMap[components.Vigor](tw.world)

	if target, ok := behMap.Get(a).EngagedWith(); !ok || target != b {
		t.Fatalf("a not engaged with b: %+v", behMap.Get(a))
	}
	if got := vigorMap.Get(b).Current; got != -30 {
		t.Errorf("b vigor = %v, want -30", got)
	}
	// b was depleted by a's hit before its own turn, so it takes no action.
	if behMap.Get(b).State != components.Wandering {
		t.Errorf("depleted b engaged: %+v", behMap.Get(b))
	}
	if got := vigorMap.Get(a).Current; got != 9 {
		t.Errorf("a vigor = %v, want 9", got)
	}
	if obs.engaged != 1 || obs.kills != 1 {
		t.Errorf("observer = %+v", obs)
	}
}

func TestContactBelowThresholdDoesNotEngage(t *testing.T) {
	tw, sys, obs := newBehaviorFixture()
	a := tw.spawn(0, 0, genome.Traits{AttackPower: 100, MaxVigor: 9}) // 1000
	b := tw.spawn(1, 0, genome.Traits{MaxVigor: 40})                  // 4000

	sys.Dispatch([]OverlapEvent{{Kind: OverlapBegin, A: a, B: b}}, 2)

	behMap := ecs.NewMap[components.Behavior](tw.world)
	if behMap.Get(a).State != components.Wandering || behMap.Get(b).State != components.Wandering {
		t.Error("creatures within threshold engaged")
	}
	if obs.engaged != 0 || obs.hits != 0 {
		t.Errorf("observer = %+v", obs)
	}
}

func TestContactRespectsHitCooldown(t *testing.T) {
	tw, sys, obs := newBehaviorFixture()
	a := tw.spawn(0, 0, genome.Traits{AttackPower: 1, MaxVigor: 9, HitCooldown: 1})
	b := tw.spawn(1, 0, genome.Traits{MaxVigor: 70, HitCooldown: 100})

	sys.Dispatch([]OverlapEvent{{Kind: OverlapBegin, A: a, B: b}}, 0.5)
	if obs.hits != 0 {
		t.Fatalf("hit before cooldown elapsed")
	}
	sys.Dispatch([]OverlapEvent{{Kind: OverlapStay, A: a, B: b}}, 1.5)
	sys.Dispatch([]OverlapEvent{{Kind: OverlapStay, A: a, B: b}}, 2.0)
	if obs.hits != 1 {
		t.Fatalf("hits = %d, want 1", obs.hits)
	}
	sys.Dispatch([]OverlapEvent{{Kind: OverlapStay, A: a, B: b}}, 2.6)
	if obs.hits != 2 {
		t.Fatalf("hits = %d, want 2", obs.hits)
	}

	vigorMap := ecs.NewMap[components.Vigor](tw.world)
	if got := vigorMap.Get(b).Current; got != 68 {
		t.Errorf("b vigor = %v, want 68", got)
	}
}

func TestDepletedCreatureTakesNoAction(t *testing.T) {
	tw, sys, obs := newBehaviorFixture()
	a := tw.spawn(0, 0, genome.Traits{AttackPower: 100, MaxVigor: 9})
	b := tw.spawn(1, 0, genome.Traits{MaxVigor: 70})

	vigorMap := ecs.NewMap[components.Vigor](tw.world)
	vigorMap.Get(a).Current = 0

	sys.Dispatch([]OverlapEvent{{Kind: OverlapBegin, A: a, B: b}}, 2)
	behMap := ecs.NewMap[components.Behavior](tw.world)
	if behMap.Get(a).State != components.Wandering {
		t.Error("depleted creature engaged")
	}
	// b ignores a creature that is already dead
	if behMap.Get(b).State != components.Wandering {
		t.Error("b engaged a depleted creature")
	}
	if obs.engaged != 0 {
		t.Errorf("engaged = %d, want 0", obs.engaged)
	}
	if obs.hits != 0 {
		t.Errorf("hits = %d, want 0", obs.hits)
	}
}

func TestKilledCreatureCannotBeEngaged(t *testing.T) {
	tw, sys, obs := newBehaviorFixture()
	killer := tw.spawn(0, 0, genome.Traits{AttackPower: 100, MaxVigor: 9}) // 1000
	victim := tw.spawn(1, 0, genome.Traits{MaxVigor: 70})                  // 7000
	bystander := tw.spawn(2, 0, genome.Traits{MaxVigor: 9})                // 900
	live := tw.spawn(3, 0, genome.Traits{MaxVigor: 80})                    // 8000

	sys.Dispatch([]OverlapEvent{
		{Kind: OverlapBegin, A: killer, B: victim},
		{Kind: OverlapBegin, A: victim, B: bystander},
		{Kind: OverlapBegin, A: bystander, B: live},
	}, 2)

	vigorMap := ecs.NewMap[components.Vigor](tw.world)
	if v := vigorMap.Get(victim).Current; v != -30 {
		t.Fatalf("victim vigor = %v, want -30", v)
	}

	behMap := ecs.NewMap[components.Behavior](tw.world)
	target, ok := behMap.Get(bystander).EngagedWith()
	if !ok {
		t.Fatal("bystander should engage the live creature")
	}
	if target == victim {
		t.Error("bystander locked onto a killed creature")
	}
	if target != live {
		t.Error("bystander target is not the live creature")
	}
	// killer->victim, bystander->live, live->bystander
	if obs.engaged != 3 {
		t.Errorf("engaged = %d, want 3", obs.engaged)
	}
}

func TestSeparateDisengagesOnlyFromTarget(t *testing.T) {
	tw, sys, obs := newBehaviorFixture()
	a := tw.spawn(0, 0, genome.Traits{MaxVigor: 9})
	b := tw.spawn(1, 0, genome.Traits{MaxVigor: 70})
	c := tw.spawn(2, 0, genome.Traits{MaxVigor: 70})

	sys.Dispatch([]OverlapEvent{{Kind: OverlapBegin, A: a, B: b}}, 2)
	sys.Dispatch([]OverlapEvent{{Kind: OverlapEnd, A: a, B: c}}, 2)

	behMap := ecs.NewMap[components.Behavior](tw.world)
	if target, _ := behMap.Get(a).EngagedWith(); target != b {
		t.Fatal("unrelated end event cleared the target")
	}

	sys.Dispatch([]OverlapEvent{{Kind: OverlapEnd, A: a, B: b}}, 2)
	beh := behMap.Get(a)
	if beh.State != components.Wandering {
		t.Fatal("end event with target did not disengage")
	}
	r := math.Hypot(float64(beh.TargetPos.X), float64(beh.TargetPos.Y))
	if math.Abs(r-50) > 1e-3 {
		t.Errorf("fresh target radius = %v, want 50", r)
	}
	if obs.disengaged != 2 {
		t.Errorf("disengaged = %d, want 2", obs.disengaged)
	}
}

func TestReleaseDeadTargets(t *testing.T) {
	tw, sys, _ := newBehaviorFixture()
	a := tw.spawn(0, 0, genome.Traits{AttackPower: 100, MaxVigor: 9})
	b := tw.spawn(1, 0, genome.Traits{MaxVigor: 70})

	sys.Dispatch([]OverlapEvent{{Kind: OverlapBegin, A: a, B: b}}, 2)
	tw.world.RemoveEntity(b)
	sys.ReleaseDeadTargets()

	behMap := ecs.NewMap[components.Behavior](tw.world)
	if _, ok := behMap.Get(a).EngagedWith(); ok {
		t.Error("target handle survived its entity")
	}

	// End event naming the removed entity must be harmless.
	sys.Dispatch([]OverlapEvent{{Kind: OverlapEnd, A: a, B: b}}, 3)
}

func TestMoveTowardsNeverOvershoots(t *testing.T) {
	from := components.Position{}
	to := components.Position{X: 3, Y: 4}

	if got := MoveTowards(from, to, 1); math.Abs(float64(got.X)-0.6) > 1e-5 || math.Abs(float64(got.Y)-0.8) > 1e-5 {
		t.Errorf("partial step = %+v", got)
	}
	if got := MoveTowards(from, to, 10); got != to {
		t.Errorf("large step = %+v, want target", got)
	}
	if got := MoveTowards(to, to, 1); got != to {
		t.Errorf("zero distance = %+v", got)
	}
}

func TestMoveSkipsEngagedAndClamps(t *testing.T) {
	tw, sys, _ := newBehaviorFixture()
	a := tw.spawn(0, 0, genome.Traits{MoveSpeed: 10, MaxVigor: 9})
	b := tw.spawn(1, 0, genome.Traits{MoveSpeed: 10, MaxVigor: 70})
	c := tw.spawn(0, 0, genome.Traits{MoveSpeed: 1000, MaxVigor: 1})

	behMap := ecs.NewMap[components.Behavior](tw.world)
	posMap := ecs.NewMap[components.Position](tw.world)
	behMap.Get(a).Engage(b, *posMap.Get(b))
	behMap.Get(b).TargetPos = components.Position{X: 1, Y: 50}
	behMap.Get(c).TargetPos = components.Position{X: 500}

	sys.Move(0.1, 60)

	if got := *posMap.Get(a); got != (components.Position{}) {
		t.Errorf("engaged creature moved to %+v", got)
	}
	if got := posMap.Get(b).Y; math.Abs(float64(got)-1) > 1e-5 {
		t.Errorf("wanderer y = %v, want 1", got)
	}
	if got := posMap.Get(c).X; got != 60 {
		t.Errorf("wanderer not clamped to arena: x = %v", got)
	}
}

func TestRetargetOnArrival(t *testing.T) {
	tw, sys, _ := newBehaviorFixture()
	a := tw.spawn(5, 5, founderTraits())
	b := tw.spawn(0, 0, founderTraits())

	behMap := ecs.NewMap[components.Behavior](tw.world)
	behMap.Get(b).TargetPos = components.Position{X: 30}

	sys.Retarget()

	if behMap.Get(a).TargetPos == (components.Position{X: 5, Y: 5}) {
		t.Error("arrived wanderer kept its target")
	}
	if behMap.Get(b).TargetPos != (components.Position{X: 30}) {
		t.Error("travelling wanderer was retargeted")
	}
}
