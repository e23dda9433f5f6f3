package genome

import (
	"math"
	"math/rand"
	"testing"
)

func founder() Traits {
	return Traits{
		AttackPower:       10,
		MoveSpeed:         5,
		MaxVigor:          100,
		HitCooldown:       1,
		ReproduceCooldown: 5,
	}
}

func TestFingerprintWeights(t *testing.T) {
	if got := Fingerprint(founder()); got != 61060 {
		t.Errorf("Fingerprint(founder) = %d, want 61060", got)
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a, b := founder(), founder()
	if Fingerprint(a) != Fingerprint(b) {
		t.Fatal("equal traits produced different fingerprints")
	}
}

func TestFingerprintSensitiveToEachTrait(t *testing.T) {
	base := Fingerprint(founder())

	tests := []struct {
		name   string
		mutate func(*Traits)
		delta  int
	}{
		{"attack", func(t *Traits) { t.AttackPower++ }, 1},
		{"speed", func(t *Traits) { t.MoveSpeed++ }, 10},
		{"vigor", func(t *Traits) { t.MaxVigor++ }, 100},
		{"hit cooldown", func(t *Traits) { t.HitCooldown++ }, 1000},
		{"reproduce cooldown", func(t *Traits) { t.ReproduceCooldown++ }, 10000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			traits := founder()
			tt.mutate(&traits)
			if got := Fingerprint(traits) - base; got != tt.delta {
				t.Errorf("fingerprint delta = %d, want %d", got, tt.delta)
			}
		})
	}
}

func TestFingerprintTruncatesTowardZero(t *testing.T) {
	if got := Fingerprint(Traits{AttackPower: 2.9}); got != 2 {
		t.Errorf("positive truncation = %d, want 2", got)
	}
	if got := Fingerprint(Traits{AttackPower: -2.9}); got != -2 {
		t.Errorf("negative truncation = %d, want -2", got)
	}
}

func TestAffinityDistance(t *testing.T) {
	tests := []struct {
		a, b, want int
	}{
		{1000, 7000, 6000},
		{7000, 1000, 6000},
		{1000, 4000, 3000},
		{-50, 50, 100},
		{61060, 61060, 0},
	}
	for _, tt := range tests {
		if got := AffinityDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("AffinityDistance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAffinityDistanceSelfIsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		traits := Mutate(founder(), MutationRanges{
			AttackPower: 50, MoveSpeed: 50, MaxVigor: 50, HitCooldown: 50, ReproduceCooldown: 50,
		}, rng)
		fp := Fingerprint(traits)
		if d := AffinityDistance(fp, fp); d != 0 {
			t.Fatalf("self distance = %d for %+v", d, traits)
		}
	}
}

func TestHammingDistance(t *testing.T) {
	if got := HammingDistance(0b1010, 0b0110); got != 2 {
		t.Errorf("HammingDistance = %d, want 2", got)
	}
	if got := HammingDistance(61060, 61060); got != 0 {
		t.Errorf("self HammingDistance = %d, want 0", got)
	}
}

func TestMetric(t *testing.T) {
	tests := []struct {
		name    string
		want    Metric
		wantErr bool
	}{
		{"", MetricLinear, false},
		{"linear", MetricLinear, false},
		{"hamming", MetricHamming, false},
		{"haming", MetricLinear, true},
	}
	for _, tt := range tests {
		got, err := ParseMetric(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMetric(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseMetric(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if got := MetricLinear.Distance(1000, 7000); got != 6000 {
		t.Errorf("linear distance = %d, want 6000", got)
	}
	if got := MetricHamming.Distance(1, 2); got != 2 {
		t.Errorf("hamming distance = %d, want 2", got)
	}
}

func TestColorFromFingerprint(t *testing.T) {
	c := ColorFromFingerprint(0x123456)
	if c.R != float32(0x12)/255 || c.G != float32(0x34)/255 || c.B != float32(0x56)/255 {
		t.Errorf("unexpected color %+v", c)
	}

	c = ColorFromFingerprint(61060)
	if c.R != 0 || c.G != float32(0xEE)/255 || c.B != float32(0x84)/255 {
		t.Errorf("founder color %+v", c)
	}
}

func TestColorChannelsInRange(t *testing.T) {
	fps := []int{0, 1, -1, 255, 256, 65535, 0xffffff, 0x7fffffff, -0x7fffffff, math.MaxInt, math.MinInt}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		fps = append(fps, rng.Int()-rng.Int())
	}

	for _, fp := range fps {
		c := ColorFromFingerprint(fp)
		for _, ch := range []float32{c.R, c.G, c.B} {
			if ch < 0 || ch > 1 {
				t.Fatalf("channel %v out of range for fingerprint %d", ch, fp)
			}
		}
	}
}

func TestColorRGBA8(t *testing.T) {
	r, g, b, a := ColorFromFingerprint(0x12ff00).RGBA8()
	if r != 0x12 || g != 0xff || b != 0 || a != 255 {
		t.Errorf("RGBA8 = %d,%d,%d,%d", r, g, b, a)
	}
}

func TestMutateStaysWithinRanges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	ranges := DefaultMutationRanges()
	parent := founder()

	for i := 0; i < 1000; i++ {
		child := Mutate(parent, ranges, rng)
		checks := []struct {
			name          string
			child, parent float64
			halfWidth     float64
		}{
			{"attack", child.AttackPower, parent.AttackPower, ranges.AttackPower},
			{"speed", child.MoveSpeed, parent.MoveSpeed, ranges.MoveSpeed},
			{"vigor", child.MaxVigor, parent.MaxVigor, ranges.MaxVigor},
			{"hit cooldown", child.HitCooldown, parent.HitCooldown, ranges.HitCooldown},
			{"reproduce cooldown", child.ReproduceCooldown, parent.ReproduceCooldown, ranges.ReproduceCooldown},
		}
		for _, c := range checks {
			if math.Abs(c.child-c.parent) > c.halfWidth {
				t.Fatalf("%s mutated by %v, limit %v", c.name, c.child-c.parent, c.halfWidth)
			}
		}
	}
}

func TestMutateDoesNotTouchParent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	parent := founder()
	_ = Mutate(parent, DefaultMutationRanges(), rng)
	if parent != founder() {
		t.Errorf("parent changed: %+v", parent)
	}
}

func TestMutateZeroRangesClones(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if child := Mutate(founder(), MutationRanges{}, rng); child != founder() {
		t.Errorf("zero ranges changed traits: %+v", child)
	}
}

func TestMutateIsUnclamped(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	parent := Traits{HitCooldown: 0.1}
	sawNegative := false
	for i := 0; i < 200 && !sawNegative; i++ {
		if Mutate(parent, DefaultMutationRanges(), rng).HitCooldown < 0 {
			sawNegative = true
		}
	}
	if !sawNegative {
		t.Error("expected mutation to reach a negative cooldown")
	}
}
