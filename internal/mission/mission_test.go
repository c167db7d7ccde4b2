package mission

import (
	"math"
	"testing"

	"PolnSim/internal/config"
)

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

type countingRand struct {
	v     float64
	calls int
}

func (r *countingRand) Float64() float64 {
	r.calls++
	return r.v
}

func flatLogistic() *Logistic {
	l := &Logistic{CarryingCapacity: 1000, GrowthRate: 0.1, InflectionPoint: 24, Fluctuation: 0.2}
	for i := range l.Seasonality {
		l.Seasonality[i] = 1.0
	}
	return l
}

func TestLogistic_InflectionIsHalfCapacity(t *testing.T) {
	l := flatLogistic()
	// 0.5 maps to zero fluctuation.
	a := l.Generate(24, constRand(0.5))
	if a.Started != 500 || a.Ending != 500 {
		t.Errorf("expected 500 missions at inflection, got %+v", a)
	}
}

func TestLogistic_FluctuationBounds(t *testing.T) {
	l := flatLogistic()
	low := l.Generate(24, constRand(0)).Ending
	high := l.Generate(24, constRand(0.999999)).Ending
	if low != 400 {
		t.Errorf("expected 400 at -20%% fluctuation, got %d", low)
	}
	if high < 599 || high > 600 {
		t.Errorf("expected ~600 at +20%% fluctuation, got %d", high)
	}
}

func TestLogistic_SeasonWrapsEveryTwelveMonths(t *testing.T) {
	l := flatLogistic()
	l.Seasonality[0] = 2.0
	for _, m := range []int{1, 13, 25} {
		if got := l.Season(m); got != 2.0 {
			t.Errorf("month %d: expected January factor 2.0, got %.2f", m, got)
		}
	}
	if got := l.Season(12); got != 1.0 {
		t.Errorf("month 12: expected 1.0, got %.2f", got)
	}
}

func TestLogistic_TruncatesTowardZero(t *testing.T) {
	l := flatLogistic()
	l.CarryingCapacity = 1.8
	l.Fluctuation = 0
	// Far before the inflection point the baseline is below one mission.
	if n := l.Generate(1, constRand(0.5)).Ending; n != 0 {
		t.Errorf("expected zero missions, got %d", n)
	}
	l.Fluctuation = 5 // 1 + fluctuation goes negative at u=0
	if n := l.Generate(200, constRand(0)).Ending; n != 0 {
		t.Errorf("expected negative estimate floored at zero, got %d", n)
	}
}

func TestLogistic_OneDrawPerMonth(t *testing.T) {
	l := flatLogistic()
	rng := &countingRand{v: 0.5}
	for m := 1; m <= 10; m++ {
		l.Generate(m, rng)
	}
	if rng.calls != 10 {
		t.Errorf("expected 10 draws, got %d", rng.calls)
	}
}

func TestGeometric_SlidingWindowOrdering(t *testing.T) {
	g := NewGeometric(10, 1.0, 0, 0, 2)
	// Doubling each month with no noise: 10, 20, 40, 80, 160.
	wantStarted := []int{10, 20, 40, 80, 160}
	wantEnding := []int{0, 0, 10, 20, 40}
	wantOngoing := []int{10, 30, 60, 120, 240}
	for i := range wantStarted {
		a := g.Generate(i+1, constRand(0.5))
		if a.Started != wantStarted[i] || a.Ending != wantEnding[i] || a.Ongoing != wantOngoing[i] {
			t.Errorf("month %d: got %+v, want started=%d ending=%d ongoing=%d",
				i+1, a, wantStarted[i], wantEnding[i], wantOngoing[i])
		}
	}
}

func TestGeometric_ZeroDurationEndsSameMonth(t *testing.T) {
	g := NewGeometric(7, 0, 0, 0, 0)
	a := g.Generate(1, constRand(0.5))
	if a.Started != 7 || a.Ending != 7 || a.Ongoing != 0 {
		t.Errorf("got %+v", a)
	}
}

func TestGeometric_CappedAtLimit(t *testing.T) {
	g := NewGeometric(50, 1.0, 120, 0, 0)
	var last Activity
	for m := 1; m <= 6; m++ {
		last = g.Generate(m, constRand(0.5))
	}
	if last.Started != 120 {
		t.Errorf("expected cap of 120, got %d", last.Started)
	}
}

func TestSplit_Deterministic(t *testing.T) {
	tests := []struct {
		n       int
		rate    float64
		success int
		failed  int
	}{
		{10, 0.8, 8, 2},
		{7, 0.5, 3, 4},
		{3, 1.0, 3, 0},
		{3, 0.0, 0, 3},
		{0, 0.5, 0, 0},
		{-2, 0.5, 0, 0},
	}
	for _, tt := range tests {
		c := Split(tt.n, tt.rate, false, nil)
		if c.NumSuccessful != tt.success || c.NumFailed != tt.failed {
			t.Errorf("Split(%d, %.1f): got %d/%d, want %d/%d", tt.n, tt.rate, c.NumSuccessful, c.NumFailed, tt.success, tt.failed)
		}
		if c.NumSuccessful+c.NumFailed != c.Count {
			t.Errorf("Split(%d, %.1f): cohort does not add up: %+v", tt.n, tt.rate, c)
		}
	}
}

func TestSplit_PerMissionDrawsOncePerMission(t *testing.T) {
	rng := &countingRand{v: 0.3}
	c := Split(5, 0.5, true, rng)
	if rng.calls != 5 || c.NumSuccessful != 5 {
		t.Errorf("got %+v with %d draws", c, rng.calls)
	}
	c = Split(5, 0.2, true, &countingRand{v: 0.3})
	if c.NumSuccessful != 0 || c.NumFailed != 5 {
		t.Errorf("got %+v", c)
	}
}

func TestFromConfig_Seasonality(t *testing.T) {
	g := FromConfig(config.Missions{
		CarryingCapacity:   100,
		SeasonalityByMonth: map[string]float64{"3": 1.5},
	})
	l, ok := g.(*Logistic)
	if !ok {
		t.Fatalf("expected logistic generator, got %T", g)
	}
	if l.Season(3) != 1.5 || l.Season(4) != 1.0 {
		t.Errorf("unexpected seasonality %v", l.Seasonality)
	}
	if math.Abs(l.Baseline(0)-50) > 1e-9 {
		t.Errorf("zero growth rate should give half capacity, got %.4f", l.Baseline(0))
	}
	if _, ok := FromConfig(config.Missions{InitialMissions: 3}).(*Geometric); !ok {
		t.Error("expected geometric generator")
	}
}
