// Package mission computes how many missions start and resolve each month.
package mission

import (
	"math"
	"strconv"

	"PolnSim/internal/config"
	"PolnSim/internal/model"
)

// Rand is the slice of *rand.Rand the generators draw from.
type Rand interface {
	Float64() float64
}

// Activity is one month of mission flow. Ending missions are the ones
// whose fees, stakes and rewards settle this month.
type Activity struct {
	Started int
	Ending  int
	Ongoing int
}

// Generator produces the mission activity for a month. Every call draws
// exactly once from rng.
type Generator interface {
	Generate(month int, rng Rand) Activity
	Name() string
}

// FromConfig returns the logistic model when a carrying capacity is set,
// otherwise the geometric model.
func FromConfig(cfg config.Missions) Generator {
	if cfg.UsesLogistic() {
		l := &Logistic{
			CarryingCapacity: cfg.CarryingCapacity,
			GrowthRate:       cfg.GrowthRate,
			InflectionPoint:  cfg.InflectionPoint,
			Fluctuation:      cfg.RandomFluctuation,
		}
		for m := 1; m <= 12; m++ {
			l.Seasonality[m-1] = 1.0
			if f, ok := cfg.SeasonalityByMonth[strconv.Itoa(m)]; ok {
				l.Seasonality[m-1] = f
			}
		}
		return l
	}
	return NewGeometric(cfg.InitialMissions, cfg.GrowthRatio, cfg.MaxMissions, cfg.RandomFluctuation, cfg.MissionDuration)
}

// fluctuation maps a uniform draw in [0, 1) onto [-f, +f).
func fluctuation(rng Rand, f float64) float64 {
	return (rng.Float64()*2 - 1) * f
}

// truncate converts a mission estimate to a count, toward zero and never negative.
func truncate(x float64) int {
	if x <= 0 || math.IsNaN(x) {
		return 0
	}
	return int(x)
}

// Logistic grows monthly missions along a logistic curve, shaped by a
// calendar-month seasonal factor and uniform noise.
type Logistic struct {
	CarryingCapacity float64
	GrowthRate       float64
	InflectionPoint  float64
	Seasonality      [12]float64 // index 0 is January
	Fluctuation      float64
}

func (l *Logistic) Name() string { return "logistic" }

// Baseline is the noise-free, season-free logistic value for month.
func (l *Logistic) Baseline(month int) float64 {
	return l.CarryingCapacity / (1 + math.Exp(-l.GrowthRate*(float64(month)-l.InflectionPoint)))
}

// Season returns the factor for the calendar month of a simulated month (1-based, wraps every 12).
func (l *Logistic) Season(month int) float64 {
	return l.Seasonality[(month-1)%12]
}

func (l *Logistic) Generate(month int, rng Rand) Activity {
	n := truncate(l.Baseline(month) * l.Season(month) * (1 + fluctuation(rng, l.Fluctuation)))
	return Activity{Started: n, Ending: n}
}

// Geometric grows a running mission rate by a fixed ratio plus noise, capped
// at limit. Missions started in month m end in month m+duration.
type Geometric struct {
	rate        float64
	growthRatio float64
	limit       float64
	fluct       float64
	duration    int

	window  []int // window[i] = missions started duration-i months ago, oldest first
	ongoing int
}

// NewGeometric builds a geometric generator.
func NewGeometric(initial, growthRatio, limit, fluct float64, duration int) *Geometric {
	if duration < 0 {
		duration = 0
	}
	return &Geometric{
		rate:        initial,
		growthRatio: growthRatio,
		limit:       limit,
		fluct:       fluct,
		duration:    duration,
		window:      make([]int, 0, duration+1),
	}
}

func (g *Geometric) Name() string { return "geometric" }

func (g *Geometric) Generate(_ int, rng Rand) Activity {
	started := truncate(g.rate)

	next := g.rate * (1 + g.growthRatio) * (1 + fluctuation(rng, g.fluct))
	if g.limit > 0 && next > g.limit {
		next = g.limit
	}
	if next < 0 {
		next = 0
	}
	g.rate = next

	g.window = append(g.window, started)
	g.ongoing += started
	ending := 0
	if len(g.window) > g.duration {
		ending = g.window[0]
		g.window = g.window[1:]
		g.ongoing -= ending
	}
	return Activity{Started: started, Ending: ending, Ongoing: g.ongoing}
}

// Split divides count missions into successes and failures. By default
// successes are floor(count*rate) and failures absorb the remainder; with
// perMission set, each mission draws once and succeeds when the draw is below rate.
func Split(count int, rate float64, perMission bool, rng Rand) model.MissionCohort {
	c := model.MissionCohort{Count: count}
	if count <= 0 {
		c.Count = 0
		return c
	}
	if perMission {
		for i := 0; i < count; i++ {
			if rng.Float64() < rate {
				c.NumSuccessful++
			}
		}
	} else {
		c.NumSuccessful = int(math.Floor(float64(count) * rate))
	}
	if c.NumSuccessful > count {
		c.NumSuccessful = count
	}
	c.NumFailed = count - c.NumSuccessful
	return c
}
