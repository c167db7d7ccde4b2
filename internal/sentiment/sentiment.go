// Package sentiment produces the monthly market sentiment multiplier.
package sentiment

import (
	"PolnSim/internal/config"
	"PolnSim/internal/model"
)

// Rand is the slice of *rand.Rand the sentiment sources draw from.
type Rand interface {
	Float64() float64
}

// Source advances the sentiment fields of the economic state by one month.
type Source interface {
	Next(s model.EconomicState, rng Rand) model.EconomicState
	Name() string
}

// FromConfig selects the regime model when any of its parameters is set,
// otherwise the uniform draw.
func FromConfig(cfg config.Sentiment) Source {
	if cfg.UsesRegime() {
		return &RegimeSource{
			Normal:        cfg.MSINormal,
			Bull:          cfg.MSIBull,
			Bear:          cfg.MSIBear,
			PBull:         cfg.BullProbability,
			PBear:         cfg.BearProbability,
			EventDuration: cfg.EventDuration,
		}
	}
	return &UniformSource{Min: cfg.MSIMin, Max: cfg.MSIMax}
}

// RegimeSource is a Normal/Bull/Bear state machine. A Bull or Bear event holds
// for EventDuration months; a new regime is drawn only when the hold expires.
type RegimeSource struct {
	Normal, Bull, Bear float64
	PBull, PBear       float64
	EventDuration      int
}

func (r *RegimeSource) Name() string { return "regime" }

// Next draws at most once: only when RegimeRemaining is zero.
func (r *RegimeSource) Next(s model.EconomicState, rng Rand) model.EconomicState {
	if s.RegimeRemaining > 0 {
		s.RegimeRemaining--
		s.Sentiment = r.multiplier(s.Regime)
		return s
	}

	u := rng.Float64()
	switch {
	case u < r.PBull:
		s.Regime = model.RegimeBull
		s.RegimeRemaining = r.EventDuration - 1
	case u < r.PBull+r.PBear:
		s.Regime = model.RegimeBear
		s.RegimeRemaining = r.EventDuration - 1
	default:
		s.Regime = model.RegimeNormal
		s.RegimeRemaining = 0
	}
	if s.RegimeRemaining < 0 {
		s.RegimeRemaining = 0
	}
	s.Sentiment = r.multiplier(s.Regime)
	return s
}

func (r *RegimeSource) multiplier(regime model.Regime) float64 {
	switch regime {
	case model.RegimeBull:
		return r.Bull
	case model.RegimeBear:
		return r.Bear
	default:
		return r.Normal
	}
}

// UniformSource draws sentiment uniformly from [Min, Max) every month, with no persistence.
type UniformSource struct {
	Min, Max float64
}

func (u *UniformSource) Name() string { return "uniform" }

func (u *UniformSource) Next(s model.EconomicState, rng Rand) model.EconomicState {
	s.Sentiment = u.Min + rng.Float64()*(u.Max-u.Min)
	s.Regime = model.RegimeNormal
	s.RegimeRemaining = 0
	return s
}

// Fixed returns a constant multiplier and never draws.
type Fixed float64

func (f Fixed) Name() string { return "fixed" }

func (f Fixed) Next(s model.EconomicState, _ Rand) model.EconomicState {
	s.Sentiment = float64(f)
	return s
}
