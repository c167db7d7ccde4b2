// Package vesting partitions total supply into allocation pools and releases
// scheduled tokens into circulation month by month.
package vesting

import (
	"math"

	"PolnSim/internal/config"
	"PolnSim/internal/model"
)

// Release reports what entered circulation in one month.
type Release struct {
	Builders    float64
	Initiator   float64
	PrivateSale float64
	Testnet     float64
	DAOConsumed float64
}

// Total sums every released amount.
func (r Release) Total() float64 {
	return r.Builders + r.Initiator + r.PrivateSale + r.Testnet + r.DAOConsumed
}

// Engine holds the monthly release rules fixed at allocation time.
type Engine struct {
	lockup            int
	buildersPerMonth  float64
	buildersImmediate bool

	// Initiator pool vests like builders unless the halving controller owns it.
	vestInitiator     bool
	initiatorPerMonth float64

	testnetPerMonth float64
	testnetInstalls int

	daoRate       float64
	daoStartMonth int

	schedules []model.VestingSchedule
}

// Allocate builds the month-0 state and the release engine from cfg.
// Zero-length vesting schedules are released here, in full.
func Allocate(cfg *config.Config) (model.EconomicState, *Engine) {
	total := cfg.TotalSupply
	d := cfg.TokenDistribution

	s := model.EconomicState{
		TotalSupply:              total,
		TokenPrice:               cfg.InitialPrice,
		BuildersTokens:           total * d.Builders,
		DAOTreasury:              total * d.DAOTreasury,
		AirdropsTokens:           total * d.AirdropsGiveaways,
		InitiatorRewardsPool:     total * d.InitiatorRewards,
		TestnetDevelopmentTokens: total * d.TestnetDevelopment,
		Regime:                   model.RegimeNormal,
	}
	s.InitialInitiatorPool = s.InitiatorRewardsPool
	s.InitialTestnetTokens = s.TestnetDevelopmentTokens

	e := &Engine{
		lockup:        cfg.BuildersLockupPeriod,
		vestInitiator: cfg.Kind() != config.VariantExtended,
		daoRate:       cfg.DAOAnnualConsumptionRate,
		daoStartMonth: cfg.DAOConsumptionStartMonth,
	}
	if cfg.BuildersVestingPeriod > 0 {
		e.buildersPerMonth = s.BuildersTokens / float64(cfg.BuildersVestingPeriod)
		e.initiatorPerMonth = s.InitiatorRewardsPool / float64(cfg.BuildersVestingPeriod)
	} else {
		e.buildersImmediate = true
	}

	sold := 0.0
	e.schedules = make([]model.VestingSchedule, 0, len(cfg.PrivateSales))
	for _, ps := range cfg.PrivateSales {
		sched := model.VestingSchedule{
			Name:          ps.Name,
			TokensSold:    ps.TokensSold,
			Remaining:     ps.TokensSold,
			VestingPeriod: ps.VestingPeriod,
		}
		if ps.VestingPeriod > 0 {
			sched.MonthlyRelease = ps.TokensSold / float64(ps.VestingPeriod)
		}
		sold += ps.TokensSold
		e.schedules = append(e.schedules, sched)
	}

	s.CirculatingSupply = total - (s.Pooled() + sold)

	for i := range e.schedules {
		if e.schedules[i].VestingPeriod == 0 {
			s.CirculatingSupply += e.schedules[i].Remaining
			e.schedules[i].Remaining = 0
		}
	}

	if cfg.TestnetDistributionPeriod > 0 {
		months := cfg.TestnetDistributionPeriod * 12
		e.testnetPerMonth = s.TestnetDevelopmentTokens / months
		e.testnetInstalls = int(math.Ceil(months))
	} else {
		s.CirculatingSupply += s.TestnetDevelopmentTokens
		s.TestnetDevelopmentTokens = 0
	}

	s.ClampCirculating()
	return s, e
}

// Schedules returns a copy of the private sale schedules.
func (e *Engine) Schedules() []model.VestingSchedule {
	return append([]model.VestingSchedule(nil), e.schedules...)
}

// Outstanding is the sum of unreleased private sale tokens.
func (e *Engine) Outstanding() float64 {
	return model.Outstanding(e.schedules)
}

// Release applies one month of vesting to s.
func (e *Engine) Release(month int, s model.EconomicState) (model.EconomicState, Release) {
	var r Release

	if month > e.lockup && s.BuildersTokens > 0 {
		amount := s.BuildersTokens
		if !e.buildersImmediate {
			amount = min(e.buildersPerMonth, s.BuildersTokens)
		}
		s.BuildersTokens -= amount
		s.CirculatingSupply += amount
		r.Builders = amount
	}

	if e.vestInitiator && month > e.lockup && s.InitiatorRewardsPool > 0 {
		amount := s.InitiatorRewardsPool
		if !e.buildersImmediate {
			amount = min(e.initiatorPerMonth, s.InitiatorRewardsPool)
		}
		s.InitiatorRewardsPool -= amount
		s.CirculatingSupply += amount
		r.Initiator = amount
	}

	for i := range e.schedules {
		sched := &e.schedules[i]
		if !sched.Active() {
			continue
		}
		sched.ElapsedMonths++
		amount := min(sched.MonthlyRelease, sched.Remaining)
		sched.Remaining -= amount
		s.CirculatingSupply += amount
		r.PrivateSale += amount
	}

	if e.testnetInstalls > 0 && s.TestnetDevelopmentTokens > 0 {
		// The last installment takes whatever rounding left behind.
		amount := min(e.testnetPerMonth, s.TestnetDevelopmentTokens)
		if e.testnetInstalls == 1 {
			amount = s.TestnetDevelopmentTokens
		}
		e.testnetInstalls--
		s.TestnetDevelopmentTokens -= amount
		s.CirculatingSupply += amount
		r.Testnet = amount
	}

	if e.daoRate > 0 && month > e.daoStartMonth && s.DAOTreasury > 0 {
		amount := min(s.DAOTreasury*e.daoRate/12, s.DAOTreasury)
		s.DAOTreasury -= amount
		s.CirculatingSupply += amount
		r.DAOConsumed = amount
	}

	if s.CirculatingSupply > s.TotalSupply {
		s.CirculatingSupply = s.TotalSupply
	}
	return s, r
}
