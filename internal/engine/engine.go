// Package engine advances the token economy one month at a time.
//
// Each month runs, in order: sentiment, vesting, mission generation, cohort
// split, fee processing, initiator rewards and halving (extended variant),
// sell pressure, price formation, and finally appends a MonthlyRecord.
//
// Random draws per month, in order: one for the sentiment source (the regime
// model draws only when its hold has expired), one for the mission
// fluctuation, then one per resolved mission when per-mission outcomes are
// enabled. Reordering these changes every seeded run.
//
// An Engine is not safe for concurrent use and runs once. Independent runs
// share no state and may execute in parallel.
package engine

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"PolnSim/internal/config"
	"PolnSim/internal/fee"
	"PolnSim/internal/mission"
	"PolnSim/internal/model"
	"PolnSim/internal/pricing"
	"PolnSim/internal/reward"
	"PolnSim/internal/sentiment"
	"PolnSim/internal/vesting"
)

// ErrAlreadyRun is returned when Run is called twice on the same Engine.
var ErrAlreadyRun = errors.New("engine: simulation already run")

// Rand is the random source threaded through the sub-models.
type Rand interface {
	Float64() float64
}

// Engine composes the sub-models for one simulation run.
type Engine struct {
	cfg     *config.Config
	variant config.Variant
	rng     Rand
	logger  *zap.Logger

	sentiment sentiment.Source
	missions  mission.Generator
	vesting   *vesting.Engine
	rewards   *reward.Controller
	sell      reward.SellPressure
	fees      fee.Params
	priceCap  float64
	seed      uint64

	state model.EconomicState
	ran   bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithSentiment replaces the configured sentiment source.
func WithSentiment(s sentiment.Source) Option {
	return func(e *Engine) { e.sentiment = s }
}

// WithGenerator replaces the configured mission generator.
func WithGenerator(g mission.Generator) Option {
	return func(e *Engine) { e.missions = g }
}

// WithSeed records the seed in the Result. It does not reseed rng.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.seed = seed }
}

// New builds an engine from an already validated configuration. The caller
// owns rng; the engine draws from it in the documented order only.
func New(cfg *config.Config, rng Rand, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		variant:   cfg.Kind(),
		rng:       rng,
		logger:    zap.NewNop(),
		sentiment: sentiment.FromConfig(cfg.Sentiment),
		missions:  mission.FromConfig(cfg.Missions),
		fees: fee.Params{
			ProjectCost:     cfg.ProjectCost,
			ProtocolFeeRate: cfg.ProtocolFeeRate,
			StakingRate:     cfg.StakingRate,
		},
		priceCap: cfg.PriceCap(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.state, e.vesting = vesting.Allocate(cfg)
	if e.variant == config.VariantExtended {
		e.rewards = reward.NewController(e.state.InitiatorRewardsPool, cfg.InitiatorRewardsInitial, cfg.MinimumRewardPerMission)
		e.state = e.rewards.Init(e.state)
		e.sell = reward.SellPressure{
			Initiator:  cfg.InitiatorSellingPercentage,
			Fellowship: cfg.FellowshipSellingPercentage,
			Builders:   cfg.BuildersSellingPercentage,
		}
	}
	return e
}

// Initial returns the month-0 state.
func (e *Engine) Initial() model.EconomicState { return e.state }

// Rewards returns the halving controller, or nil outside the extended variant.
func (e *Engine) Rewards() *reward.Controller { return e.rewards }

// Run simulates months 1..months and returns every monthly record.
func (e *Engine) Run(months int) (*model.Result, error) {
	if e.ran {
		return nil, ErrAlreadyRun
	}
	e.ran = true
	if months < 0 {
		return nil, fmt.Errorf("engine: negative horizon %d", months)
	}

	res := &model.Result{
		Variant: string(e.variant),
		Months:  months,
		Seed:    e.seed,
		Initial: e.state,
		Records: make([]model.MonthlyRecord, 0, months),
	}
	e.logger.Info("simulation started",
		zap.String("variant", res.Variant),
		zap.Int("months", months),
		zap.String("sentiment", e.sentiment.Name()),
		zap.String("missions", e.missions.Name()),
		zap.Float64("circulating", e.state.CirculatingSupply),
	)

	for month := 1; month <= months; month++ {
		res.Records = append(res.Records, e.step(month))
	}

	res.Schedules = e.vesting.Schedules()
	final := res.Final()
	e.logger.Info("simulation finished",
		zap.Int("months", months),
		zap.Float64("token_price", final.TokenPrice),
		zap.Float64("circulating", final.CirculatingSupply),
		zap.Float64("total_burnt", final.TotalBurntTokens),
		zap.Float64("dao_treasury", final.DAOTreasury),
	)
	return res, nil
}

func (e *Engine) step(month int) model.MonthlyRecord {
	s := e.state

	// 1. sentiment
	s = e.sentiment.Next(s, e.rng)

	// 2. vesting
	s, rel := e.vesting.Release(month, s)

	// 3. missions
	act := e.missions.Generate(month, e.rng)
	cohort := mission.Split(act.Ending, e.cfg.MissionSuccessRate, e.cfg.PerMissionOutcomes, e.rng)

	// 4. fees, staking, burning
	s, out := fee.Process(cohort, s, e.fees)
	netDemand := out.NetTokenDemand

	// 5. initiator rewards, halving, sell pressure
	var pay reward.Payout
	var sold reward.Sold
	if e.rewards != nil {
		s, pay = e.rewards.Pay(cohort, s)
		sold = e.sell.Apply(pay.Paid, out.TokensFeeDistributed, rel.Builders)
		netDemand -= sold.Total()
		if pay.Halved {
			e.logger.Info("reward halved",
				zap.Int("month", month),
				zap.Int("halving", pay.Halving),
				zap.Float64("reward_per_mission", pay.Reward),
			)
		}
	}

	// 6. price
	s.TokenPrice = pricing.Next(s.TokenPrice, netDemand, s.CirculatingSupply, s.Sentiment,
		e.cfg.PriceElasticityCoefficient, e.priceCap)

	e.state = s
	e.logger.Debug("month",
		zap.Int("month", month),
		zap.Int("missions", cohort.Count),
		zap.Float64("net_demand", netDemand),
		zap.Float64("price", s.TokenPrice),
	)

	// 7. record
	return model.MonthlyRecord{
		Month:                month,
		CirculatingSupply:    s.CirculatingSupply,
		TotalSupply:          s.TotalSupply,
		TokenPrice:           s.TokenPrice,
		TokensStaked:         out.TokensStaked,
		TokensBurnt:          out.TokensBurnt,
		TokensFeeDistributed: out.TokensFeeDistributed,
		TokensFeeToDAO:       out.TokensFeeToDAO,
		DAOTreasury:          s.DAOTreasury,
		TotalBurntTokens:     s.TotalBurntTokens,
		SentimentValue:       s.Sentiment,
		Regime:               s.Regime.String(),
		NetTokenDemand:       netDemand,
		MissionCount:         cohort.Count,
		NewMissions:          act.Started,
		OngoingMissions:      act.Ongoing,
		NumSuccessful:        cohort.NumSuccessful,
		NumFailed:            cohort.NumFailed,
		InitiatorRewardsPool: s.InitiatorRewardsPool,
		RewardPerMission:     s.RewardPerMission,
		HalvingIndex:         s.HalvingIndex,
		RewardsPaid:          pay.Paid,
		InitiatorSold:        sold.Initiator,
		BuildersSold:         sold.Builders,
		FellowshipSold:       sold.Fellowship,
		BuildersTokens:       s.BuildersTokens,
		TestnetTokens:        s.TestnetDevelopmentTokens,
		DAOConsumed:          rel.DAOConsumed,
	}
}

// NewRand returns the generator used for a run: PCG seeded by (seed, stream).
// Using the horizon as the stream keeps each horizon reproducible on its own.
func NewRand(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// Simulate runs one horizon with a fresh generator derived from seed.
func Simulate(cfg *config.Config, months int, seed uint64, logger *zap.Logger) (*model.Result, error) {
	e := New(cfg, NewRand(seed, uint64(months)), WithLogger(logger), WithSeed(seed))
	return e.Run(months)
}
