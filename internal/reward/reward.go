// Package reward pays initiator rewards from a depleting pool and halves the
// per-mission reward as the pool crosses successive halving thresholds.
package reward

import (
	"math"

	"PolnSim/internal/model"
)

// Controller owns the halving schedule. Reward and pool state live in
// model.EconomicState; the controller holds only what is fixed at start.
type Controller struct {
	initialPool   float64
	initialReward float64
	minimum       float64
	maxHalvings   int
}

// Payout reports one month of initiator rewards.
type Payout struct {
	Paid    float64
	Halved  bool
	Reward  float64 // reward per mission after any halving
	Halving int
}

// NewController precomputes the halving bound floor(log2(pool/minimum)).
func NewController(initialPool, initialReward, minimum float64) *Controller {
	c := &Controller{
		initialPool:   initialPool,
		initialReward: math.Max(initialReward, minimum),
		minimum:       minimum,
	}
	if initialPool > 0 && minimum > 0 && initialPool > minimum {
		c.maxHalvings = int(math.Floor(math.Log2(initialPool / minimum)))
	}
	return c
}

// MaxHalvings is the most halvings the schedule can perform.
func (c *Controller) MaxHalvings() int { return c.maxHalvings }

// InitialReward is the starting reward per mission.
func (c *Controller) InitialReward() float64 { return c.initialReward }

// Threshold is the pool balance at or below which halving k+1 triggers.
func (c *Controller) Threshold(k int) float64 {
	return c.initialPool / math.Pow(2, float64(k+1))
}

// Init seeds the reward fields of s.
func (c *Controller) Init(s model.EconomicState) model.EconomicState {
	s.RewardPerMission = c.initialReward
	s.HalvingIndex = 0
	return s
}

// Pay distributes rewards for the month's successful missions, then checks
// the next halving threshold. The pool never goes negative; a shortfall
// reduces the payout.
func (c *Controller) Pay(cohort model.MissionCohort, s model.EconomicState) (model.EconomicState, Payout) {
	paid := s.RewardPerMission * float64(cohort.NumSuccessful)
	if paid > s.InitiatorRewardsPool {
		paid = s.InitiatorRewardsPool
	}
	if paid < 0 {
		paid = 0
	}
	s.InitiatorRewardsPool -= paid
	s.CirculatingSupply += paid
	s.ClampCirculating()

	p := Payout{Paid: paid}
	if s.InitiatorRewardsPool <= c.Threshold(s.HalvingIndex) &&
		s.HalvingIndex < c.maxHalvings &&
		s.RewardPerMission > c.minimum {
		s.RewardPerMission = math.Max(s.RewardPerMission/2, c.minimum)
		s.HalvingIndex++
		p.Halved = true
	}
	p.Reward = s.RewardPerMission
	p.Halving = s.HalvingIndex
	return s, p
}

// SellPressure models the fraction of earned or vested tokens each group
// sells. Selling lowers net demand but never changes circulating supply.
type SellPressure struct {
	Initiator  float64
	Fellowship float64
	Builders   float64
}

// Sold is the modeled sell-off of one month.
type Sold struct {
	Initiator  float64
	Fellowship float64
	Builders   float64
}

// Total sums all groups.
func (s Sold) Total() float64 {
	return s.Initiator + s.Fellowship + s.Builders
}

// Apply computes each group's sell-off.
func (sp SellPressure) Apply(rewardsPaid, feeDistributed, buildersVested float64) Sold {
	return Sold{
		Initiator:  rewardsPaid * sp.Initiator,
		Fellowship: feeDistributed * sp.Fellowship,
		Builders:   buildersVested * sp.Builders,
	}
}
