// Package fee resolves a month's mission cohort into staking, burning and fee routing.
package fee

import "PolnSim/internal/model"

// MinFeePerMission floors the token-denominated fee so a very high price
// never produces a zero or near-zero fee.
const MinFeePerMission = 1e-6

// Params are the fee economics taken from configuration.
type Params struct {
	ProjectCost     float64 // fiat
	ProtocolFeeRate float64
	StakingRate     float64
}

// Outcome is the token flow of one month's cohort.
type Outcome struct {
	FeePerMission        float64
	StakingAmount        float64
	TokensStaked         float64
	TokensBurnt          float64
	TokensFeeDistributed float64
	TokensFeeToDAO       float64
	NetTokenDemand       float64
}

// FeePerMission converts the fiat protocol fee to tokens at price.
func FeePerMission(p Params, price float64) float64 {
	var f float64
	if price > 0 {
		f = p.ProjectCost * p.ProtocolFeeRate / price
	}
	if f < MinFeePerMission {
		f = MinFeePerMission
	}
	return f
}

// Process settles cohort against s. Successful missions distribute the fee to
// the fellowship; failed missions burn their stake and route the fee to the DAO.
func Process(c model.MissionCohort, s model.EconomicState, p Params) (model.EconomicState, Outcome) {
	fee := FeePerMission(p, s.TokenPrice)
	stake := fee * p.StakingRate

	o := Outcome{
		FeePerMission:        fee,
		StakingAmount:        stake,
		TokensStaked:         stake * float64(c.Count),
		TokensBurnt:          stake * float64(c.NumFailed),
		TokensFeeDistributed: fee * float64(c.NumSuccessful),
		TokensFeeToDAO:       fee * float64(c.NumFailed),
	}
	o.NetTokenDemand = fee*float64(c.Count) - o.TokensBurnt

	s.TotalBurntTokens += o.TokensBurnt
	s.TotalSupply -= o.TokensBurnt
	s.DAOTreasury += o.TokensFeeToDAO
	s.CirculatingSupply += o.TokensFeeDistributed - o.TokensBurnt
	s.ClampCirculating()
	return s, o
}
