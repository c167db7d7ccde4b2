package model

// EconomicState is the token economy at the end of a month. Components take it by value
// and return the updated copy.
type EconomicState struct {
	CirculatingSupply float64
	TotalSupply       float64
	TokenPrice        float64
	DAOTreasury       float64
	TotalBurntTokens  float64

	BuildersTokens           float64
	AirdropsTokens           float64
	InitiatorRewardsPool     float64
	TestnetDevelopmentTokens float64

	InitialInitiatorPool float64
	InitialTestnetTokens float64

	RewardPerMission float64
	HalvingIndex     int

	Regime          Regime
	RegimeRemaining int
	Sentiment       float64
}

// ClampCirculating keeps 0 <= circulating <= total and total >= 0.
func (s *EconomicState) ClampCirculating() {
	if s.TotalSupply < 0 {
		s.TotalSupply = 0
	}
	if s.CirculatingSupply < 0 {
		s.CirculatingSupply = 0
	}
	if s.CirculatingSupply > s.TotalSupply {
		s.CirculatingSupply = s.TotalSupply
	}
}

// Pooled sums every allocation that is not yet circulating, excluding private sale
// tranches which live in their own schedules.
func (s EconomicState) Pooled() float64 {
	return s.BuildersTokens + s.DAOTreasury + s.AirdropsTokens +
		s.InitiatorRewardsPool + s.TestnetDevelopmentTokens
}
