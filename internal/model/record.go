package model

// MonthlyRecord is the snapshot appended after each simulated month.
type MonthlyRecord struct {
	Month                int     `json:"month"`
	CirculatingSupply    float64 `json:"circulating_supply"`
	TotalSupply          float64 `json:"total_supply"`
	TokenPrice           float64 `json:"token_price"`
	TokensStaked         float64 `json:"tokens_staked"`
	TokensBurnt          float64 `json:"tokens_burnt"`
	TokensFeeDistributed float64 `json:"tokens_fee_distributed"`
	TokensFeeToDAO       float64 `json:"tokens_fee_to_dao"`
	DAOTreasury          float64 `json:"dao_treasury"`
	TotalBurntTokens     float64 `json:"total_burnt_tokens"`
	SentimentValue       float64 `json:"sentiment_value"`
	Regime               string  `json:"regime"`
	NetTokenDemand       float64 `json:"net_token_demand"`
	MissionCount         int     `json:"mission_count"`
	NewMissions          int     `json:"new_missions"`
	OngoingMissions      int     `json:"ongoing_missions"`
	NumSuccessful        int     `json:"num_successful"`
	NumFailed            int     `json:"num_failed"`

	// Extended variant.
	InitiatorRewardsPool float64 `json:"initiator_rewards_pool"`
	RewardPerMission     float64 `json:"reward_per_mission"`
	HalvingIndex         int     `json:"halving_index"`
	RewardsPaid          float64 `json:"rewards_paid"`
	InitiatorSold        float64 `json:"initiator_sold"`
	BuildersSold         float64 `json:"builders_sold"`
	FellowshipSold       float64 `json:"fellowship_sold"`

	BuildersTokens float64 `json:"builders_tokens"`
	TestnetTokens  float64 `json:"testnet_tokens"`
	DAOConsumed    float64 `json:"dao_consumed"`
}

// Result is the output of one simulation run.
type Result struct {
	Variant   string
	Months    int
	Seed      uint64
	Initial   EconomicState
	Schedules []VestingSchedule
	Records   []MonthlyRecord
}

// Final returns the last record, or a zero record when the run was empty.
func (r *Result) Final() MonthlyRecord {
	if len(r.Records) == 0 {
		return MonthlyRecord{}
	}
	return r.Records[len(r.Records)-1]
}
