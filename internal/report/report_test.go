package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"PolnSim/internal/model"
)

func rising(n int) []model.MonthlyRecord {
	recs := make([]model.MonthlyRecord, n)
	for i := range recs {
		recs[i] = model.MonthlyRecord{Month: i + 1, TokenPrice: float64(i + 1)}
	}
	return recs
}

func TestFormatSummary(t *testing.T) {
	tests := []struct {
		name    string
		res     *model.Result
		want    []string
		notWant []string
	}{
		{
			name: "simple",
			res: &model.Result{Variant: "simple", Records: []model.MonthlyRecord{
				{Month: 1, TokenPrice: 0.05, Regime: "NORMAL"},
				{Month: 2, TokenPrice: 0.0625, CirculatingSupply: 123456789.5, TotalBurntTokens: 1500, DAOTreasury: 250000000, Regime: "NORMAL"},
			}},
			want: []string{
				"Interpretation after 5 years",
				"Final Token Price: $0.0625",
				"Final Circulating Supply: 123,456,789.5 tokens",
				"Total Tokens Burnt: 1,500 tokens",
				"DAO Treasury Balance: 250,000,000 tokens",
				"Price Range: $0.05 to $0.0625 (max drawdown 0.0%)",
			},
			notWant: []string{"Halvings", "Regime Months", "12-Month Avg Price", "RSI"},
		},
		{
			name: "extended",
			res: &model.Result{Variant: "extended", Records: []model.MonthlyRecord{
				{Month: 1, RewardsPaid: 100, RewardPerMission: 20, Regime: "BULL"},
				{Month: 2, RewardsPaid: 50, RewardPerMission: 10, HalvingIndex: 1, Regime: "BEAR"},
				{Month: 3, RewardsPaid: 50, RewardPerMission: 10, HalvingIndex: 1, InitiatorRewardsPool: 800, Regime: "BEAR"},
			}},
			want: []string{
				"Halvings: 1 (reward per mission 10)",
				"First Halving: month 2",
				"Initiator Rewards Paid: 200 tokens",
				"Initiator Rewards Pool: 800 tokens",
				"Regime Months: 1 bull, 2 bear",
			},
		},
		{
			name:    "empty run",
			res:     &model.Result{Variant: "simple"},
			want:    []string{"Final Token Price: $0", "Total Tokens Burnt: 0 tokens"},
			notWant: []string{"Price Range"},
		},
		{
			name: "long run",
			res:  &model.Result{Variant: "simple", Records: rising(24)},
			want: []string{
				"Price Range: $1 to $24 (max drawdown 0.0%)",
				"12-Month Avg Price: $18.5",
				"Monthly RSI(14): 100",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatSummary(5, tt.res)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, got, w)
			}
			assert.True(t, strings.HasSuffix(got, "\n"))
		})
	}
}
