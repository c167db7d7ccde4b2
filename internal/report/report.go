// Package report renders end-of-run summaries for the console.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"PolnSim/internal/calculator"
	"PolnSim/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	ruleStyle  = lipgloss.NewStyle().Faint(true)
)

func tokens(v float64) string {
	return humanize.CommafWithDigits(v, 2) + " tokens"
}

// FormatSummary formats the interpretation block for one horizon.
func FormatSummary(years int, res *model.Result) string {
	var b strings.Builder
	final := res.Final()

	b.WriteString(titleStyle.Render(fmt.Sprintf("--- Interpretation after %d years ---", years)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Final Token Price: $%s\n", humanize.CommafWithDigits(final.TokenPrice, 4)))
	b.WriteString(fmt.Sprintf("Final Circulating Supply: %s\n", tokens(final.CirculatingSupply)))
	b.WriteString(fmt.Sprintf("Total Tokens Burnt: %s\n", tokens(final.TotalBurntTokens)))
	b.WriteString(fmt.Sprintf("DAO Treasury Balance: %s\n", tokens(final.DAOTreasury)))
	writePriceStats(&b, res.Records)

	if res.Variant == "extended" {
		var paid float64
		halvedAt := 0
		for _, r := range res.Records {
			paid += r.RewardsPaid
			if halvedAt == 0 && r.HalvingIndex > 0 {
				halvedAt = r.Month
			}
		}
		b.WriteString(fmt.Sprintf("Halvings: %d (reward per mission %s)\n",
			final.HalvingIndex, humanize.CommafWithDigits(final.RewardPerMission, 2)))
		if halvedAt > 0 {
			b.WriteString(fmt.Sprintf("First Halving: month %d\n", halvedAt))
		}
		b.WriteString(fmt.Sprintf("Initiator Rewards Paid: %s\n", tokens(paid)))
		b.WriteString(fmt.Sprintf("Initiator Rewards Pool: %s\n", tokens(final.InitiatorRewardsPool)))
	}

	if bull, bear := regimeMonths(res.Records); bull+bear > 0 {
		b.WriteString(fmt.Sprintf("Regime Months: %d bull, %d bear\n", bull, bear))
	}

	b.WriteString(ruleStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")
	return b.String()
}

func writePriceStats(b *strings.Builder, records []model.MonthlyRecord) {
	prices := calculator.Prices(records)
	high, low, err := calculator.CalculateRange(prices, 0)
	if err != nil {
		return
	}
	b.WriteString(fmt.Sprintf("Price Range: $%s to $%s (max drawdown %.1f%%)\n",
		humanize.CommafWithDigits(low, 4), humanize.CommafWithDigits(high, 4),
		calculator.CalculateMaxDrawdown(prices)*100))
	if ma, err := calculator.CalculateYearlyMA(records); err == nil {
		b.WriteString(fmt.Sprintf("12-Month Avg Price: $%s\n", humanize.CommafWithDigits(ma, 4)))
	}
	if len(prices) > 14 {
		rsi, _ := calculator.CalculateRSI(prices, 14)
		b.WriteString(fmt.Sprintf("Monthly RSI(14): %.0f\n", rsi))
	}
}

func regimeMonths(records []model.MonthlyRecord) (bull, bear int) {
	for _, r := range records {
		switch r.Regime {
		case model.RegimeBull.String():
			bull++
		case model.RegimeBear.String():
			bear++
		}
	}
	return bull, bear
}
