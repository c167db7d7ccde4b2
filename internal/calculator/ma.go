// Package calculator derives price statistics from a simulated price path.
package calculator

import (
	"errors"

	"PolnSim/internal/model"
)

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// CalculateYearlyMA returns the trailing 12-month average token price.
func CalculateYearlyMA(records []model.MonthlyRecord) (float64, error) {
	return CalculateSMA(Prices(records), 12)
}

// Prices extracts the end-of-month token price series.
func Prices(records []model.MonthlyRecord) []float64 {
	prices := make([]float64, len(records))
	for i, r := range records {
		prices[i] = r.TokenPrice
	}
	return prices
}
