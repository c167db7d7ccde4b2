package calculator

import (
	"errors"
	"math"
)

// CalculateRange returns the high and low over the most recent window prices.
// A window of zero or less scans the whole series.
func CalculateRange(prices []float64, window int) (high, low float64, err error) {
	if len(prices) == 0 {
		return 0, 0, errors.New("no prices provided")
	}
	n := len(prices)
	start := 0
	if window > 0 && n > window {
		start = n - window
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		high = math.Max(high, prices[i])
		low = math.Min(low, prices[i])
	}
	return high, low, nil
}

// CalculatePosition returns where current sits within [low, high] (0.0~1.0).
func CalculatePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	return math.Min(math.Max(pos, 0), 1), nil
}

// CalculateMaxDrawdown returns the largest peak-to-trough decline as a
// fraction of the peak.
func CalculateMaxDrawdown(prices []float64) float64 {
	peak, worst := 0.0, 0.0
	for _, p := range prices {
		if p > peak {
			peak = p
			continue
		}
		if peak > 0 {
			worst = math.Max(worst, (peak-p)/peak)
		}
	}
	return worst
}
