// Package pricing updates the token price from net demand and sentiment.
package pricing

// DefaultCap bounds the monthly relative price change in the base model.
const DefaultCap = 0.1

// ExtendedCap is the bound used by the halving model.
const ExtendedCap = 0.2

// Change returns the relative price change for the month:
// clamp(pec * netDemand/circulating * sentiment, -limit, +limit).
// It is zero when there is no circulating supply or no net demand.
func Change(netDemand, circulating, sentiment, pec, limit float64) float64 {
	if circulating <= 0 || netDemand == 0 {
		return 0
	}
	ratio := netDemand / circulating
	change := pec * ratio * sentiment
	if change > limit {
		change = limit
	}
	if change < -limit {
		change = -limit
	}
	return change
}

// Next applies Change to price.
func Next(price, netDemand, circulating, sentiment, pec, limit float64) float64 {
	return price * (1 + Change(netDemand, circulating, sentiment, pec, limit))
}
