package model

// Regime is the market sentiment state.
type Regime int

const (
	RegimeNormal Regime = iota
	RegimeBull
	RegimeBear
)

func (r Regime) String() string {
	switch r {
	case RegimeBull:
		return "BULL"
	case RegimeBear:
		return "BEAR"
	default:
		return "NORMAL"
	}
}
