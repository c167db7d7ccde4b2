package recorder

import (
	"time"

	"github.com/google/uuid"

	"PolnSim/internal/model"
)

// RunSummary describes one completed simulation run.
type RunSummary struct {
	ID           string
	Variant      string
	Years        int
	Months       int
	Seed         uint64
	FinishedAt   time.Time
	FinalPrice   float64
	Circulating  float64
	TotalSupply  float64
	TotalBurnt   float64
	DAOTreasury  float64
	HalvingIndex int
}

// NewRunSummary builds a summary with a fresh run ID.
func NewRunSummary(years int, res *model.Result) *RunSummary {
	final := res.Final()
	return &RunSummary{
		ID:           uuid.NewString(),
		Variant:      res.Variant,
		Years:        years,
		Months:       res.Months,
		Seed:         res.Seed,
		FinishedAt:   time.Now().UTC(),
		FinalPrice:   final.TokenPrice,
		Circulating:  final.CirculatingSupply,
		TotalSupply:  final.TotalSupply,
		TotalBurnt:   final.TotalBurntTokens,
		DAOTreasury:  final.DAOTreasury,
		HalvingIndex: final.HalvingIndex,
	}
}

// Recorder persists simulation runs for later analysis.
type Recorder interface {
	RecordRun(run *RunSummary) error
	RecordMonths(runID string, records []model.MonthlyRecord) error
	Close() error
}
