package recorder

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PolnSim/internal/model"
)

func sampleResult() *model.Result {
	return &model.Result{
		Variant: "simple",
		Months:  3,
		Seed:    42,
		Records: []model.MonthlyRecord{
			{Month: 1, TokenPrice: 0.05, CirculatingSupply: 100, Regime: "NORMAL", MissionCount: 10},
			{Month: 2, TokenPrice: 0.051, CirculatingSupply: 110, Regime: "BULL", MissionCount: 11},
			{Month: 3, TokenPrice: 0.052, CirculatingSupply: 120, Regime: "BEAR", MissionCount: 12, TotalBurntTokens: 7},
		},
	}
}

func TestNewRunSummary(t *testing.T) {
	s := NewRunSummary(5, sampleResult())
	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Years)
	assert.Equal(t, 0.052, s.FinalPrice)
	assert.Equal(t, 7.0, s.TotalBurnt)
	assert.NotEqual(t, s.ID, NewRunSummary(5, sampleResult()).ID)
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sim.db")
	r, err := NewSQLiteRecorder(path, nil)
	require.NoError(t, err)
	defer r.Close()

	res := sampleResult()
	run := NewRunSummary(1, res)
	require.NoError(t, r.RecordRun(run))
	require.NoError(t, r.RecordMonths(run.ID, res.Records))

	var variant string
	var seed int64
	require.NoError(t, r.db.QueryRow(`SELECT variant, seed FROM runs WHERE id = ?`, run.ID).Scan(&variant, &seed))
	assert.Equal(t, "simple", variant)
	assert.Equal(t, int64(42), seed)

	var n int
	var last float64
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*), MAX(token_price) FROM monthly_records WHERE run_id = ?`, run.ID).Scan(&n, &last))
	assert.Equal(t, 3, n)
	assert.Equal(t, 0.052, last)

	var regime string
	require.NoError(t, r.db.QueryRow(`SELECT regime FROM monthly_records WHERE run_id = ? AND month = 2`, run.ID).Scan(&regime))
	assert.Equal(t, "BULL", regime)
}

func TestSQLiteRecorder_DuplicateMonthsRollBack(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "sim.db"), nil)
	require.NoError(t, err)
	defer r.Close()

	recs := sampleResult().Records
	recs = append(recs, recs[0])
	require.Error(t, r.RecordMonths("run-1", recs))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM monthly_records`).Scan(&n))
	assert.Zero(t, n)
}

func TestRecorders_SatisfyInterface(t *testing.T) {
	var _ Recorder = (*SQLiteRecorder)(nil)
	var rec Recorder = NewNoopRecorder()
	assert.NoError(t, rec.RecordRun(NewRunSummary(1, sampleResult())))
	assert.NoError(t, rec.RecordMonths("x", nil))
	assert.NoError(t, rec.Close())
}
