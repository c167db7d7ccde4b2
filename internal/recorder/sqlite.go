package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"PolnSim/internal/model"
)

// SQLiteRecorder persists runs and their monthly records to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so dashboards can read while a batch writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id            TEXT PRIMARY KEY,
			finished_at   INTEGER NOT NULL,
			variant       TEXT,
			years         INTEGER,
			months        INTEGER,
			seed          INTEGER,
			final_price   REAL,
			circulating   REAL,
			total_supply  REAL,
			total_burnt   REAL,
			dao_treasury  REAL,
			halving_index INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_finished ON runs(finished_at)`,

		`CREATE TABLE IF NOT EXISTS monthly_records (
			run_id                 TEXT NOT NULL,
			month                  INTEGER NOT NULL,
			circulating_supply     REAL,
			total_supply           REAL,
			token_price            REAL,
			tokens_staked          REAL,
			tokens_burnt           REAL,
			tokens_fee_distributed REAL,
			tokens_fee_to_dao      REAL,
			dao_treasury           REAL,
			total_burnt_tokens     REAL,
			sentiment              REAL,
			regime                 TEXT,
			net_token_demand       REAL,
			mission_count          INTEGER,
			new_missions           INTEGER,
			ongoing_missions       INTEGER,
			num_successful         INTEGER,
			num_failed             INTEGER,
			initiator_pool         REAL,
			reward_per_mission     REAL,
			halving_index          INTEGER,
			rewards_paid           REAL,
			PRIMARY KEY (run_id, month)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(run *RunSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs
		(id, finished_at, variant, years, months, seed,
		 final_price, circulating, total_supply, total_burnt, dao_treasury, halving_index)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, run.FinishedAt.Unix(), run.Variant, run.Years, run.Months, int64(run.Seed),
		run.FinalPrice, run.Circulating, run.TotalSupply, run.TotalBurnt, run.DAOTreasury, run.HalvingIndex,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	return nil
}

// RecordMonths inserts every record in one transaction.
func (r *SQLiteRecorder) RecordMonths(runID string, records []model.MonthlyRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO monthly_records
		(run_id, month, circulating_supply, total_supply, token_price,
		 tokens_staked, tokens_burnt, tokens_fee_distributed, tokens_fee_to_dao,
		 dao_treasury, total_burnt_tokens, sentiment, regime, net_token_demand,
		 mission_count, new_missions, ongoing_missions, num_successful, num_failed,
		 initiator_pool, reward_per_mission, halving_index, rewards_paid)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, m := range records {
		if _, err := stmt.Exec(runID, m.Month, m.CirculatingSupply, m.TotalSupply, m.TokenPrice,
			m.TokensStaked, m.TokensBurnt, m.TokensFeeDistributed, m.TokensFeeToDAO,
			m.DAOTreasury, m.TotalBurntTokens, m.SentimentValue, m.Regime, m.NetTokenDemand,
			m.MissionCount, m.NewMissions, m.OngoingMissions, m.NumSuccessful, m.NumFailed,
			m.InitiatorRewardsPool, m.RewardPerMission, m.HalvingIndex, m.RewardsPaid,
		); err != nil {
			return fmt.Errorf("insert month %d: %w", m.Month, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.logger.Debug("months recorded", zap.String("run_id", runID), zap.Int("count", len(records)))
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
