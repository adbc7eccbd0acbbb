/*
Package sqlite provides SQLite-backed persistence for the payoff planner.

PURPOSE:
  Persists the caller-maintained liability records and the history of
  computed plan runs. The scheduling engine itself never touches this
  package - it receives snapshots and returns schedules; persistence is
  strictly a collaborator around it.

KEY TABLES:
  liabilities:  The current debt list (balance, APR, minimum payment)
  plan_runs:    One row per computed schedule, with headline numbers in
                columns and the full result as JSON for replay/inspection

MONEY COLUMNS:
  Currency amounts and APRs are stored as TEXT decimal strings, never
  REAL - the planner's money type is exact decimal and the store must
  round-trip it losslessly.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened in WAL mode so
  readers do not block each other.

USAGE:
  store, err := sqlite.New("./data/payoff.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payoff-engine/engine"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store implements liability and plan-run persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Current debt list (caller-maintained snapshots)
	CREATE TABLE IF NOT EXISTS liabilities (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		balance TEXT NOT NULL,
		apr TEXT NOT NULL,
		minimum_payment TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- One row per computed schedule
	CREATE TABLE IF NOT EXISTS plan_runs (
		id TEXT PRIMARY KEY,
		strategy TEXT NOT NULL,
		payment_mode TEXT NOT NULL,
		surplus TEXT NOT NULL,
		start_date TEXT NOT NULL,
		termination TEXT NOT NULL,
		periods INTEGER NOT NULL,
		payoff_period INTEGER,
		total_interest TEXT NOT NULL,
		result_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plan_runs_created_at
		ON plan_runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_plan_runs_strategy
		ON plan_runs(strategy);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LIABILITIES
// =============================================================================

// SaveLiability inserts or updates one liability record.
func (s *Store) SaveLiability(ctx context.Context, rec engine.LiabilityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO liabilities (id, name, balance, apr, minimum_payment, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			balance = excluded.balance,
			apr = excluded.apr,
			minimum_payment = excluded.minimum_payment,
			updated_at = excluded.updated_at`,
		string(rec.ID), rec.Name, rec.Balance.String(), rec.APR.String(),
		rec.MinimumPayment.String(), now, now)
	if err != nil {
		return fmt.Errorf("failed to save liability: %w", err)
	}
	return nil
}

// GetLiability returns one liability by id.
func (s *Store) GetLiability(ctx context.Context, id engine.LiabilityID) (engine.LiabilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, balance, apr, minimum_payment
		FROM liabilities WHERE id = ?`, string(id))
	return scanLiability(row)
}

// ListLiabilities returns all liability records ordered by id.
func (s *Store) ListLiabilities(ctx context.Context) ([]engine.LiabilityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, balance, apr, minimum_payment
		FROM liabilities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list liabilities: %w", err)
	}
	defer rows.Close()

	var records []engine.LiabilityRecord
	for rows.Next() {
		rec, err := scanLiability(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteLiability removes one liability by id.
func (s *Store) DeleteLiability(ctx context.Context, id engine.LiabilityID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM liabilities WHERE id = ?`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete liability: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanLiability(row scannable) (engine.LiabilityRecord, error) {
	var id, name, balance, apr, minimum string
	if err := row.Scan(&id, &name, &balance, &apr, &minimum); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return engine.LiabilityRecord{}, ErrNotFound
		}
		return engine.LiabilityRecord{}, fmt.Errorf("failed to scan liability: %w", err)
	}

	aprDec, err := decimal.NewFromString(apr)
	if err != nil {
		return engine.LiabilityRecord{}, fmt.Errorf("corrupt apr for %s: %w", id, err)
	}
	return engine.LiabilityRecord{
		ID:             engine.LiabilityID(id),
		Name:           name,
		Balance:        engine.MustParseMoney(balance),
		APR:            aprDec,
		MinimumPayment: engine.MustParseMoney(minimum),
	}, nil
}

// =============================================================================
// PLAN RUNS
// =============================================================================

// PlanRunRecord is one persisted schedule computation.
type PlanRunRecord struct {
	ID            string
	Strategy      string
	PaymentMode   string
	Surplus       string
	StartDate     time.Time
	Termination   string
	Periods       int
	PayoffPeriod  *int
	TotalInterest string
	ResultJSON    string
	CreatedAt     time.Time
}

// SavePlanRun persists one computed schedule. Runs are keyed by request
// fingerprint, so re-saving an identical run is a no-op.
func (s *Store) SavePlanRun(ctx context.Context, rec PlanRunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO plan_runs
			(id, strategy, payment_mode, surplus, start_date, termination,
			 periods, payoff_period, total_interest, result_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
		rec.ID, rec.Strategy, rec.PaymentMode, rec.Surplus,
		rec.StartDate.UTC().Format(time.RFC3339), rec.Termination,
		rec.Periods, rec.PayoffPeriod, rec.TotalInterest, rec.ResultJSON,
		created.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save plan run: %w", err)
	}
	return nil
}

// GetPlanRun returns one plan run by id.
func (s *Store) GetPlanRun(ctx context.Context, id string) (PlanRunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, strategy, payment_mode, surplus, start_date, termination,
		       periods, payoff_period, total_interest, result_json, created_at
		FROM plan_runs WHERE id = ?`, id)
	return scanPlanRun(row)
}

// ListPlanRuns returns the most recent plan runs, newest first.
func (s *Store) ListPlanRuns(ctx context.Context, limit int) ([]PlanRunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, strategy, payment_mode, surplus, start_date, termination,
		       periods, payoff_period, total_interest, result_json, created_at
		FROM plan_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan runs: %w", err)
	}
	defer rows.Close()

	var records []PlanRunRecord
	for rows.Next() {
		rec, err := scanPlanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanPlanRun(row scannable) (PlanRunRecord, error) {
	var rec PlanRunRecord
	var startDate, createdAt string
	err := row.Scan(&rec.ID, &rec.Strategy, &rec.PaymentMode, &rec.Surplus,
		&startDate, &rec.Termination, &rec.Periods, &rec.PayoffPeriod,
		&rec.TotalInterest, &rec.ResultJSON, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PlanRunRecord{}, ErrNotFound
		}
		return PlanRunRecord{}, fmt.Errorf("failed to scan plan run: %w", err)
	}

	rec.StartDate, _ = time.Parse(time.RFC3339, startDate)
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return rec, nil
}
