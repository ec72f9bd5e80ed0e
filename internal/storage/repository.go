package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotConfigured indicates the storage pool was not initialised.
	ErrNotConfigured = errors.New("storage: pool not configured")
)

const (
	createForecastsSQL = `CREATE TABLE IF NOT EXISTS forecasts (
        id                  TEXT PRIMARY KEY,
        run_id              UUID NOT NULL,
        forecast_date       DATE NOT NULL,
        competition         TEXT NOT NULL,
        league              TEXT NOT NULL,
        teams               TEXT NOT NULL,
        kickoff             TIMESTAMPTZ NOT NULL,
        predicted_outcome   TEXT NOT NULL,
        odds                NUMERIC NOT NULL,
        implied_probability NUMERIC NOT NULL,
        created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
    );`

	insertForecastSQL = `INSERT INTO forecasts (
        id,
        run_id,
        forecast_date,
        competition,
        league,
        teams,
        kickoff,
        predicted_outcome,
        odds,
        implied_probability
    ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
    )
    ON CONFLICT (id) DO NOTHING;`

	listRecentForecastsSQL = `SELECT
        id,
        run_id,
        forecast_date,
        competition,
        league,
        teams,
        kickoff,
        predicted_outcome,
        odds::text,
        implied_probability::text,
        created_at
    FROM forecasts
    ORDER BY forecast_date DESC, id
    LIMIT $1;`

	countForecastsSQL = `SELECT COUNT(*) FROM forecasts;`

	tryAdvisoryLockSQL = `SELECT pg_try_advisory_lock($1);`
	advisoryUnlockSQL  = `SELECT pg_advisory_unlock($1);`
)

// ForecastStore defines the forecast mirror operations.
type ForecastStore interface {
	InsertForecast(ctx context.Context, row ForecastRow) (bool, error)
	ListRecentForecasts(ctx context.Context, limit int) ([]ForecastRow, error)
	CountForecasts(ctx context.Context) (int64, error)
}

// AdvisoryLocker exposes advisory lock helpers.
type AdvisoryLocker interface {
	TryAdvisoryLock(ctx context.Context, key int64) (unlock func(), acquired bool, err error)
}

// Store is the PostgreSQL-backed forecast mirror.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wires a pgx pool into a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

func (s *Store) getPool() (*pgxpool.Pool, error) {
	if s == nil || s.pool == nil {
		return nil, ErrNotConfigured
	}
	return s.pool, nil
}

// EnsureSchema creates the forecasts table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	pool, err := s.getPool()
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, createForecastsSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// TryAdvisoryLock attempts to acquire a postgres advisory lock and returns a release func.
func (s *Store) TryAdvisoryLock(ctx context.Context, key int64) (func(), bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, false, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("acquire connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRow(ctx, tryAdvisoryLockSQL, key).Scan(&acquired); err != nil {
		conn.Release()
		return nil, false, fmt.Errorf("try advisory lock: %w", err)
	}
	if !acquired {
		conn.Release()
		return nil, false, nil
	}

	unlock := func() {
		ctxUnlock, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = conn.Exec(ctxUnlock, advisoryUnlockSQL, key)
		conn.Release()
	}
	return unlock, true, nil
}

// InsertForecast mirrors a forecast. Existing identities are left untouched;
// the boolean reports whether a row was written.
func (s *Store) InsertForecast(ctx context.Context, row ForecastRow) (bool, error) {
	pool, err := s.getPool()
	if err != nil {
		return false, err
	}

	tag, execErr := pool.Exec(ctx, insertForecastSQL,
		row.ID,
		row.RunID,
		row.ForecastDate,
		row.Competition,
		row.League,
		row.Teams,
		row.Kickoff,
		row.Outcome,
		row.Odds.String(),
		row.ImpliedProbability.String(),
	)
	if execErr != nil {
		return false, fmt.Errorf("insert forecast: %w", execErr)
	}
	return tag.RowsAffected() > 0, nil
}

// ListRecentForecasts lists the newest mirrored forecasts.
func (s *Store) ListRecentForecasts(ctx context.Context, limit int) ([]ForecastRow, error) {
	pool, err := s.getPool()
	if err != nil {
		return nil, err
	}

	rows, queryErr := pool.Query(ctx, listRecentForecastsSQL, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list recent forecasts: %w", queryErr)
	}
	defer rows.Close()

	out := make([]ForecastRow, 0, limit)
	for rows.Next() {
		row, scanErr := scanForecast(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, row)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

// CountForecasts counts mirrored forecasts.
func (s *Store) CountForecasts(ctx context.Context) (int64, error) {
	pool, err := s.getPool()
	if err != nil {
		return 0, err
	}
	var count int64
	if scanErr := pool.QueryRow(ctx, countForecastsSQL).Scan(&count); scanErr != nil {
		return 0, fmt.Errorf("count forecasts: %w", scanErr)
	}
	return count, nil
}

func scanForecast(rows pgx.Rows) (ForecastRow, error) {
	var (
		row        ForecastRow
		oddsStr    string
		impliedStr string
	)

	if err := rows.Scan(
		&row.ID,
		&row.RunID,
		&row.ForecastDate,
		&row.Competition,
		&row.League,
		&row.Teams,
		&row.Kickoff,
		&row.Outcome,
		&oddsStr,
		&impliedStr,
		&row.CreatedAt,
	); err != nil {
		return ForecastRow{}, err
	}

	var err error
	row.Odds, err = decimal.NewFromString(oddsStr)
	if err != nil {
		return ForecastRow{}, fmt.Errorf("parse odds: %w", err)
	}
	row.ImpliedProbability, err = decimal.NewFromString(impliedStr)
	if err != nil {
		return ForecastRow{}, fmt.Errorf("parse implied probability: %w", err)
	}
	return row, nil
}

var (
	_ ForecastStore  = (*Store)(nil)
	_ AdvisoryLocker = (*Store)(nil)
)
