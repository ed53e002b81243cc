// Package snapshots persists point-in-time market statistics to Postgres.
package snapshots

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"property-search/internal/common/logger"
	"property-search/internal/models"
)

var (
	ErrStoreFailed   = errors.New("snapshot store failed")
	ErrSchemaMissing = errors.New("snapshot table missing")
)

const DefaultListLimit = 20

const createTable = `CREATE TABLE IF NOT EXISTS market_snapshots (
	id BIGSERIAL PRIMARY KEY,
	location TEXT NOT NULL,
	property_type TEXT NOT NULL DEFAULT '',
	total_properties BIGINT NOT NULL,
	average_price DOUBLE PRECISION NOT NULL,
	min_price DOUBLE PRECISION NOT NULL,
	max_price DOUBLE PRECISION NOT NULL,
	statistics JSONB NOT NULL,
	captured_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

const createIndex = `CREATE INDEX IF NOT EXISTS market_snapshots_location_idx
	ON market_snapshots (location, captured_at DESC)`

const insertSnapshot = `INSERT INTO market_snapshots
	(location, property_type, total_properties, average_price, min_price, max_price, statistics)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, captured_at`

const selectRecent = `SELECT id, location, property_type, total_properties, average_price, min_price, max_price, statistics, captured_at
	FROM market_snapshots
	WHERE location = $1
	ORDER BY captured_at DESC
	LIMIT $2`

// undefined_table
const pqUndefinedTable = "42P01"

type Repository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewRepository(db *sql.DB, log logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// EnsureSchema creates the snapshot table and its index if they are missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createTable, createIndex} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return r.wrap("ensure schema", err)
		}
	}
	return nil
}

// Record stores the statistics currently reported for location.
func (r *Repository) Record(ctx context.Context, location, propertyType string, stats *models.PropertyStatistics) (*models.MarketSnapshot, error) {
	summary := stats.Statistics
	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("marshal statistics: %w", err)
	}

	snap := &models.MarketSnapshot{
		Location:        location,
		PropertyType:    propertyType,
		TotalProperties: summary.TotalProperties,
		AveragePrice:    summary.PriceStatistics.Avg,
		MinPrice:        summary.PriceStatistics.Min,
		MaxPrice:        summary.PriceStatistics.Max,
		Statistics:      summary,
	}

	err = r.db.QueryRowContext(ctx, insertSnapshot,
		snap.Location, snap.PropertyType, snap.TotalProperties,
		snap.AveragePrice, snap.MinPrice, snap.MaxPrice, payload,
	).Scan(&snap.ID, &snap.CapturedAt)
	if err != nil {
		return nil, r.wrap("record snapshot", err)
	}

	r.logger.Debug("market snapshot recorded", map[string]interface{}{
		"id":       snap.ID,
		"location": location,
		"total":    snap.TotalProperties,
	})
	return snap, nil
}

// Recent lists the newest snapshots for location, newest first.
func (r *Repository) Recent(ctx context.Context, location string, limit int) ([]models.MarketSnapshot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, selectRecent, location, limit)
	if err != nil {
		return nil, r.wrap("list snapshots", err)
	}
	defer rows.Close()

	out := []models.MarketSnapshot{}
	for rows.Next() {
		var (
			s       models.MarketSnapshot
			payload []byte
		)
		if err := rows.Scan(&s.ID, &s.Location, &s.PropertyType, &s.TotalProperties,
			&s.AveragePrice, &s.MinPrice, &s.MaxPrice, &payload, &s.CapturedAt); err != nil {
			return nil, r.wrap("scan snapshot", err)
		}
		if err := json.Unmarshal(payload, &s.Statistics); err != nil {
			return nil, fmt.Errorf("%w: snapshot %d: %v", ErrStoreFailed, s.ID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, r.wrap("iterate snapshots", err)
	}
	return out, nil
}

func (r *Repository) wrap(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUndefinedTable {
		return fmt.Errorf("%w: %s: %w", ErrSchemaMissing, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrStoreFailed, op, err)
}
