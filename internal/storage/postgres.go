package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/arb-intel/engine/internal/model"
)

// PostgresStorage implements Storage using PostgreSQL. Each scan is
// appended as one row; opportunities are stored as a JSON array so the
// schema does not need to change as Opportunity fields evolve.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

const createTableSQL = `
CREATE TABLE IF NOT EXISTS scan_results (
	id               SERIAL PRIMARY KEY,
	scanned_at       TIMESTAMPTZ NOT NULL,
	markets_scanned  INTEGER NOT NULL,
	scan_duration_ms BIGINT NOT NULL,
	opportunity_count INTEGER NOT NULL,
	opportunities    JSONB NOT NULL
)`

// NewPostgresStorage opens a connection and ensures the scan_results table
// exists.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec(createTableSQL); err != nil {
		return nil, fmt.Errorf("create scan_results table: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{db: db, logger: cfg.Logger}, nil
}

// StoreScanResult inserts one row per scan, JSON-encoding the opportunity
// list.
func (p *PostgresStorage) StoreScanResult(ctx context.Context, result *model.ScanResult) error {
	payload, err := json.Marshal(result.Opportunities)
	if err != nil {
		return fmt.Errorf("marshal opportunities: %w", err)
	}

	const query = `
		INSERT INTO scan_results (
			scanned_at, markets_scanned, scan_duration_ms, opportunity_count, opportunities
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err = p.db.ExecContext(ctx, query,
		result.Timestamp,
		result.MarketsScanned,
		result.ScanDurationMS,
		len(result.Opportunities),
		payload,
	)
	if err != nil {
		return fmt.Errorf("insert scan result: %w", err)
	}

	p.logger.Debug("scan-result-stored",
		zap.Time("scanned-at", result.Timestamp),
		zap.Int("opportunity-count", len(result.Opportunities)))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
