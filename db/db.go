package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/docutag/analyzer/models"
)

var (
	// ErrNotFound is returned when no report has the requested ID
	ErrNotFound = errors.New("report not found")

	// ErrCorruptReport is returned when a stored row cannot be decoded
	ErrCorruptReport = errors.New("stored report is corrupt")
)

// DB wraps the database connection and provides report access methods
type DB struct {
	conn   *sql.DB
	logger *slog.Logger
}

// Config contains database configuration
type Config struct {
	DSN    string // PostgreSQL connection string
	Logger *slog.Logger
}

// New opens a connection, configures the pool and applies migrations
func New(config Config) (*DB, error) {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := sql.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	if err := Migrate(conn, logger); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DB{conn: conn, logger: logger}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// DB returns the underlying database connection for metrics collection
func (db *DB) DB() *sql.DB {
	return db.conn
}

// SaveReport stores a report, replacing any earlier report with the same ID.
// archiveKey may be empty when no archive is configured.
func (db *DB) SaveReport(ctx context.Context, report *models.BiasReport, archiveKey string) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO analyzer_reports (id, data, overall_bias_score, word_count, archive_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT(id) DO UPDATE SET
			data = excluded.data,
			overall_bias_score = excluded.overall_bias_score,
			word_count = excluded.word_count,
			archive_key = excluded.archive_key
	`

	_, err = db.conn.ExecContext(ctx, query,
		report.TextID,
		string(data),
		report.OverallBiasScore,
		report.WordCount,
		nullString(archiveKey),
		report.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

// GetReport retrieves a report by ID
func (db *DB) GetReport(ctx context.Context, id string) (*models.BiasReport, error) {
	var data string
	err := db.conn.QueryRowContext(ctx, "SELECT data FROM analyzer_reports WHERE id = $1", id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report models.BiasReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptReport, err)
	}
	return &report, nil
}

// ArchiveKey returns the archive key recorded for a report, or "" when the
// report was not archived
func (db *DB) ArchiveKey(ctx context.Context, id string) (string, error) {
	var archiveKey sql.NullString
	err := db.conn.QueryRowContext(ctx,
		"SELECT archive_key FROM analyzer_reports WHERE id = $1", id,
	).Scan(&archiveKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query archive key: %w", err)
	}
	return archiveKey.String, nil
}

// ListReports returns report summaries, newest first
func (db *DB) ListReports(ctx context.Context, limit, offset int) ([]models.ReportSummary, error) {
	query := `
		SELECT id, overall_bias_score, word_count, COALESCE(archive_key, ''), created_at
		FROM analyzer_reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	results := []models.ReportSummary{}
	for rows.Next() {
		var s models.ReportSummary
		if err := rows.Scan(&s.TextID, &s.OverallBiasScore, &s.WordCount, &s.ArchiveKey, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// CountReports returns the number of stored reports
func (db *DB) CountReports(ctx context.Context) (int, error) {
	var count int
	if err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM analyzer_reports").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// DeleteReport removes a report and returns its archive key, if any
func (db *DB) DeleteReport(ctx context.Context, id string) (string, error) {
	var archiveKey sql.NullString
	err := db.conn.QueryRowContext(ctx,
		"DELETE FROM analyzer_reports WHERE id = $1 RETURNING archive_key", id,
	).Scan(&archiveKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete report: %w", err)
	}

	db.logger.Info("report deleted", "id", id)
	return archiveKey.String, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
