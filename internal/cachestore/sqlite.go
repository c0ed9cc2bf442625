package cachestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/sirupsen/logrus"

	"github.com/gridwatch/goodsections/internal/goodsections"
)

// Compile-time interface compliance check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore persists cache rows in a local SQLite database. The flat
// duplicate-key cache shape maps directly onto one SQL row per section;
// insertion order is preserved via rowid.
type SQLiteStore struct {
	log logrus.FieldLogger
	cfg Config
	db  *sql.DB
}

// NewSQLiteStore creates a SQLite-backed cache store.
func NewSQLiteStore(log logrus.FieldLogger, cfg Config) *SQLiteStore {
	return &SQLiteStore{
		log: log.WithField("component", "cachestore_sqlite"),
		cfg: cfg,
	}
}

// Start opens the database and runs migrations.
func (s *SQLiteStore) Start(ctx context.Context) error {
	db, err := sql.Open("sqlite3", s.cfg.SQLitePath)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()

		return fmt.Errorf("ping sqlite database: %w", err)
	}

	s.db = db

	if err := s.migrate(ctx); err != nil {
		db.Close()

		return err
	}

	s.log.WithField("path", s.cfg.SQLitePath).Info("Cache store started")

	return nil
}

// Stop closes the database.
func (s *SQLiteStore) Stop() error {
	s.log.Info("Cache store stopped")

	if s.db != nil {
		return s.db.Close()
	}

	return nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS section_cache (
			series TEXT NOT NULL,
			chunk_start INTEGER NOT NULL,
			chunk_end INTEGER NOT NULL,
			section_start INTEGER NOT NULL,
			section_end INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS section_cache_by_series ON section_cache(series);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate section_cache: %w", err)
		}
	}

	return nil
}

// SaveRows replaces the cached rows for a series in one transaction.
func (s *SQLiteStore) SaveRows(ctx context.Context, series string, rows []goodsections.CacheRow) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save for %s: %w", series, err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit.

	if _, err := tx.ExecContext(ctx, `DELETE FROM section_cache WHERE series = ?`, series); err != nil {
		return fmt.Errorf("clear cache rows for %s: %w", series, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO section_cache (series, chunk_start, chunk_end, section_start, section_end)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare insert for %s: %w", series, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, series, row.ChunkStart, row.End, row.SectionStart, row.SectionEnd); err != nil {
			return fmt.Errorf("insert cache row for %s: %w", series, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save for %s: %w", series, err)
	}

	s.log.WithFields(logrus.Fields{
		"series": series,
		"rows":   len(rows),
	}).Debug("Saved cache rows")

	return nil
}

// LoadRows returns the cached rows for a series in saved order.
func (s *SQLiteStore) LoadRows(ctx context.Context, series string) ([]goodsections.CacheRow, error) {
	result, err := s.db.QueryContext(ctx,
		`SELECT chunk_start, chunk_end, section_start, section_end
		 FROM section_cache WHERE series = ? ORDER BY rowid`,
		series,
	)
	if err != nil {
		return nil, fmt.Errorf("query cache rows for %s: %w", series, err)
	}
	defer result.Close()

	rows := make([]goodsections.CacheRow, 0)

	for result.Next() {
		var row goodsections.CacheRow
		if err := result.Scan(&row.ChunkStart, &row.End, &row.SectionStart, &row.SectionEnd); err != nil {
			return nil, fmt.Errorf("scan cache row for %s: %w", series, err)
		}

		rows = append(rows, row)
	}

	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache rows for %s: %w", series, err)
	}

	return rows, nil
}

// DeleteRows drops the cached rows for a series.
func (s *SQLiteStore) DeleteRows(ctx context.Context, series string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM section_cache WHERE series = ?`, series); err != nil {
		return fmt.Errorf("delete cache rows for %s: %w", series, err)
	}

	return nil
}
