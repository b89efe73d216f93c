// Package sqlite persists canonical trades in an embedded SQLite database,
// partitioned by dataset tag. Re-imports replace a whole partition; rows are
// never patched in place.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"forex-journal/internal/logger"
	"forex-journal/internal/types"
)

// insertChunkDefault keeps single statements within SQLite's bound-parameter
// limit; it is statement-size hygiene, not a concurrency knob.
const insertChunkDefault = 100

// Repository implements trade persistence over database/sql.
type Repository struct {
	db    *sql.DB
	chunk int
}

// Config holds repository settings.
type Config struct {
	DBPath      string
	InsertChunk int
}

// NewRepository opens (and if necessary creates) the database and its schema.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/journal.db"
	}
	chunk := cfg.InsertChunk
	if chunk <= 0 {
		chunk = insertChunkDefault
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data directory %q: %w", filepath.Dir(dbPath), err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", dbPath, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %q: %w", dbPath, err)
	}

	// The Go driver benefits from a single connection; SQLite serializes
	// writers anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, chunk: chunk}
	if err := repo.initializeSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	logger.Info(ctx, "Trade store ready", "path", dbPath)
	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		dataset TEXT NOT NULL DEFAULT '',
		ticket TEXT NOT NULL DEFAULT '',
		symbol TEXT NOT NULL,
		side TEXT NOT NULL,
		lots REAL NOT NULL DEFAULT 0,
		open_time TEXT NOT NULL DEFAULT '',
		open_price REAL NOT NULL DEFAULT 0,
		close_time TEXT NOT NULL,
		close_price REAL NOT NULL DEFAULT 0,
		stop_price REAL NOT NULL DEFAULT 0,
		target_price REAL NOT NULL DEFAULT 0,
		commission REAL NOT NULL DEFAULT 0,
		swap REAL NOT NULL DEFAULT 0,
		profit REAL NOT NULL DEFAULT 0,
		pips REAL NOT NULL DEFAULT 0,
		hold_min INTEGER NOT NULL DEFAULT 0,
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_trades_dataset_close_time ON trades (dataset, close_time);
	CREATE INDEX IF NOT EXISTS idx_trades_dataset_symbol ON trades (dataset, symbol);
	`
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// ReplaceDataset deletes the partition and inserts the given trades in chunks,
// all inside one transaction: a failure on any chunk rolls back the whole
// import, so a partition is never left half-replaced.
func (r *Repository) ReplaceDataset(ctx context.Context, dataset string, trades []types.Trade) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM trades WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("clear dataset %q: %w", dataset, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades (
			id, dataset, ticket, symbol, side, lots,
			open_time, open_price, close_time, close_price,
			stop_price, target_price, commission, swap, profit, pips,
			hold_min, comment
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for start := 0; start < len(trades); start += r.chunk {
		end := start + r.chunk
		if end > len(trades) {
			end = len(trades)
		}
		for _, t := range trades[start:end] {
			if _, err = stmt.ExecContext(ctx,
				t.ID, dataset, t.Ticket, t.Symbol, string(t.Side), t.Lots,
				t.OpenTime, t.OpenPrice, t.CloseTime, t.ClosePrice,
				t.StopPrice, t.TargetPrice, t.Commission, t.Swap, t.Profit, t.Pips,
				t.HoldMin, t.Comment,
			); err != nil {
				return fmt.Errorf("insert trade %q: %w", t.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	logger.Info(ctx, "Dataset replaced", "dataset", dataset, "trades", len(trades))
	return nil
}

// ListTrades returns a dataset partition ordered by close time ascending,
// ties by insertion order.
func (r *Repository) ListTrades(ctx context.Context, dataset string) ([]types.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, dataset, ticket, symbol, side, lots,
		       open_time, open_price, close_time, close_price,
		       stop_price, target_price, commission, swap, profit, pips,
		       hold_min, comment
		FROM trades
		WHERE dataset = ?
		ORDER BY close_time ASC, rowid ASC`, dataset)
	if err != nil {
		return nil, fmt.Errorf("query dataset %q: %w", dataset, err)
	}
	defer rows.Close()

	var out []types.Trade
	for rows.Next() {
		var t types.Trade
		var side string
		if err := rows.Scan(
			&t.ID, &t.Dataset, &t.Ticket, &t.Symbol, &side, &t.Lots,
			&t.OpenTime, &t.OpenPrice, &t.CloseTime, &t.ClosePrice,
			&t.StopPrice, &t.TargetPrice, &t.Commission, &t.Swap, &t.Profit, &t.Pips,
			&t.HoldMin, &t.Comment,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = types.Side(side)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListDatasets enumerates the partitions present with counts and net profit.
func (r *Repository) ListDatasets(ctx context.Context) ([]types.DatasetStats, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT dataset, COUNT(*), COALESCE(SUM(profit), 0)
		FROM trades GROUP BY dataset ORDER BY dataset`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	var out []types.DatasetStats
	for rows.Next() {
		var s types.DatasetStats
		if err := rows.Scan(&s.Dataset, &s.Count, &s.NetPL); err != nil {
			return nil, fmt.Errorf("scan dataset stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteDataset removes a partition outright.
func (r *Repository) DeleteDataset(ctx context.Context, dataset string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trades WHERE dataset = ?`, dataset); err != nil {
		return fmt.Errorf("delete dataset %q: %w", dataset, err)
	}
	return nil
}

// Close closes the underlying database.
func (r *Repository) Close() error {
	return r.db.Close()
}
