// Package cache keeps a bounded local history of overview snapshots in
// sqlite so the dashboard has something to show before the first live
// fetch lands.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
)

// DefaultKeep bounds the history when no limit is configured.
const DefaultKeep = 500

// Store wraps the sqlite history database.
type Store struct {
	db   *sqlx.DB
	keep int
}

// Record is one history row without its full payload.
type Record struct {
	ID        int64
	FetchedAt time.Time
	Stats     domain.DashboardStats
}

type row struct {
	ID              int64   `db:"id"`
	FetchedAt       string  `db:"fetched_at"`
	CurrentUsageKWh float64 `db:"current_usage_kwh"`
	PendingBillETB  float64 `db:"pending_bill_etb"`
	ActiveTickets   int     `db:"active_tickets"`
	Payload         string  `db:"payload"`
}

// Open opens or creates the database at path and keeps at most keep
// snapshots (DefaultKeep when keep <= 0).
func Open(path string, keep int) (*Store, error) {
	if keep <= 0 {
		keep = DefaultKeep
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite allows one writer; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, keep: keep}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		fetched_at TEXT NOT NULL,
		current_usage_kwh REAL NOT NULL,
		pending_bill_etb REAL NOT NULL,
		active_tickets INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_snapshots_fetched_at ON snapshots(fetched_at);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Append records snap and prunes the oldest rows beyond the limit.
func (s *Store) Append(ctx context.Context, snap pages.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	r := row{
		FetchedAt:       snap.FetchedAt.UTC().Format(time.RFC3339Nano),
		CurrentUsageKWh: snap.Stats.CurrentUsageKWh,
		PendingBillETB:  snap.Stats.PendingBillETB,
		ActiveTickets:   snap.Stats.ActiveTickets,
		Payload:         string(payload),
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, `
	INSERT INTO snapshots (fetched_at, current_usage_kwh, pending_bill_etb, active_tickets, payload)
	VALUES (:fetched_at, :current_usage_kwh, :pending_bill_etb, :active_tickets, :payload)
	`, r); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
	DELETE FROM snapshots
	WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)
	`, s.keep); err != nil {
		return fmt.Errorf("pruning snapshots: %w", err)
	}
	return tx.Commit()
}

// Latest returns the most recent snapshot. ok is false when the history
// is empty.
func (s *Store) Latest(ctx context.Context) (snap pages.Snapshot, ok bool, err error) {
	var r row
	err = s.db.GetContext(ctx, &r, `SELECT * FROM snapshots ORDER BY id DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return pages.Snapshot{}, false, nil
	}
	if err != nil {
		return pages.Snapshot{}, false, fmt.Errorf("querying latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(r.Payload), &snap); err != nil {
		return pages.Snapshot{}, false, fmt.Errorf("decoding snapshot %d: %w", r.ID, err)
	}
	return snap, true, nil
}

// History lists up to limit records, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Record, error) {
	var rows []row
	if err := s.db.SelectContext(ctx, &rows, `
	SELECT id, fetched_at, current_usage_kwh, pending_bill_etb, active_tickets, '' AS payload
	FROM snapshots
	ORDER BY id DESC
	LIMIT ?
	`, limit); err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}

	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		t, err := time.Parse(time.RFC3339Nano, r.FetchedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing fetched_at of %d: %w", r.ID, err)
		}
		out = append(out, Record{
			ID:        r.ID,
			FetchedAt: t,
			Stats: domain.DashboardStats{
				CurrentUsageKWh: r.CurrentUsageKWh,
				PendingBillETB:  r.PendingBillETB,
				ActiveTickets:   r.ActiveTickets,
			},
		})
	}
	return out, nil
}

// Count returns the number of stored snapshots.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM snapshots`); err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return n, nil
}
