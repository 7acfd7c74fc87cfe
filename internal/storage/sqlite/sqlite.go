// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitpool/internal/models"
	"github.com/mmynk/splitpool/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)

	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; serialize through one connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveGroup upserts the group row and rewrites its members, rates and entries.
func (s *SQLiteStore) SaveGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		return errors.New("group id is required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO groups (id, name, description, currency, created_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     name = excluded.name,
		     description = excluded.description,
		     currency = excluded.currency,
		     created_at = excluded.created_at`,
		group.ID, group.Name, group.Description, group.Currency, toUnix(group.Stamp.Time),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert group: %w", err)
	}

	if err := deleteChildren(ctx, tx, group.ID); err != nil {
		return err
	}

	for i, m := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO members (group_id, position, name, created_at) VALUES (?, ?, ?, ?)",
			group.ID, i, m.Name, toUnix(m.Stamp.Time),
		)
		if err != nil {
			return fmt.Errorf("failed to insert member: %w", err)
		}
	}

	for code, rate := range group.ExchangeRates {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO exchange_rates (group_id, currency, rate) VALUES (?, ?, ?)",
			group.ID, code, rate,
		)
		if err != nil {
			return fmt.Errorf("failed to insert exchange rate: %w", err)
		}
	}

	if err := insertEntries(ctx, tx, group.ID, kindPurchase, group.Purchases); err != nil {
		return err
	}
	if err := insertEntries(ctx, tx, group.ID, kindTransfer, group.Transfers); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including members, rates and entries.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{
		ExchangeRates: map[string]float64{},
		Members:       []models.Member{},
	}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, currency, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.Currency, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.Stamp = models.NewStamp(fromUnix(createdAt))

	rows, err := s.db.QueryContext(ctx,
		"SELECT name, created_at FROM members WHERE group_id = ? ORDER BY position",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Member
		var stamp int64
		if err := rows.Scan(&m.Name, &stamp); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		m.Stamp = models.NewStamp(fromUnix(stamp))
		group.Members = append(group.Members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	rateRows, err := s.db.QueryContext(ctx,
		"SELECT currency, rate FROM exchange_rates WHERE group_id = ?",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get exchange rates: %w", err)
	}
	defer rateRows.Close()

	for rateRows.Next() {
		var code string
		var rate float64
		if err := rateRows.Scan(&code, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate: %w", err)
		}
		group.ExchangeRates[code] = rate
	}
	if err := rateRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exchange rates: %w", err)
	}

	if group.Purchases, err = s.getEntries(ctx, groupID, kindPurchase); err != nil {
		return nil, err
	}
	if group.Transfers, err = s.getEntries(ctx, groupID, kindTransfer); err != nil {
		return nil, err
	}

	return group, nil
}

// ListGroups returns a summary of every group, oldest first.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*models.GroupSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.currency, g.created_at,
		       (SELECT COUNT(*) FROM members m WHERE m.group_id = g.id),
		       (SELECT COUNT(*) FROM entries e WHERE e.group_id = g.id)
		FROM groups g
		ORDER BY g.created_at, g.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	summaries := []*models.GroupSummary{}
	for rows.Next() {
		var sum models.GroupSummary
		var createdAt int64
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.Currency, &createdAt, &sum.MembersCount, &sum.EntriesCount); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		sum.Stamp = fromUnix(createdAt)
		summaries = append(summaries, &sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return summaries, nil
}

// DeleteGroup removes a group and everything that belongs to it.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteChildren(ctx, tx, groupID); err != nil {
		return err
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, groupID)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func deleteChildren(ctx context.Context, tx *sql.Tx, groupID string) error {
	for _, table := range []string{"entry_recipients", "entries", "exchange_rates", "members"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE group_id = ?", groupID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// Timestamps are stored as Unix nanoseconds; 0 means unset.
func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
