package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/splitpool/internal/models"
)

const (
	kindPurchase = "purchase"
	kindTransfer = "transfer"
)

func insertEntries(ctx context.Context, tx *sql.Tx, groupID, kind string, entries []models.Entry) error {
	for i, e := range entries {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO entries (group_id, kind, position, id, title, description, purchaser,
			                      amount, currency, date, created_at, modified_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			groupID, kind, i, e.ID, e.Title, e.Description, e.Purchaser,
			e.Amount, e.Currency, toUnix(e.Date.Time), toUnix(e.Stamp.Time), toUnix(e.Modified.Time),
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s: %w", kind, err)
		}

		for j, name := range e.Recipients {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO entry_recipients (group_id, kind, entry_position, position, name)
				 VALUES (?, ?, ?, ?, ?)`,
				groupID, kind, i, j, name,
			)
			if err != nil {
				return fmt.Errorf("failed to insert %s recipient: %w", kind, err)
			}
		}
	}
	return nil
}

// getEntries loads one kind of entry in stored order, with recipients.
func (s *SQLiteStore) getEntries(ctx context.Context, groupID, kind string) ([]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, purchaser, amount, currency, date, created_at, modified_at
		 FROM entries WHERE group_id = ? AND kind = ? ORDER BY position`,
		groupID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s entries: %w", kind, err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		var e models.Entry
		var date, created, modified int64
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Purchaser, &e.Amount, &e.Currency,
			&date, &created, &modified); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", kind, err)
		}
		e.Date = models.NewStamp(fromUnix(date))
		e.Stamp = models.NewStamp(fromUnix(created))
		e.Modified = models.NewStamp(fromUnix(modified))
		e.Recipients = []string{}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s entries: %w", kind, err)
	}

	recipientRows, err := s.db.QueryContext(ctx,
		`SELECT entry_position, name FROM entry_recipients
		 WHERE group_id = ? AND kind = ? ORDER BY entry_position, position`,
		groupID, kind,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s recipients: %w", kind, err)
	}
	defer recipientRows.Close()

	for recipientRows.Next() {
		var pos int
		var name string
		if err := recipientRows.Scan(&pos, &name); err != nil {
			return nil, fmt.Errorf("failed to scan recipient: %w", err)
		}
		if pos < 0 || pos >= len(entries) {
			return nil, fmt.Errorf("recipient %q references missing %s %d", name, kind, pos)
		}
		entries[pos].Recipients = append(entries[pos].Recipients, name)
	}
	if err := recipientRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipients: %w", err)
	}

	return entries, nil
}
