package sqlite

import (
	"context"
	"fmt"

	"github.com/zirconconsole/zircon/internal/history"
)

// historyRepository implements history.Repository using SQLite.
type historyRepository struct {
	db *DB
}

func newHistoryRepository(db *DB) *historyRepository {
	return &historyRepository{db: db}
}

// Ensure historyRepository implements history.Repository.
var _ history.Repository = (*historyRepository)(nil)

// Append inserts e and sets its ID.
func (r *historyRepository) Append(ctx context.Context, e *history.Entry) error {
	if r.db.closed.Load() {
		return history.ErrHistoryClosed
	}
	m := toHistoryModel(e)
	result, err := r.db.conn.ExecContext(ctx,
		`INSERT INTO history (guid, session_id, source, created_at) VALUES (?, ?, ?, ?)`,
		m.GUID, m.SessionID, m.Source, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// Recent returns the newest limit entries, oldest first.
func (r *historyRepository) Recent(ctx context.Context, limit int) ([]history.Entry, error) {
	if r.db.closed.Load() {
		return nil, history.ErrHistoryClosed
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := r.db.conn.QueryContext(ctx,
		`SELECT id, guid, session_id, source, created_at FROM (
			SELECT id, guid, session_id, source, created_at FROM history ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []history.Entry
	for rows.Next() {
		var m HistoryModel
		if err := rows.Scan(&m.ID, &m.GUID, &m.SessionID, &m.Source, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, m.toEntry())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry.
func (r *historyRepository) Clear(ctx context.Context) error {
	if r.db.closed.Load() {
		return history.ErrHistoryClosed
	}
	if _, err := r.db.conn.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *historyRepository) Close() error {
	return r.db.Close()
}
