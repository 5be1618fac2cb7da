// Package history records submitted console input and steps through it.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrHistoryClosed is returned by a repository after Close.
var ErrHistoryClosed = errors.New("history is closed")

// Entry is one submitted source.
type Entry struct {
	ID        int64
	GUID      string
	SessionID string
	Source    string
	CreatedAt time.Time
}

// Repository persists entries.
type Repository interface {
	// Append stores e, setting its ID.
	Append(ctx context.Context, e *Entry) error

	// Recent returns at most limit entries, oldest first. limit <= 0 returns
	// every entry.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error

	Close() error
}
