package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zirconconsole/zircon/internal/log"
)

// Store records submissions for one console session and keeps a navigator
// in step with the repository.
type Store struct {
	repo      Repository
	sessionID string
	nav       *Navigator
	now       func() time.Time
}

// NewStore loads up to limit recent entries into the navigator.
func NewStore(ctx context.Context, repo Repository, limit int) (*Store, error) {
	entries, err := repo.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	sources := make([]string, len(entries))
	for i, e := range entries {
		sources[i] = e.Source
	}
	s := &Store{
		repo:      repo,
		sessionID: uuid.NewString(),
		nav:       NewNavigator(sources),
		now:       time.Now,
	}
	log.Debug(log.CatHistory, "history loaded", "entries", len(entries), "session", s.sessionID)
	return s, nil
}

// SessionID identifies this console session in stored entries.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Navigator returns the navigator fed by Append.
func (s *Store) Navigator() *Navigator {
	return s.nav
}

// Append records source. Blank sources and repeats of the newest entry are
// skipped, though the navigator position is still reset.
func (s *Store) Append(ctx context.Context, source string) error {
	if strings.TrimSpace(source) == "" || source == s.nav.Last() {
		s.nav.Reset()
		return nil
	}
	e := &Entry{
		GUID:      uuid.NewString(),
		SessionID: s.sessionID,
		Source:    source,
		CreatedAt: s.now(),
	}
	if err := s.repo.Append(ctx, e); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	s.nav.Push(source)
	return nil
}

// Recent returns stored entries, oldest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	return s.repo.Recent(ctx, limit)
}

// Clear removes every stored entry and empties the navigator.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	s.nav = NewNavigator(nil)
	return nil
}

// Close closes the repository.
func (s *Store) Close() error {
	return s.repo.Close()
}
