package sqlite

import (
	"time"

	"github.com/zirconconsole/zircon/internal/history"
)

// HistoryModel is a row of the history table. Times are Unix milliseconds.
type HistoryModel struct {
	ID        int64
	GUID      string
	SessionID string
	Source    string
	CreatedAt int64
}

func toHistoryModel(e *history.Entry) *HistoryModel {
	return &HistoryModel{
		ID:        e.ID,
		GUID:      e.GUID,
		SessionID: e.SessionID,
		Source:    e.Source,
		CreatedAt: e.CreatedAt.UnixMilli(),
	}
}

func (m *HistoryModel) toEntry() history.Entry {
	return history.Entry{
		ID:        m.ID,
		GUID:      m.GUID,
		SessionID: m.SessionID,
		Source:    m.Source,
		CreatedAt: time.UnixMilli(m.CreatedAt),
	}
}
