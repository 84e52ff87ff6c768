package sync

import "time"

const (
	EventRefreshCompleted = "refresh.completed"
	EventRefreshFailed    = "refresh.failed"
)

// RefreshEvent is pushed to every connected client after a refresh.
type RefreshEvent struct {
	Type     string    `json:"type"`
	RunID    string    `json:"run_id"`
	Trigger  string    `json:"trigger"`
	Count    int       `json:"count,omitempty"`
	UsedSeed bool      `json:"used_seed,omitempty"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}
