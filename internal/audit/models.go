package audit

import (
	"context"
	"time"
)

// Event captures one screening decision for the audit trail. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID          string
	Timestamp   time.Time
	ClientID    string
	Accepted    bool
	Explanation string
	IssueCount  int
}

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByClient(ctx context.Context, clientID string) ([]Event, error)
}
