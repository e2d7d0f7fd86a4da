package ports

import "context"

// TableEvent is an accepted table action published outside the match.
type TableEvent struct {
	TableID string `json:"table_id"`
	MatchID string `json:"match_id"`
	Kind    string `json:"kind"`
	Tick    int64  `json:"tick"`
	Payload any    `json:"payload"`
}

// EventPublisher fans table events out to external subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, ev TableEvent) error
	Close()
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, TableEvent) error { return nil }
func (NopPublisher) Close()                                    {}
