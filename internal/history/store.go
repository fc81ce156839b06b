// Package history defines where prior lineups and feedback live. The
// engine core only ever sees plain slices of HistoryEntry; stores are
// the collaborator that scopes and persists them per actor and mode.
package history

import (
	"context"

	"github.com/thebtf/lookbook/pkg/models"
)

// Scope partitions history rows. Fingerprint is empty for day-to-day
// history and set to the sequence fingerprint for trip-scoped rows.
type Scope struct {
	Actor       string
	Mode        string
	Fingerprint string
}

// Stats summarizes a store for the worker's stats endpoint.
type Stats struct {
	Lineups  int `json:"lineups"`
	Feedback int `json:"feedback"`
	Scopes   int `json:"scopes"`
}

// Reader defines read operations over recorded lineups and feedback.
type Reader interface {
	RecentLineups(ctx context.Context, scope Scope, limit int) ([]models.HistoryEntry, error)
	RecentFeedback(ctx context.Context, scope Scope, limit int) ([]models.FeedbackEntry, error)
	Stats(ctx context.Context) (Stats, error)
}

// Writer defines write operations over recorded lineups and feedback.
type Writer interface {
	RecordLineup(ctx context.Context, scope Scope, entry models.HistoryEntry) error
	RecordFeedback(ctx context.Context, scope Scope, entry models.FeedbackEntry) error
}

// Store combines read and write operations.
type Store interface {
	Reader
	Writer
	Close() error
}
