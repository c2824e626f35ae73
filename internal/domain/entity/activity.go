package entity

import "time"

// Activity is an append-only per-user event record. Rows are never
// mutated or deleted.
type Activity struct {
	ID        int64
	UserEmail string
	Message   string
	CreatedAt time.Time
}
