// Package store defines the persistence interface for the daily visit
// counter.
package store

import "context"

// CounterStore is the durable home of the single daily visit record.
// Days are local calendar dates formatted as model.DayFormat.
type CounterStore interface {
	// Today returns the count recorded for the given day. A missing,
	// unreadable, or stale record reads as zero.
	Today(ctx context.Context, day string) (int, error)

	// Increment adds one visit to the given day and returns the new total.
	// A record stored for any other date is reset, not carried over.
	Increment(ctx context.Context, day string) (int, error)

	// Lifecycle
	Close() error
}
