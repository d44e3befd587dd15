package model

import (
	"sync"
	"time"
)

// AccessStatus represents a visitor's position in the access gate.
type AccessStatus string

const (
	// StatusFree is the initial trial window granted to every new visitor.
	StatusFree AccessStatus = "free"
	// StatusLocked means the visitor must submit the unlock password.
	StatusLocked AccessStatus = "locked"
	// StatusUnlocked is the time-boxed window opened by a correct password.
	StatusUnlocked AccessStatus = "unlocked"
)

// String returns the string representation of the status.
func (s AccessStatus) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s AccessStatus) IsValid() bool {
	switch s {
	case StatusFree, StatusLocked, StatusUnlocked:
		return true
	}
	return false
}

// Session is one visitor's ephemeral gate state. It lives in process memory
// for the visitor's connection lifetime and is never shared across visitors.
//
// Invariants: Status is always exactly one of free/locked/unlocked after the
// first evaluation; TrialStartedAt is non-nil only while the session is (or
// has been) in the free window; UnlockedAt is non-nil only while unlocked.
type Session struct {
	ID     string
	Status AccessStatus

	// TrialStartedAt is set once when the session is first observed and
	// cleared on the transition out of the free window.
	TrialStartedAt *time.Time

	// UnlockedAt is set on a successful password submission and cleared
	// when the unlock window expires.
	UnlockedAt *time.Time

	// HasCountedVisit is set after the first successful counter increment
	// so page reloads within the session never double-count.
	HasCountedVisit bool

	// LastSeen drives idle eviction in the session manager.
	LastSeen time.Time

	// mu serializes the visitor's parallel requests; handlers hold it for
	// the duration of one access decision.
	mu sync.Mutex
}

// Lock acquires the session for one request's gate evaluation.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session.
func (s *Session) Unlock() { s.mu.Unlock() }

// NewSession returns a session in the free state with the trial clock
// started at now.
func NewSession(id string, now time.Time) *Session {
	t := now
	return &Session{
		ID:             id,
		Status:         StatusFree,
		TrialStartedAt: &t,
		LastSeen:       now,
	}
}
