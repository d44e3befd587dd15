// Package events defines the gate and counter event stream and its
// publishers. Publishing is always best-effort: callers log failures and
// move on.
package events

import (
	"context"

	"github.com/haowan-apps/fangboard/internal/model"
)

// Event topic constants
const (
	TopicGateUnlocked  = "fangboard.gate.unlocked"
	TopicGateLocked    = "fangboard.gate.locked"
	TopicVisitRecorded = "fangboard.visit.recorded"
)

// Publisher sends events to interested subscribers.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Event types

// GateUnlocked is emitted when a visitor submits the correct password.
type GateUnlocked struct {
	SessionID  string `json:"session_id"`
	UnlockedAt string `json:"unlocked_at"` // RFC 3339
}

// GateLocked is emitted when a free or unlocked window expires.
type GateLocked struct {
	SessionID string             `json:"session_id"`
	From      model.AccessStatus `json:"from"` // window that expired
}

// VisitRecorded is emitted after a session's visit is counted.
type VisitRecorded struct {
	SessionID string `json:"session_id"`
	Date      string `json:"date"`
	Count     int    `json:"count"`
}
