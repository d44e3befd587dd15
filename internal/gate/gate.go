// Package gate implements the per-visitor access state machine: a free
// trial window, a locked state that only a correct password exits, and a
// time-boxed unlocked window that re-locks on expiry.
package gate

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/haowan-apps/fangboard/internal/model"
)

// Defaults for the gate windows and shared secret.
const (
	DefaultFreePeriod     = 60 * time.Second
	DefaultUnlockDuration = 24 * time.Hour
	DefaultSecret         = "vip24"
)

// Gate holds the fixed gate configuration. It carries no per-visitor state;
// all state lives in the Session passed to each call.
type Gate struct {
	FreePeriod     time.Duration
	UnlockDuration time.Duration
	secret         string
}

// Decision is the outcome of one gate evaluation.
type Decision struct {
	Granted   bool
	Status    model.AccessStatus
	Message   string
	Remaining time.Duration
}

// New returns a gate with the given shared secret. Zero durations fall back
// to the defaults; an empty secret falls back to DefaultSecret.
func New(secret string, freePeriod, unlockDuration time.Duration) *Gate {
	if secret == "" {
		secret = DefaultSecret
	}
	if freePeriod <= 0 {
		freePeriod = DefaultFreePeriod
	}
	if unlockDuration <= 0 {
		unlockDuration = DefaultUnlockDuration
	}
	return &Gate{
		FreePeriod:     freePeriod,
		UnlockDuration: unlockDuration,
		secret:         secret,
	}
}

// Evaluate applies any pending expiry transitions to the session and returns
// whether gated content may render. Expiry is checked eagerly here, so a
// caller that evaluates before rendering never shows a stale grant: an
// expired window is re-locked and the locked decision is returned from the
// same call. Evaluate mutates only the session's own fields.
func (g *Gate) Evaluate(sess *model.Session, now time.Time) Decision {
	// Repair a session that was built by hand: an unknown status or a free
	// state without its trial clock starts a fresh trial; an unlocked state
	// without its unlock instant cannot prove the window and locks.
	switch {
	case !sess.Status.IsValid(),
		sess.Status == model.StatusFree && sess.TrialStartedAt == nil:
		t := now
		sess.Status = model.StatusFree
		sess.TrialStartedAt = &t
	case sess.Status == model.StatusUnlocked && sess.UnlockedAt == nil:
		sess.Status = model.StatusLocked
	}

	switch sess.Status {
	case model.StatusFree:
		elapsed := now.Sub(*sess.TrialStartedAt)
		if elapsed < g.FreePeriod {
			remaining := g.FreePeriod - elapsed
			return Decision{
				Granted:   true,
				Status:    model.StatusFree,
				Message:   fmt.Sprintf("free preview: %s remaining", formatRemaining(remaining)),
				Remaining: remaining,
			}
		}
		// Trial expired: re-lock and re-evaluate immediately.
		sess.Status = model.StatusLocked
		sess.TrialStartedAt = nil
		return g.Evaluate(sess, now)

	case model.StatusUnlocked:
		elapsed := now.Sub(*sess.UnlockedAt)
		if elapsed < g.UnlockDuration {
			remaining := g.UnlockDuration - elapsed
			return Decision{
				Granted:   true,
				Status:    model.StatusUnlocked,
				Message:   fmt.Sprintf("unlocked: %s remaining", formatRemaining(remaining)),
				Remaining: remaining,
			}
		}
		// Unlock window expired: re-lock and re-evaluate immediately.
		sess.Status = model.StatusLocked
		sess.UnlockedAt = nil
		return g.Evaluate(sess, now)

	default: // model.StatusLocked
		return Decision{
			Granted: false,
			Status:  model.StatusLocked,
			Message: "locked: password required",
		}
	}
}

// SubmitUnlock checks the submitted password and, when it matches, moves the
// session into the unlocked window starting at now. Only a locked session
// accepts a password; a wrong password leaves the session untouched. There
// is no retry limit.
func (g *Gate) SubmitUnlock(sess *model.Session, password string, now time.Time) bool {
	if sess.Status != model.StatusLocked {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(g.secret)) != 1 {
		return false
	}
	t := now
	sess.Status = model.StatusUnlocked
	sess.UnlockedAt = &t
	sess.TrialStartedAt = nil
	return true
}

// formatRemaining renders a remaining window as "23h59m" above one hour,
// "5m30s" above one minute, and whole seconds (rounded up) below that.
func formatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d >= time.Hour {
		h := d / time.Hour
		m := (d % time.Hour) / time.Minute
		return fmt.Sprintf("%dh%02dm", h, m)
	}
	if d >= time.Minute {
		m := d / time.Minute
		s := (d % time.Minute) / time.Second
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	secs := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%ds", secs)
}
