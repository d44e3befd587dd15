package model

import (
	"testing"
	"time"
)

func TestAccessStatus_IsValid(t *testing.T) {
	for _, tc := range []struct {
		status AccessStatus
		want   bool
	}{
		{StatusFree, true},
		{StatusLocked, true},
		{StatusUnlocked, true},
		{AccessStatus(""), false},
		{AccessStatus("bogus"), false},
	} {
		if got := tc.status.IsValid(); got != tc.want {
			t.Errorf("AccessStatus(%q).IsValid() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestAccessStatus_String(t *testing.T) {
	for _, tc := range []struct {
		status AccessStatus
		want   string
	}{
		{StatusFree, "free"},
		{StatusLocked, "locked"},
		{StatusUnlocked, "unlocked"},
	} {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("AccessStatus(%q).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}

func TestNewSession(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	sess := NewSession("fb-abc123", now)

	if sess.Status != StatusFree {
		t.Errorf("Status = %q, want %q", sess.Status, StatusFree)
	}
	if sess.TrialStartedAt == nil || !sess.TrialStartedAt.Equal(now) {
		t.Errorf("TrialStartedAt = %v, want %v", sess.TrialStartedAt, now)
	}
	if sess.UnlockedAt != nil {
		t.Errorf("UnlockedAt = %v, want nil", sess.UnlockedAt)
	}
	if sess.HasCountedVisit {
		t.Error("HasCountedVisit = true, want false")
	}
}

func TestDay(t *testing.T) {
	got := Day(time.Date(2025, 6, 1, 23, 59, 0, 0, time.Local))
	if got != "2025-06-01" {
		t.Errorf("Day() = %q, want %q", got, "2025-06-01")
	}
}

func TestCounterRecord_IsFor(t *testing.T) {
	for _, tc := range []struct {
		record CounterRecord
		day    string
		want   bool
	}{
		{CounterRecord{Date: "2025-06-01", Count: 3}, "2025-06-01", true},
		{CounterRecord{Date: "2025-05-31", Count: 3}, "2025-06-01", false},
		// A future date is just as stale as a past one.
		{CounterRecord{Date: "2025-06-02", Count: 3}, "2025-06-01", false},
		{CounterRecord{}, "2025-06-01", false},
	} {
		if got := tc.record.IsFor(tc.day); got != tc.want {
			t.Errorf("CounterRecord(%q).IsFor(%q) = %v, want %v", tc.record.Date, tc.day, got, tc.want)
		}
	}
}

func TestMetric_IsValid(t *testing.T) {
	for _, tc := range []struct {
		metric Metric
		want   bool
	}{
		{MetricPrice, true},
		{MetricRent, true},
		{Metric(""), false},
		{Metric("tax"), false},
	} {
		if got := tc.metric.IsValid(); got != tc.want {
			t.Errorf("Metric(%q).IsValid() = %v, want %v", tc.metric, got, tc.want)
		}
	}
}

func TestMetric_Unit(t *testing.T) {
	if got := MetricPrice.Unit(); got != "元/㎡" {
		t.Errorf("MetricPrice.Unit() = %q, want %q", got, "元/㎡")
	}
	if got := MetricRent.Unit(); got != "元/㎡/月" {
		t.Errorf("MetricRent.Unit() = %q, want %q", got, "元/㎡/月")
	}
}
