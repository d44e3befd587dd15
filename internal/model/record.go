package model

import "time"

// DayFormat is the layout for counter record dates (local calendar date).
const DayFormat = "2006-01-02"

// CounterRecord is the durable daily visit tally. A single record is shared
// by every process instance; a record whose Date is not today reads as zero.
type CounterRecord struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Day formats t as a counter record date in local time.
func Day(t time.Time) string {
	return t.Format(DayFormat)
}

// IsFor reports whether the record's tally applies to the given day.
// A stale record (any other date, past or future) must be reset, not
// incremented.
func (r CounterRecord) IsFor(day string) bool {
	return r.Date == day
}
