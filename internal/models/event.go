package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Recurrence types understood by the expansion engine. Anything else is
// treated as RecurrenceNone.
const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

// Event is a calendar entry. Date is the base date and always the first
// occurrence; for repeating events the recurrence fields describe the series.
// Start and end times are "HH:MM" strings, empty for all-day events.
type Event struct {
	ID                 int64
	Title              string
	Date               time.Time
	StartTime          sql.NullString
	EndTime            sql.NullString
	AllDay             bool
	Color              string
	RecurrenceType     string
	RecurrenceInterval int
	RecurrenceEnd      sql.NullTime // inclusive
	FamilyID           int64
	AuthorID           int64
	AuthorName         string
	CreatedAt          time.Time
}

// MarshalJSON flattens the nullable columns into plain strings, empty when
// unset, and renders dates without a time component
func (e Event) MarshalJSON() ([]byte, error) {
	recurrenceEnd := ""
	if e.RecurrenceEnd.Valid {
		recurrenceEnd = e.RecurrenceEnd.Time.Format("2006-01-02")
	}
	return json.Marshal(map[string]interface{}{
		"id":                  e.ID,
		"title":               e.Title,
		"date":                e.Date.Format("2006-01-02"),
		"start_time":          e.StartTime.String,
		"end_time":            e.EndTime.String,
		"all_day":             e.AllDay,
		"color":               e.Color,
		"recurrence_type":     e.RecurrenceType,
		"recurrence_interval": e.RecurrenceInterval,
		"recurrence_end":      recurrenceEnd,
		"family_id":           e.FamilyID,
		"author_id":           e.AuthorID,
		"author_name":         e.AuthorName,
	})
}

// Repeats reports whether the event has a recognised repeating rule
func (e *Event) Repeats() bool {
	switch e.RecurrenceType {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return true
	}
	return false
}
