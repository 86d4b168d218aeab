package recurrence

import (
	"log"
	"sort"
	"time"

	"homehub/internal/models"
)

// DayFormat is the key format of the expansion result
const DayFormat = "2006-01-02"

// maxOccurrencesPerEvent caps how many occurrences one event may emit into
// a single window (interval abuse, huge windows)
const maxOccurrencesPerEvent = 1000

// Occurrence is one concrete calendar-day manifestation of an event,
// derived from its recurrence rule. Occurrences are virtual: they carry the
// parent event's ID and never gain an identity of their own, so edits and
// deletes always target the parent and affect the whole series.
type Occurrence struct {
	EventID     int64     `json:"event_id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"-"`
	Day         string    `json:"date"`
	StartTime   string    `json:"start_time"`
	EndTime     string    `json:"end_time"`
	AllDay      bool      `json:"all_day"`
	Color       string    `json:"color"`
	Author      string    `json:"author"`
	DisplayTime string    `json:"display_time"`
}

// Expand produces the concrete occurrences of the given events inside the
// window [start, end], grouped by calendar day. Both bounds are inclusive.
// Within a day, all-day occurrences sort first, then ascending start time,
// with event ID as the final tie-break.
func Expand(events []models.Event, start, end time.Time) map[string][]Occurrence {
	start = atMidnight(start)
	end = atMidnight(end)

	byDay := make(map[string][]Occurrence)
	if end.Before(start) {
		return byDay
	}

	for i := range events {
		event := &events[i]
		for _, date := range expandDates(event, start, end) {
			day := date.Format(DayFormat)
			byDay[day] = append(byDay[day], makeOccurrence(event, date, day))
		}
	}

	for day := range byDay {
		sortDay(byDay[day])
	}
	return byDay
}

// expandDates generates the dates an event occurs on inside [start, end]
func expandDates(event *models.Event, start, end time.Time) []time.Time {
	base := atMidnight(event.Date)

	recType := event.RecurrenceType
	if recType != models.RecurrenceNone && !event.Repeats() {
		// Unknown rule: fall back to a single occurrence rather than
		// failing the whole expansion.
		log.Printf("event %d has unrecognized recurrence type %q, treating as non-repeating", event.ID, recType)
		recType = models.RecurrenceNone
	}

	if recType == models.RecurrenceNone {
		if !base.Before(start) && !base.After(end) {
			return []time.Time{base}
		}
		return nil
	}

	interval := event.RecurrenceInterval
	if interval < 1 {
		interval = 1
	}

	// The series stops at the earlier of its own end date and the window end
	limit := end
	if event.RecurrenceEnd.Valid {
		if recEnd := atMidnight(event.RecurrenceEnd.Time); recEnd.Before(limit) {
			limit = recEnd
		}
	}

	var dates []time.Time
	for step := firstStep(base, recType, interval, start); ; step++ {
		date := nthOccurrence(base, recType, interval, step)
		if date.After(limit) {
			break
		}
		if date.Before(start) {
			continue
		}
		dates = append(dates, date)
		if len(dates) >= maxOccurrencesPerEvent {
			break
		}
	}
	return dates
}

// firstStep estimates the step number of the series' first occurrence at or
// after start, so a series begun years before the window is entered near
// the window instead of walked from its base. The estimate may undershoot
// by a step, which the caller's Before(start) check absorbs; it never
// overshoots.
func firstStep(base time.Time, recType string, interval int, start time.Time) int {
	if !base.Before(start) {
		return 0
	}

	var step int
	switch recType {
	case models.RecurrenceDaily:
		step = daysBetween(base, start) / interval
	case models.RecurrenceWeekly:
		step = daysBetween(base, start) / (7 * interval)
	case models.RecurrenceMonthly:
		months := (start.Year()-base.Year())*12 + int(start.Month()) - int(base.Month())
		step = months / interval
	case models.RecurrenceYearly:
		step = (start.Year() - base.Year()) / interval
	}

	// Back off one step so day-of-month clamping and partial periods can
	// never push the estimate past the first in-window occurrence.
	if step--; step < 0 {
		return 0
	}
	return step
}

// daysBetween counts calendar days from a to b, both at midnight. Rounding
// to the nearest day absorbs DST-shortened and -lengthened days.
func daysBetween(a, b time.Time) int {
	return int((b.Sub(a) + 12*time.Hour) / (24 * time.Hour))
}

// nthOccurrence computes occurrence number step (0-based) of a series.
// Month and year steps use index arithmetic on (year, month) rather than
// time.AddDate, which would normalize Jan 31 + 1 month into March. Days
// past the end of a shorter target month clamp to its last valid day.
func nthOccurrence(base time.Time, recType string, interval, step int) time.Time {
	if step == 0 {
		return base
	}

	switch recType {
	case models.RecurrenceDaily:
		return base.AddDate(0, 0, step*interval)
	case models.RecurrenceWeekly:
		return base.AddDate(0, 0, 7*step*interval)
	case models.RecurrenceMonthly:
		months := int(base.Month()) - 1 + step*interval
		year := base.Year() + months/12
		month := time.Month(months%12 + 1)
		day := clampDay(base.Day(), year, month)
		return time.Date(year, month, day, 0, 0, 0, 0, base.Location())
	case models.RecurrenceYearly:
		year := base.Year() + step*interval
		day := clampDay(base.Day(), year, base.Month())
		return time.Date(year, base.Month(), day, 0, 0, 0, 0, base.Location())
	}
	return base
}

// clampDay limits a day-of-month to the last valid day of the target month
// (Jan 31 monthly lands on Feb 28/29; Feb 29 yearly lands on Feb 28 in
// non-leap years).
func clampDay(day int, year int, month time.Month) int {
	if last := daysInMonth(year, month); day > last {
		return last
	}
	return day
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func atMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func makeOccurrence(event *models.Event, date time.Time, day string) Occurrence {
	occ := Occurrence{
		EventID: event.ID,
		Title:   event.Title,
		Date:    date,
		Day:     day,
		AllDay:  event.AllDay,
		Color:   event.Color,
		Author:  event.AuthorName,
	}
	if !event.AllDay && event.StartTime.Valid {
		occ.StartTime = event.StartTime.String
		if event.EndTime.Valid {
			occ.EndTime = event.EndTime.String
			occ.DisplayTime = occ.StartTime + " - " + occ.EndTime
		} else {
			occ.DisplayTime = occ.StartTime
		}
	}
	return occ
}

// sortDay orders one day's occurrences: all-day entries first, then by
// start time ascending, then by event ID. The all-day rule is explicit
// rather than relying on the empty display string comparing low.
func sortDay(occurrences []Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		a, b := occurrences[i], occurrences[j]
		aAllDay := a.StartTime == ""
		bAllDay := b.StartTime == ""
		if aAllDay != bAllDay {
			return aAllDay
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.EventID < b.EventID
	})
}
