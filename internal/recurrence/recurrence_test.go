package recurrence

import (
	"database/sql"
	"testing"
	"time"

	"homehub/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func clock(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func until(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: true}
}

func totalOccurrences(byDay map[string][]Occurrence) int {
	n := 0
	for _, occs := range byDay {
		n += len(occs)
	}
	return n
}

func TestExpandSingleEvent(t *testing.T) {
	events := []models.Event{
		{ID: 1, Title: "Dentist", Date: day(2024, time.March, 15), RecurrenceType: models.RecurrenceNone},
	}

	tests := []struct {
		name       string
		start, end time.Time
		wantDays   []string
	}{
		{"inside window", day(2024, time.March, 1), day(2024, time.March, 31), []string{"2024-03-15"}},
		{"on start bound", day(2024, time.March, 15), day(2024, time.March, 31), []string{"2024-03-15"}},
		{"on end bound", day(2024, time.March, 1), day(2024, time.March, 15), []string{"2024-03-15"}},
		{"before window", day(2024, time.March, 16), day(2024, time.March, 31), nil},
		{"after window", day(2024, time.March, 1), day(2024, time.March, 14), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			byDay := Expand(events, tt.start, tt.end)
			if len(byDay) != len(tt.wantDays) {
				t.Fatalf("expected %d days, got %d", len(tt.wantDays), len(byDay))
			}
			for _, wantDay := range tt.wantDays {
				if len(byDay[wantDay]) != 1 {
					t.Errorf("expected one occurrence on %s, got %d", wantDay, len(byDay[wantDay]))
				}
			}
		})
	}
}

func TestExpandWeeklyWithSeriesEnd(t *testing.T) {
	// Trash pickup every Monday in January, series ending the 22nd
	events := []models.Event{
		{
			ID:             7,
			Title:          "Trash day",
			Date:           day(2024, time.January, 1),
			RecurrenceType: models.RecurrenceWeekly,
			RecurrenceEnd:  until(day(2024, time.January, 22)),
		},
	}

	byDay := Expand(events, day(2024, time.January, 1), day(2024, time.January, 31))

	wantDays := []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22"}
	if got := totalOccurrences(byDay); got != len(wantDays) {
		t.Fatalf("expected %d occurrences, got %d", len(wantDays), got)
	}
	for _, wantDay := range wantDays {
		if len(byDay[wantDay]) != 1 {
			t.Errorf("expected occurrence on %s", wantDay)
		}
	}
	if len(byDay["2024-01-29"]) != 0 {
		t.Error("series end date should be inclusive, got occurrence past it")
	}
}

func TestExpandDailyInterval(t *testing.T) {
	events := []models.Event{
		{
			ID:                 3,
			Title:              "Water plants",
			Date:               day(2024, time.June, 1),
			RecurrenceType:     models.RecurrenceDaily,
			RecurrenceInterval: 3,
		},
	}

	byDay := Expand(events, day(2024, time.June, 1), day(2024, time.June, 10))

	wantDays := []string{"2024-06-01", "2024-06-04", "2024-06-07", "2024-06-10"}
	if got := totalOccurrences(byDay); got != len(wantDays) {
		t.Fatalf("expected %d occurrences, got %d", len(wantDays), got)
	}
	for _, wantDay := range wantDays {
		if len(byDay[wantDay]) != 1 {
			t.Errorf("expected occurrence on %s", wantDay)
		}
	}
}

func TestExpandWindowStartsMidSeries(t *testing.T) {
	// Base date long before the window; only in-window dates come back
	events := []models.Event{
		{
			ID:             4,
			Title:          "Allowance",
			Date:           day(2023, time.January, 6),
			RecurrenceType: models.RecurrenceWeekly,
		},
	}

	byDay := Expand(events, day(2024, time.March, 1), day(2024, time.March, 31))

	wantDays := []string{"2024-03-01", "2024-03-08", "2024-03-15", "2024-03-22", "2024-03-29"}
	if got := totalOccurrences(byDay); got != len(wantDays) {
		t.Fatalf("expected %d occurrences, got %d", len(wantDays), got)
	}
	for _, wantDay := range wantDays {
		if len(byDay[wantDay]) != 1 {
			t.Errorf("expected occurrence on %s", wantDay)
		}
	}
}

func TestExpandSeriesBegunYearsBeforeWindow(t *testing.T) {
	// A daily series six years old has thousands of occurrences before the
	// window; every in-window day must still come back
	events := []models.Event{
		{
			ID:                 1,
			Title:              "Vitamins",
			Date:               day(2020, time.January, 1),
			RecurrenceType:     models.RecurrenceDaily,
			RecurrenceInterval: 1,
		},
		{
			ID:             2,
			Title:          "Bins out",
			Date:           day(2019, time.June, 7),
			RecurrenceType: models.RecurrenceWeekly,
		},
		{
			ID:             3,
			Title:          "Rent",
			Date:           day(2015, time.January, 31),
			RecurrenceType: models.RecurrenceMonthly,
		},
	}

	byDay := Expand(events, day(2026, time.January, 1), day(2026, time.January, 31))

	counts := make(map[int64]int)
	for _, occs := range byDay {
		for _, occ := range occs {
			counts[occ.EventID]++
		}
	}
	if counts[1] != 31 {
		t.Errorf("expected the daily event on all 31 days, got %d", counts[1])
	}
	// 2019-06-07 was a Friday; January 2026 has five of them
	if counts[2] != 5 {
		t.Errorf("expected the weekly event on 5 days, got %d", counts[2])
	}
	if counts[3] != 1 || len(byDay["2026-01-31"]) == 0 {
		t.Errorf("expected the monthly event once on 2026-01-31, got %d", counts[3])
	}
}

func TestExpandMonthlyClampsToShortMonths(t *testing.T) {
	// A rent reminder on the 31st must land on the last day of shorter months
	events := []models.Event{
		{
			ID:             5,
			Title:          "Rent due",
			Date:           day(2024, time.January, 31),
			RecurrenceType: models.RecurrenceMonthly,
		},
	}

	byDay := Expand(events, day(2024, time.January, 1), day(2024, time.May, 31))

	wantDays := []string{"2024-01-31", "2024-02-29", "2024-03-31", "2024-04-30", "2024-05-31"}
	if got := totalOccurrences(byDay); got != len(wantDays) {
		t.Fatalf("expected %d occurrences, got %d", len(wantDays), got)
	}
	for _, wantDay := range wantDays {
		if len(byDay[wantDay]) != 1 {
			t.Errorf("expected occurrence on %s", wantDay)
		}
	}
}

func TestExpandMonthlyNonLeapFebruary(t *testing.T) {
	events := []models.Event{
		{
			ID:             5,
			Title:          "Rent due",
			Date:           day(2023, time.January, 31),
			RecurrenceType: models.RecurrenceMonthly,
		},
	}

	byDay := Expand(events, day(2023, time.February, 1), day(2023, time.February, 28))

	if len(byDay["2023-02-28"]) != 1 {
		t.Error("expected the 31st to clamp to Feb 28 in a non-leap year")
	}
}

func TestExpandYearlyLeapDay(t *testing.T) {
	events := []models.Event{
		{
			ID:             6,
			Title:          "Birthday",
			Date:           day(2024, time.February, 29),
			RecurrenceType: models.RecurrenceYearly,
		},
	}

	byDay := Expand(events, day(2025, time.February, 1), day(2025, time.February, 28))
	if len(byDay["2025-02-28"]) != 1 {
		t.Error("expected Feb 29 to clamp to Feb 28 in a non-leap year")
	}

	byDay = Expand(events, day(2028, time.February, 1), day(2028, time.February, 29))
	if len(byDay["2028-02-29"]) != 1 {
		t.Error("expected Feb 29 to come back in the next leap year")
	}
}

func TestExpandMonthStepNeverOverflows(t *testing.T) {
	// Jan 31 + 1 month must be Feb, not Mar (time.AddDate would normalize)
	got := nthOccurrence(day(2024, time.January, 31), models.RecurrenceMonthly, 1, 1)
	if got.Month() != time.February || got.Day() != 29 {
		t.Errorf("expected 2024-02-29, got %s", got.Format(DayFormat))
	}

	got = nthOccurrence(day(2024, time.November, 30), models.RecurrenceMonthly, 1, 3)
	if got.Year() != 2025 || got.Month() != time.February || got.Day() != 28 {
		t.Errorf("expected 2025-02-28, got %s", got.Format(DayFormat))
	}
}

func TestExpandDayOrdering(t *testing.T) {
	date := day(2024, time.April, 10)
	events := []models.Event{
		{ID: 9, Title: "Soccer", Date: date, StartTime: clock("16:00"), RecurrenceType: models.RecurrenceNone},
		{ID: 2, Title: "Spring break", Date: date, AllDay: true, RecurrenceType: models.RecurrenceNone},
		{ID: 5, Title: "Breakfast club", Date: date, StartTime: clock("07:30"), RecurrenceType: models.RecurrenceNone},
		{ID: 8, Title: "Carpool", Date: date, StartTime: clock("07:30"), RecurrenceType: models.RecurrenceNone},
		{ID: 1, Title: "Teacher in-service", Date: date, AllDay: true, RecurrenceType: models.RecurrenceNone},
	}

	byDay := Expand(events, date, date)
	occs := byDay["2024-04-10"]
	if len(occs) != 5 {
		t.Fatalf("expected 5 occurrences, got %d", len(occs))
	}

	wantOrder := []int64{1, 2, 5, 8, 9}
	for i, wantID := range wantOrder {
		if occs[i].EventID != wantID {
			t.Errorf("position %d: expected event %d, got %d (%s)", i, wantID, occs[i].EventID, occs[i].Title)
		}
	}
}

func TestExpandUnknownRecurrenceFallsBack(t *testing.T) {
	events := []models.Event{
		{ID: 11, Title: "Mystery", Date: day(2024, time.May, 5), RecurrenceType: "fortnightly"},
	}

	byDay := Expand(events, day(2024, time.May, 1), day(2024, time.May, 31))
	if got := totalOccurrences(byDay); got != 1 {
		t.Fatalf("expected a single fallback occurrence, got %d", got)
	}
	if len(byDay["2024-05-05"]) != 1 {
		t.Error("expected the base date occurrence only")
	}
}

func TestExpandInvertedWindow(t *testing.T) {
	events := []models.Event{
		{ID: 12, Title: "Anything", Date: day(2024, time.May, 5), RecurrenceType: models.RecurrenceDaily},
	}

	byDay := Expand(events, day(2024, time.June, 1), day(2024, time.May, 1))
	if len(byDay) != 0 {
		t.Errorf("expected empty result for inverted window, got %d days", len(byDay))
	}
}

func TestExpandZeroIntervalTreatedAsOne(t *testing.T) {
	events := []models.Event{
		{
			ID:                 13,
			Title:              "Laundry",
			Date:               day(2024, time.July, 1),
			RecurrenceType:     models.RecurrenceWeekly,
			RecurrenceInterval: 0,
		},
	}

	byDay := Expand(events, day(2024, time.July, 1), day(2024, time.July, 15))
	if got := totalOccurrences(byDay); got != 3 {
		t.Fatalf("expected 3 weekly occurrences, got %d", got)
	}
}

func TestOccurrenceDisplayTime(t *testing.T) {
	date := day(2024, time.April, 10)
	events := []models.Event{
		{ID: 1, Title: "Dinner", Date: date, StartTime: clock("18:00"), EndTime: clock("19:30"), RecurrenceType: models.RecurrenceNone},
		{ID: 2, Title: "Pickup", Date: date, StartTime: clock("15:00"), RecurrenceType: models.RecurrenceNone},
		{ID: 3, Title: "Holiday", Date: date, AllDay: true, RecurrenceType: models.RecurrenceNone},
	}

	byDay := Expand(events, date, date)
	occs := byDay["2024-04-10"]

	want := map[int64]string{1: "18:00 - 19:30", 2: "15:00", 3: ""}
	for _, occ := range occs {
		if occ.DisplayTime != want[occ.EventID] {
			t.Errorf("event %d: expected display time %q, got %q", occ.EventID, want[occ.EventID], occ.DisplayTime)
		}
	}
}
