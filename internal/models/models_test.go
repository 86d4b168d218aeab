package models

import (
	"database/sql"
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{
			name:      "future expiration",
			expiresAt: time.Now().Add(1 * time.Hour),
			want:      false,
		},
		{
			name:      "just expired",
			expiresAt: time.Now().Add(-1 * time.Second),
			want:      true,
		},
		{
			name:      "expired yesterday",
			expiresAt: time.Now().Add(-24 * time.Hour),
			want:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := Session{
				ID:        "test-session",
				UserID:    1,
				ExpiresAt: tt.expiresAt,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}
			if got := session.IsExpired(); got != tt.want {
				t.Errorf("Session.IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventRepeats(t *testing.T) {
	tests := []struct {
		name           string
		recurrenceType string
		want           bool
	}{
		{name: "none", recurrenceType: RecurrenceNone, want: false},
		{name: "daily", recurrenceType: RecurrenceDaily, want: true},
		{name: "weekly", recurrenceType: RecurrenceWeekly, want: true},
		{name: "monthly", recurrenceType: RecurrenceMonthly, want: true},
		{name: "yearly", recurrenceType: RecurrenceYearly, want: true},
		{name: "unknown value", recurrenceType: "fortnightly", want: false},
		{name: "empty value", recurrenceType: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := Event{
				Title:              "Test",
				RecurrenceType:     tt.recurrenceType,
				RecurrenceInterval: 1,
				RecurrenceEnd:      sql.NullTime{},
			}
			if got := event.Repeats(); got != tt.want {
				t.Errorf("Event.Repeats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFamilyIsOwner(t *testing.T) {
	family := Family{ID: 1, Name: "Smith", OwnerID: 42}

	if !family.IsOwner(42) {
		t.Error("IsOwner(42) = false, want true")
	}
	if family.IsOwner(7) {
		t.Error("IsOwner(7) = true, want false")
	}
}
