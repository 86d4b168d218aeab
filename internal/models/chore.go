package models

import (
	"database/sql"
	"time"
)

// Chore is a recurring task in the family's chore bank. FrequencyDays
// controls how often it becomes due; LastGenerated marks the most recent
// week anchor a rotation assignment was produced for it.
type Chore struct {
	ID            int64        `json:"id"`
	Name          string       `json:"name"`
	Points        int          `json:"points"`
	FrequencyDays int          `json:"frequency_days"`
	LastGenerated sql.NullTime `json:"-"`
	FamilyID      int64        `json:"family_id"`
}

// ChoreAssignment is one chore given to one member for one week.
// WeekOf is always the Monday of the target week.
type ChoreAssignment struct {
	ID        int64     `json:"id"`
	ChoreID   int64     `json:"chore_id"`
	ChoreName string    `json:"chore_name"`
	Points    int       `json:"points"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name"`
	FamilyID  int64     `json:"family_id"`
	WeekOf    time.Time `json:"week_of"`
	Complete  bool      `json:"complete"`
}
