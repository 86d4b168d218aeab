package models

import "time"

// Family is a household: the top-level sharing and isolation boundary.
// Every list, event, meal, note, chore and vault entry belongs to exactly
// one family and is removed when the family is deleted.
type Family struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IsOwner reports whether the given user owns this family
func (f *Family) IsOwner(userID int64) bool {
	return f.OwnerID == userID
}
