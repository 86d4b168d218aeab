package models

import "time"

// Note is a bulletin board entry. Unpinned notes older than the board's
// retention window are garbage-collected lazily on read.
type Note struct {
	ID         int64     `json:"id"`
	Content    string    `json:"content"`
	Pinned     bool      `json:"pinned"`
	FamilyID   int64     `json:"family_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}
