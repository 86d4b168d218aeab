package models

import "time"

// VaultEntry is a piece of shared household reference information
// (account numbers, wifi codes and the like), grouped by category.
type VaultEntry struct {
	ID        int64     `json:"id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	FamilyID  int64     `json:"family_id"`
	AuthorID  int64     `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
