package models

import "time"

// ShoppingList is a named list of items shared within a family
type ShoppingList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	FamilyID  int64     `json:"family_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Item is a single entry on a shopping list
type Item struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	Done       bool      `json:"done"`
	ListID     int64     `json:"list_id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	CreatedAt  time.Time `json:"created_at"`
}
