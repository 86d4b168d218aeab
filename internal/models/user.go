package models

import "time"

// User is an account holder. Users belong to zero or more families;
// membership is tracked in the family_members join table.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"` // optional, used for invite notifications
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar_url"`
	Language     string    `json:"language"`
	CreatedAt    time.Time `json:"created_at"`
}
