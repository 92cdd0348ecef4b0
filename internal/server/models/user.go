// Package models defines server-side data models persisted in the database.
package models

import (
	"database/sql"
	"time"
)

// User is a back-office account. PasswordHash holds a bcrypt hash and is
// never serialised to clients.
type User struct {
	ID           int64          `db:"id"`
	Username     string         `db:"username"`
	Email        string         `db:"email"`
	Role         string         `db:"role"`
	PasswordHash []byte         `db:"password_hash"`
	ProfileImage sql.NullString `db:"profile_image"`
	CreatedAt    time.Time      `db:"created_at"`
}

// Profile is the public projection of a User returned by the profile lookup.
type Profile struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	ProfileImage string `json:"profile_image"`
	// ProfileImageURL is a short-lived signed link to ProfileImage, set only
	// when object storage is configured.
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}
