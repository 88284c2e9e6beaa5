package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. PasswordHash is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile holds the optional academic details a user fills in on the
// profile page.
type Profile struct {
	UserID         uuid.UUID `json:"user_id"`
	Institution    string    `json:"institution"`
	Degree         string    `json:"degree"`
	GraduationYear string    `json:"graduation_year"`
	Bio            string    `json:"bio"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SavedScholarship links a user to a scholarship record id from the
// current dataset batch.
type SavedScholarship struct {
	UserID        uuid.UUID `json:"user_id"`
	ScholarshipID string    `json:"scholarship_id"`
	SavedAt       time.Time `json:"saved_at"`
}
