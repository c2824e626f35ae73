package entity

import (
	"time"
)

// User is the aggregate root for the profile domain. Documents and
// activities relate to it by email, which is stored lowercase and is
// unique across all users.
//
// Passwords are stored as bcrypt digests in HashedPassword and are never
// exposed outside the service layer. The digest is written once at
// registration; no update path exists for it.
type User struct {
	ID             int64
	Email          string
	Name           string
	HashedPassword string

	// Sparse profile. Each field is independently nullable and
	// independently updatable; nil means "not set".
	Phone        *string
	ExamDate     *time.Time // calendar date, stored as DATE
	Specialty    *string
	Hobbies      *string
	Location     *string
	ProfileImage *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
