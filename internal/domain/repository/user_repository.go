package repository

import (
	"context"
	"errors"

	"github.com/javierbuenopatience/patience-backend/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when an insert violates the users
	// email uniqueness constraint. Under concurrent registration the
	// database constraint is the final arbiter; implementations must map
	// the violation to this error rather than a generic failure.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}
