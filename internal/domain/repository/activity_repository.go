package repository

import (
	"context"

	"github.com/javierbuenopatience/patience-backend/internal/domain/entity"
)

// ActivityRepository is the append-only event log. No update or delete
// operation exists.
type ActivityRepository interface {
	Append(ctx context.Context, a *entity.Activity) error
	ListByUser(ctx context.Context, userEmail string) ([]entity.Activity, error)
}
