package repository

import (
	"context"

	"github.com/javierbuenopatience/patience-backend/internal/domain/entity"
)

// DocumentRepository records upload metadata and lists it back in
// insertion order. It never touches file bytes.
type DocumentRepository interface {
	Create(ctx context.Context, d *entity.Document) error
	ListByUser(ctx context.Context, userEmail string) ([]entity.Document, error)
}
