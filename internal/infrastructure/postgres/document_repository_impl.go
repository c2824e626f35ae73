package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/javierbuenopatience/patience-backend/internal/domain/entity"
	"github.com/javierbuenopatience/patience-backend/internal/domain/repository"
)

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Create(ctx context.Context, d *entity.Document) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO documents (user_email, filename, file_url, file_type)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, d.UserEmail, d.Filename, d.FileURL, d.FileType)
	return row.Scan(&d.ID, &d.CreatedAt)
}

func (r *DocumentRepository) ListByUser(ctx context.Context, userEmail string) ([]entity.Document, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_email, filename, file_url, file_type, created_at
		FROM documents
		WHERE user_email = $1
		ORDER BY id
	`, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := make([]entity.Document, 0)
	for rows.Next() {
		var d entity.Document
		if err := rows.Scan(&d.ID, &d.UserEmail, &d.Filename, &d.FileURL, &d.FileType, &d.CreatedAt); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

var _ repository.DocumentRepository = (*DocumentRepository)(nil)
