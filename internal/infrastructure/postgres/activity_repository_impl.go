package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/javierbuenopatience/patience-backend/internal/domain/entity"
	"github.com/javierbuenopatience/patience-backend/internal/domain/repository"
)

type ActivityRepository struct {
	pool *pgxpool.Pool
}

func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

func (r *ActivityRepository) Append(ctx context.Context, a *entity.Activity) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO activities (user_email, message)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, a.UserEmail, a.Message)
	return row.Scan(&a.ID, &a.CreatedAt)
}

func (r *ActivityRepository) ListByUser(ctx context.Context, userEmail string) ([]entity.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_email, message, created_at
		FROM activities
		WHERE user_email = $1
		ORDER BY id
	`, userEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	acts := make([]entity.Activity, 0)
	for rows.Next() {
		var a entity.Activity
		if err := rows.Scan(&a.ID, &a.UserEmail, &a.Message, &a.CreatedAt); err != nil {
			return nil, err
		}
		acts = append(acts, a)
	}
	return acts, rows.Err()
}

var _ repository.ActivityRepository = (*ActivityRepository)(nil)
