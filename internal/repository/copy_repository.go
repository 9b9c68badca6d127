package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
)

type copyRepository struct {
	q sqlx.ExtContext
}

const copyColumns = `id, work_id, barcode, status, created_at, updated_at`

func (r *copyRepository) Create(ctx context.Context, copy *domain.Copy) error {
	query := `
		INSERT INTO copies (id, work_id, barcode, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
	`

	_, err := r.q.ExecContext(ctx, query, copy.ID, copy.WorkID, copy.Barcode, copy.Status)
	return err
}

func (r *copyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Copy, error) {
	query := `SELECT ` + copyColumns + ` FROM copies WHERE id = $1`

	var copy domain.Copy
	if err := sqlx.GetContext(ctx, r.q, &copy, query, id); err != nil {
		return nil, err
	}

	return &copy, nil
}

func (r *copyRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Copy, error) {
	query := `SELECT ` + copyColumns + ` FROM copies WHERE id = $1 FOR UPDATE`

	var copy domain.Copy
	if err := sqlx.GetContext(ctx, r.q, &copy, query, id); err != nil {
		return nil, err
	}

	return &copy, nil
}

func (r *copyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	query := `UPDATE copies SET status = $2, updated_at = now() WHERE id = $1`

	_, err := r.q.ExecContext(ctx, query, id, status)
	return err
}

func (r *copyRepository) CountByWork(ctx context.Context, workID uuid.UUID) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM copies WHERE work_id = $1`, workID); err != nil {
		return 0, err
	}

	return count, nil
}
