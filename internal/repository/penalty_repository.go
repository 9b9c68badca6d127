package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
)

type penaltyRepository struct {
	q sqlx.ExtContext
}

const penaltyColumns = `id, loan_id, days_late, amount, paid, created_at, updated_at`

func (r *penaltyRepository) Create(ctx context.Context, penalty *domain.Penalty) error {
	query := `
		INSERT INTO penalties (id, loan_id, days_late, amount, paid, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`

	_, err := r.q.ExecContext(ctx, query,
		penalty.ID,
		penalty.LoanID,
		penalty.DaysLate,
		penalty.Amount,
		penalty.Paid,
	)

	return err
}

func (r *penaltyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Penalty, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties WHERE id = $1`

	var penalty domain.Penalty
	if err := sqlx.GetContext(ctx, r.q, &penalty, query, id); err != nil {
		return nil, err
	}

	return &penalty, nil
}

func (r *penaltyRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Penalty, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties WHERE id = $1 FOR UPDATE`

	var penalty domain.Penalty
	if err := sqlx.GetContext(ctx, r.q, &penalty, query, id); err != nil {
		return nil, err
	}

	return &penalty, nil
}

func (r *penaltyRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) (*domain.Penalty, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties WHERE loan_id = $1`

	var penalty domain.Penalty
	if err := sqlx.GetContext(ctx, r.q, &penalty, query, loanID); err != nil {
		return nil, err
	}

	return &penalty, nil
}

func (r *penaltyRepository) Update(ctx context.Context, penalty *domain.Penalty) error {
	query := `
		UPDATE penalties
		SET days_late = $2, amount = $3, paid = $4, updated_at = now()
		WHERE id = $1
	`

	_, err := r.q.ExecContext(ctx, query, penalty.ID, penalty.DaysLate, penalty.Amount, penalty.Paid)
	return err
}

func (r *penaltyRepository) List(ctx context.Context, paid *bool, limit, offset int) ([]*domain.Penalty, error) {
	query := `
		SELECT ` + penaltyColumns + `
		FROM penalties
		WHERE ($1::boolean IS NULL OR paid = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var penalties []*domain.Penalty
	if err := sqlx.SelectContext(ctx, r.q, &penalties, query, paid, limit, offset); err != nil {
		return nil, err
	}

	return penalties, nil
}

func (r *penaltyRepository) CountUnpaid(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM penalties WHERE paid = FALSE`); err != nil {
		return 0, err
	}

	return count, nil
}
