package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
)

type activityRepository struct {
	q sqlx.ExtContext
}

func (r *activityRepository) Record(ctx context.Context, activity *domain.Activity) error {
	query := `
		INSERT INTO activities (id, type, message, member_id, created_at)
		VALUES ($1, $2, $3, $4, now())
	`

	_, err := r.q.ExecContext(ctx, query, activity.ID, activity.Type, activity.Message, activity.MemberID)
	return err
}

func (r *activityRepository) List(ctx context.Context, activityType string, limit, offset int) ([]*domain.Activity, error) {
	query := `
		SELECT id, type, message, member_id, created_at
		FROM activities
		WHERE ($1 = '' OR type = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	var activities []*domain.Activity
	if err := sqlx.SelectContext(ctx, r.q, &activities, query, activityType, limit, offset); err != nil {
		return nil, err
	}

	return activities, nil
}

type paymentRepository struct {
	q sqlx.ExtContext
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, member_id, kind, reference_id, amount, status, paid_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.MemberID,
		payment.Kind,
		payment.ReferenceID,
		payment.Amount,
		payment.Status,
		payment.PaidAt,
	)

	return err
}

func (r *paymentRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Payment, error) {
	query := `
		SELECT id, member_id, kind, reference_id, amount, status, paid_at, created_at
		FROM payments
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	var payments []*domain.Payment
	if err := sqlx.SelectContext(ctx, r.q, &payments, query, memberID); err != nil {
		return nil, err
	}

	return payments, nil
}
