package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
)

type reservationRepository struct {
	q sqlx.ExtContext
}

const reservationColumns = `id, member_id, work_id, start_date, end_date, estimated_fee, status, processed_at, created_at`

func (r *reservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		INSERT INTO reservations (id, member_id, work_id, start_date, end_date, estimated_fee, status, processed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
	`

	_, err := r.q.ExecContext(ctx, query,
		reservation.ID,
		reservation.MemberID,
		reservation.WorkID,
		reservation.StartDate,
		reservation.EndDate,
		reservation.EstimatedFee,
		reservation.Status,
		reservation.ProcessedAt,
	)

	return err
}

func (r *reservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	var reservation domain.Reservation
	if err := sqlx.GetContext(ctx, r.q, &reservation, query, id); err != nil {
		return nil, err
	}

	return &reservation, nil
}

func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`

	var reservation domain.Reservation
	if err := sqlx.GetContext(ctx, r.q, &reservation, query, id); err != nil {
		return nil, err
	}

	return &reservation, nil
}

func (r *reservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	query := `
		UPDATE reservations
		SET status = $2, processed_at = $3
		WHERE id = $1
	`

	_, err := r.q.ExecContext(ctx, query, reservation.ID, reservation.Status, reservation.ProcessedAt)
	return err
}

func (r *reservationRepository) List(ctx context.Context, status string, memberID *uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE ($1 = '' OR status = $1)
		  AND ($2::uuid IS NULL OR member_id = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	var reservations []*domain.Reservation
	if err := sqlx.SelectContext(ctx, r.q, &reservations, query, status, memberID, limit, offset); err != nil {
		return nil, err
	}

	return reservations, nil
}

func (r *reservationRepository) CountOverlapping(ctx context.Context, workID uuid.UUID, start, end time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE work_id = $1
		  AND status IN ('PENDING', 'VALIDATED')
		  AND start_date <= $3
		  AND end_date >= $2
	`

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, workID, start, end); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *reservationRepository) ExpirePending(ctx context.Context, before time.Time, processedAt time.Time) (int, error) {
	query := `
		UPDATE reservations
		SET status = 'EXPIRED', processed_at = $2
		WHERE status = 'PENDING' AND end_date < $1
	`

	result, err := r.q.ExecContext(ctx, query, before, processedAt)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(affected), nil
}
