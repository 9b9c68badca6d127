package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
)

type parameterRepository struct {
	q sqlx.ExtContext
}

// The parameters table is a singleton row with id = 1.

func (r *parameterRepository) Get(ctx context.Context) (*domain.ParameterSet, error) {
	query := `
		SELECT late_fee_per_day, reservation_fee_per_day, loan_duration_days, active_loan_quota, updated_at
		FROM parameters
		WHERE id = 1
	`

	var params domain.ParameterSet
	if err := sqlx.GetContext(ctx, r.q, &params, query); err != nil {
		return nil, err
	}

	return &params, nil
}

func (r *parameterRepository) Upsert(ctx context.Context, params *domain.ParameterSet) error {
	query := `
		INSERT INTO parameters (id, late_fee_per_day, reservation_fee_per_day, loan_duration_days, active_loan_quota, updated_at)
		VALUES (1, $1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			late_fee_per_day = EXCLUDED.late_fee_per_day,
			reservation_fee_per_day = EXCLUDED.reservation_fee_per_day,
			loan_duration_days = EXCLUDED.loan_duration_days,
			active_loan_quota = EXCLUDED.active_loan_quota,
			updated_at = now()
	`

	_, err := r.q.ExecContext(ctx, query,
		params.LateFeePerDay,
		params.ReservationFeePerDay,
		params.LoanDurationDays,
		params.ActiveLoanQuota,
	)

	return err
}
