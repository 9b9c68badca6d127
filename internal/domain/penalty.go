package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GeneratePenaltyRequest optionally overrides the daily rate taken from the
// parameter set.
type GeneratePenaltyRequest struct {
	DailyRate *decimal.Decimal `json:"daily_rate"`
}

// Penalty is the charge attached to an overdue loan, at most one per loan.
// While unpaid it is recomputed as the loan gets later; once paid it is
// frozen.
type Penalty struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	LoanID    uuid.UUID       `json:"loan_id" db:"loan_id"`
	DaysLate  int             `json:"days_late" db:"days_late"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Paid      bool            `json:"paid" db:"paid"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
