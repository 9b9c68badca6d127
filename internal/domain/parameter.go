package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Hardcoded fallbacks used when the parameters row is absent or unreadable.
// Circulation must keep working without it.
var (
	DefaultLateFeePerDay        = decimal.NewFromInt(1000)
	DefaultReservationFeePerDay = decimal.NewFromInt(1000)
)

const (
	DefaultLoanDurationDays = 14
	DefaultActiveLoanQuota  = 3
)

// ParameterSet is the singleton record of system-wide circulation tunables.
type ParameterSet struct {
	LateFeePerDay        decimal.Decimal `json:"late_fee_per_day" db:"late_fee_per_day"`
	ReservationFeePerDay decimal.Decimal `json:"reservation_fee_per_day" db:"reservation_fee_per_day"`
	LoanDurationDays     int             `json:"loan_duration_days" db:"loan_duration_days"`
	ActiveLoanQuota      int             `json:"active_loan_quota" db:"active_loan_quota"`
	UpdatedAt            time.Time       `json:"updated_at" db:"updated_at"`
}

type UpdateParametersRequest struct {
	LateFeePerDay        decimal.Decimal `json:"late_fee_per_day" validate:"required"`
	ReservationFeePerDay decimal.Decimal `json:"reservation_fee_per_day" validate:"required"`
	LoanDurationDays     int             `json:"loan_duration_days" validate:"required,gt=0"`
	ActiveLoanQuota      int             `json:"active_loan_quota" validate:"required,gt=0"`
}
