package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PaymentKindPenalty     = "PENALTY"
	PaymentKindReservation = "RESERVATION"

	PaymentStatusInitiated = "INITIATED"
	PaymentStatusPaid      = "PAID"
	PaymentStatusCancelled = "CANCELLED"
)

// Payment records money collected for a penalty or a reservation fee.
// There is no gateway integration; status changes are administrative.
type Payment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	MemberID    uuid.UUID       `json:"member_id" db:"member_id"`
	Kind        string          `json:"kind" db:"kind"`
	ReferenceID uuid.UUID       `json:"reference_id" db:"reference_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Status      string          `json:"status" db:"status"`
	PaidAt      *time.Time      `json:"paid_at" db:"paid_at"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Dashboard DTOs

type MemberLoanCount struct {
	MemberID uuid.UUID `json:"member_id" db:"member_id"`
	FullName string    `json:"full_name" db:"full_name"`
	Total    int       `json:"total" db:"total"`
}

type WorkLoanCount struct {
	WorkID uuid.UUID `json:"work_id" db:"work_id"`
	Title  string    `json:"title" db:"title"`
	Total  int       `json:"total" db:"total"`
}

type DashboardStats struct {
	TotalLoans        int               `json:"total_loans"`
	OverdueLoans      int               `json:"overdue_loans"`
	UnpaidPenalties   int               `json:"unpaid_penalties"`
	MostActiveMembers []MemberLoanCount `json:"most_active_members"`
	MostBorrowedWorks []WorkLoanCount   `json:"most_borrowed_works"`
}
