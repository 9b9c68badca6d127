package domain

import (
	"time"

	"github.com/google/uuid"

	"github.com/Keira224/gestion-bibliotheque/pkg/utils"
)

const (
	LoanStatusActive   = "ACTIVE"
	LoanStatusReturned = "RETURNED"
	LoanStatusOverdue  = "OVERDUE"
)

// Loan represents one borrowing episode of a copy by a member.
// Status is a cached field recomputed from the dates; the dates are the
// source of truth.
type Loan struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	CopyID     uuid.UUID  `json:"copy_id" db:"copy_id"`
	MemberID   uuid.UUID  `json:"member_id" db:"member_id"`
	LoanDate   time.Time  `json:"loan_date" db:"loan_date"`
	DueDate    time.Time  `json:"due_date" db:"due_date"`
	ReturnDate *time.Time `json:"return_date" db:"return_date"`
	Status     string     `json:"status" db:"status"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// ReferenceReturnDate is the return date if recorded, otherwise today.
func (l *Loan) ReferenceReturnDate(today time.Time) time.Time {
	if l.ReturnDate != nil {
		return *l.ReturnDate
	}
	return today
}

// DaysLate returns how many whole days the reference date exceeds the due
// date, or zero when the loan is on time.
func (l *Loan) DaysLate(today time.Time) int {
	ref := l.ReferenceReturnDate(today)
	if !ref.After(l.DueDate) {
		return 0
	}
	return utils.DaysBetween(l.DueDate, ref)
}

// ComputeStatus derives the status from the dates. A recorded return is
// terminal: a loan returned after its due date still reads RETURNED, the
// lateness being kept by its penalty.
func (l *Loan) ComputeStatus(today time.Time) string {
	if l.ReturnDate != nil {
		return LoanStatusReturned
	}
	if today.After(l.DueDate) {
		return LoanStatusOverdue
	}
	return LoanStatusActive
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	CopyID   uuid.UUID `json:"copy_id" validate:"required"`
	MemberID uuid.UUID `json:"member_id" validate:"required"`
}

type ReturnLoanResponse struct {
	Loan    *Loan    `json:"loan"`
	Penalty *Penalty `json:"penalty"`
}

type RecalculateResponse struct {
	Recalculated int `json:"recalculated"`
}
