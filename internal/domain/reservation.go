package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ReservationStatusPending   = "PENDING"
	ReservationStatusValidated = "VALIDATED"
	ReservationStatusRefused   = "REFUSED"
	ReservationStatusCancelled = "CANCELLED"
	ReservationStatusExpired   = "EXPIRED"
)

// Reservation is a member's claim on a work (not a specific copy) over the
// date range [start_date, end_date). Only PENDING reservations may
// transition, and they do so exactly once.
type Reservation struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	MemberID     uuid.UUID       `json:"member_id" db:"member_id"`
	WorkID       uuid.UUID       `json:"work_id" db:"work_id"`
	StartDate    time.Time       `json:"start_date" db:"start_date"`
	EndDate      time.Time       `json:"end_date" db:"end_date"`
	EstimatedFee decimal.Decimal `json:"estimated_fee" db:"estimated_fee"`
	Status       string          `json:"status" db:"status"`
	ProcessedAt  *time.Time      `json:"processed_at" db:"processed_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

type CreateReservationRequest struct {
	MemberID  uuid.UUID `json:"member_id" validate:"required"`
	WorkID    uuid.UUID `json:"work_id" validate:"required"`
	StartDate string    `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string    `json:"end_date" validate:"required,datetime=2006-01-02"`
}
