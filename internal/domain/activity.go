package domain

import (
	"time"

	"github.com/google/uuid"
)

// Activity types recorded by the circulation engine.
const (
	ActivityLoanCreated          = "LOAN_CREATED"
	ActivityReturnRecorded       = "RETURN_RECORDED"
	ActivityPenaltyCreated       = "PENALTY_CREATED"
	ActivityPenaltyPaid          = "PENALTY_PAID"
	ActivityReservationCreated   = "RESERVATION_CREATED"
	ActivityReservationCancelled = "RESERVATION_CANCELLED"
	ActivityReservationValidated = "RESERVATION_VALIDATED"
	ActivityReservationRefused   = "RESERVATION_REFUSED"
	ActivityReservationExpired   = "RESERVATION_EXPIRED"
	ActivityWorkAdded            = "WORK_ADDED"
	ActivityCopyAdded            = "COPY_ADDED"
	ActivityMemberRegistered     = "MEMBER_REGISTERED"
)

// Activity is an append-only journal entry. The core never mutates or
// deletes entries once written.
type Activity struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Type      string     `json:"type" db:"type"`
	Message   string     `json:"message" db:"message"`
	MemberID  *uuid.UUID `json:"member_id" db:"member_id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
