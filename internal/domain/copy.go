package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	CopyStatusAvailable = "AVAILABLE"
	CopyStatusLoaned    = "LOANED"
	CopyStatusLost      = "LOST"
	CopyStatusDamaged   = "DAMAGED"
)

// Copy is one physical instance of a work. Once loans exist its status is
// mutated only by the circulation service, never by catalogue CRUD.
type Copy struct {
	ID        uuid.UUID `json:"id" db:"id"`
	WorkID    uuid.UUID `json:"work_id" db:"work_id"`
	Barcode   string    `json:"barcode" db:"barcode"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

var validCopyStatuses = map[string]bool{
	CopyStatusAvailable: true,
	CopyStatusLoaned:    true,
	CopyStatusLost:      true,
	CopyStatusDamaged:   true,
}

func IsValidCopyStatus(status string) bool {
	return validCopyStatuses[status]
}

type CreateCopyRequest struct {
	Barcode string `json:"barcode"`
}

type UpdateCopyStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE LOST DAMAGED"`
}
