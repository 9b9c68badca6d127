package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound                 = errors.New("entity not found")
	ErrCopyUnavailable          = errors.New("copy is not available")
	ErrQuotaExceeded            = errors.New("active loan quota exceeded")
	ErrAlreadyReturned          = errors.New("loan is already returned")
	ErrReservationNotModifiable = errors.New("reservation is no longer modifiable")
	ErrInvalidDateRange         = errors.New("invalid reservation date range")
	ErrNoCopies                 = errors.New("work has no copies")
	ErrInvalidCopyStatus        = errors.New("unknown copy status")
	ErrReservationNotNecessary  = errors.New("copies are available, reservation not necessary")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeNotFound                 = "NOT_FOUND"
	ErrCodeCopyUnavailable          = "COPY_UNAVAILABLE"
	ErrCodeQuotaExceeded            = "QUOTA_EXCEEDED"
	ErrCodeAlreadyReturned          = "ALREADY_RETURNED"
	ErrCodeReservationNotModifiable = "RESERVATION_NOT_MODIFIABLE"
	ErrCodeInvalidDateRange         = "INVALID_DATE_RANGE"
	ErrCodeNoCopies                 = "NO_COPIES"
	ErrCodeInvalidCopyStatus        = "INVALID_COPY_STATUS"
	ErrCodeReservationNotNecessary  = "RESERVATION_NOT_NECESSARY"
	ErrCodeDatabaseError            = "DATABASE_ERROR"
	ErrCodeCacheError               = "CACHE_ERROR"
)

// Wrap common errors with business context
func WrapNotFound(entity string, id interface{}) *BusinessError {
	return NewBusinessError(
		ErrCodeNotFound,
		fmt.Sprintf("%s %v not found", entity, id),
		ErrNotFound,
	)
}

func WrapCopyUnavailable(barcode, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeCopyUnavailable,
		fmt.Sprintf("Copy %s is %s, not available for loan", barcode, status),
		ErrCopyUnavailable,
	)
}

func WrapQuotaExceeded(quota int) *BusinessError {
	return NewBusinessError(
		ErrCodeQuotaExceeded,
		fmt.Sprintf("Member already holds %d open loans", quota),
		ErrQuotaExceeded,
	)
}

func WrapAlreadyReturned(loanID interface{}) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyReturned,
		fmt.Sprintf("Loan %v is already returned", loanID),
		ErrAlreadyReturned,
	)
}

func WrapReservationNotModifiable(status string) *BusinessError {
	return NewBusinessError(
		ErrCodeReservationNotModifiable,
		fmt.Sprintf("Reservation is %s and can no longer change", status),
		ErrReservationNotModifiable,
	)
}

func WrapInvalidDateRange(reason string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDateRange,
		reason,
		ErrInvalidDateRange,
	)
}

func WrapInvalidCopyStatus(status string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidCopyStatus,
		fmt.Sprintf("%q is not a copy status", status),
		ErrInvalidCopyStatus,
	)
}

func WrapNoCopies(workID interface{}) *BusinessError {
	return NewBusinessError(
		ErrCodeNoCopies,
		fmt.Sprintf("Work %v has no copies to reserve", workID),
		ErrNoCopies,
	)
}

// WrapReservationNotNecessary carries the number of copies free over the
// requested window so the caller can borrow directly instead.
func WrapReservationNotNecessary(freeCopies int) *BusinessError {
	e := NewBusinessError(
		ErrCodeReservationNotNecessary,
		fmt.Sprintf("%d copies are free over the requested window, borrow directly", freeCopies),
		ErrReservationNotNecessary,
	)
	e.Details = map[string]interface{}{"free_copies": freeCopies}
	return e
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"cache operation failed",
		err,
	)
}
