package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by id
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// GetByIDForUpdate retrieves a loan by id holding a row lock
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error)

	// Update persists return date and status changes
	Update(ctx context.Context, loan *domain.Loan) error

	// List retrieves loans filtered by status and/or member, newest first
	List(ctx context.Context, status string, memberID *uuid.UUID, limit, offset int) ([]*domain.Loan, error)

	// ListIDs retrieves every loan id, for the batch recompute sweep
	ListIDs(ctx context.Context) ([]uuid.UUID, error)

	// CountOpenByMember counts a member's ACTIVE/OVERDUE loans
	CountOpenByMember(ctx context.Context, memberID uuid.UUID) (int, error)

	// CountOpenByWorkDueAfter counts open loans on a work's copies whose due
	// date falls on or after the given date
	CountOpenByWorkDueAfter(ctx context.Context, workID uuid.UUID, date time.Time) (int, error)

	// ListOpenOverdue retrieves open loans past their due date
	ListOpenOverdue(ctx context.Context, today time.Time) ([]*domain.Loan, error)

	// CountAll counts every loan
	CountAll(ctx context.Context) (int, error)

	// CountByStatus counts loans in a given status
	CountByStatus(ctx context.Context, status string) (int, error)

	// MostActiveMembers aggregates loan counts per member
	MostActiveMembers(ctx context.Context, limit int) ([]domain.MemberLoanCount, error)

	// MostBorrowedWorks aggregates loan counts per work
	MostBorrowedWorks(ctx context.Context, limit int) ([]domain.WorkLoanCount, error)
}

// CopyRepository defines the interface for copy data operations
type CopyRepository interface {
	Create(ctx context.Context, copy *domain.Copy) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Copy, error)

	// GetByIDForUpdate retrieves a copy holding a row lock, so the AVAILABLE
	// precondition survives concurrent loan creation
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Copy, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	CountByWork(ctx context.Context, workID uuid.UUID) (int, error)
}

// PenaltyRepository defines the interface for penalty data operations
type PenaltyRepository interface {
	Create(ctx context.Context, penalty *domain.Penalty) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Penalty, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Penalty, error)

	// GetByLoanID retrieves the penalty attached to a loan, if any
	GetByLoanID(ctx context.Context, loanID uuid.UUID) (*domain.Penalty, error)

	Update(ctx context.Context, penalty *domain.Penalty) error
	List(ctx context.Context, paid *bool, limit, offset int) ([]*domain.Penalty, error)
	CountUnpaid(ctx context.Context) (int, error)
}

// ReservationRepository defines the interface for reservation data operations
type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Reservation, error)
	Update(ctx context.Context, reservation *domain.Reservation) error
	List(ctx context.Context, status string, memberID *uuid.UUID, limit, offset int) ([]*domain.Reservation, error)

	// CountOverlapping counts PENDING/VALIDATED reservations for a work whose
	// date range intersects [start, end]
	CountOverlapping(ctx context.Context, workID uuid.UUID, start, end time.Time) (int, error)

	// ExpirePending marks PENDING reservations ended before the given date as
	// EXPIRED and returns how many rows changed
	ExpirePending(ctx context.Context, before time.Time, processedAt time.Time) (int, error)
}

// WorkRepository defines the interface for work lookups
type WorkRepository interface {
	Create(ctx context.Context, work *domain.Work) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Work, error)
}

// MemberRepository defines the interface for member lookups
type MemberRepository interface {
	Create(ctx context.Context, member *domain.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error)

	// GetByIDForUpdate retrieves a member holding a row lock, serializing the
	// active-loan quota check against concurrent loan creation
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Member, error)
}

// ParameterRepository defines the interface for the parameters singleton
type ParameterRepository interface {
	Get(ctx context.Context) (*domain.ParameterSet, error)
	Upsert(ctx context.Context, params *domain.ParameterSet) error
}

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	Record(ctx context.Context, activity *domain.Activity) error
	List(ctx context.Context, activityType string, limit, offset int) ([]*domain.Activity, error)
}

// PaymentRepository defines the interface for payment records
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Payment, error)
}

// Store aggregates the repositories over a single database handle and runs
// multi-entity use cases in one transaction.
type Store interface {
	Loans() LoanRepository
	Copies() CopyRepository
	Penalties() PenaltyRepository
	Reservations() ReservationRepository
	Works() WorkRepository
	Members() MemberRepository
	Parameters() ParameterRepository
	Activities() ActivityRepository
	Payments() PaymentRepository

	// ExecTx runs fn against a transaction-scoped store. Rolls back when fn
	// returns an error, commits otherwise. Nested calls reuse the open
	// transaction.
	ExecTx(ctx context.Context, fn func(Store) error) error
}
