package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/internal/repository"
	customError "github.com/Keira224/gestion-bibliotheque/pkg/errors"
	"github.com/Keira224/gestion-bibliotheque/pkg/utils"
)

// CirculationService owns the loan lifecycle: creation, returns, status
// recomputation and penalties. Every state change runs in one transaction,
// activity write included.
type CirculationService struct {
	store  repository.Store
	params *ParameterService
	now    func() time.Time
}

func NewCirculationService(store repository.Store, params *ParameterService) *CirculationService {
	return &CirculationService{
		store:  store,
		params: params,
		now:    time.Now,
	}
}

// CreateLoan loans a copy to a member. The copy row is locked so two
// concurrent calls cannot both see it AVAILABLE, and the member row is
// locked so two concurrent calls for different copies cannot both pass the
// quota check.
func (s *CirculationService) CreateLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	params := s.params.Get(ctx)
	today := utils.TruncateToDate(s.now())

	var loan *domain.Loan
	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		copy, err := tx.Copies().GetByIDForUpdate(ctx, request.CopyID)
		if err != nil {
			return notFoundOrDatabase(err, "Copy", request.CopyID)
		}

		member, err := tx.Members().GetByIDForUpdate(ctx, request.MemberID)
		if err != nil {
			return notFoundOrDatabase(err, "Member", request.MemberID)
		}

		if copy.Status != domain.CopyStatusAvailable {
			return customError.WrapCopyUnavailable(copy.Barcode, copy.Status)
		}

		open, err := tx.Loans().CountOpenByMember(ctx, member.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if open >= params.ActiveLoanQuota {
			return customError.WrapQuotaExceeded(open)
		}

		loan = &domain.Loan{
			ID:       uuid.New(),
			CopyID:   copy.ID,
			MemberID: member.ID,
			LoanDate: today,
			DueDate:  today.AddDate(0, 0, params.LoanDurationDays),
			Status:   domain.LoanStatusActive,
		}

		if err := tx.Loans().Create(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := tx.Copies().UpdateStatus(ctx, copy.ID, domain.CopyStatusLoaned); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return recordActivity(ctx, tx, domain.ActivityLoanCreated,
			fmt.Sprintf("Loan created for copy %s", copy.Barcode), &member.ID)
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

// RecordReturn closes a loan: sets the return date, recomputes the status,
// generates or refreshes the penalty and frees the copy.
func (s *CirculationService) RecordReturn(ctx context.Context, loanID uuid.UUID) (*domain.ReturnLoanResponse, error) {
	params := s.params.Get(ctx)
	today := utils.TruncateToDate(s.now())

	var result domain.ReturnLoanResponse
	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		loan, err := tx.Loans().GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return notFoundOrDatabase(err, "Loan", loanID)
		}

		if loan.ReturnDate != nil {
			return customError.WrapAlreadyReturned(loan.ID)
		}

		returned := today
		loan.ReturnDate = &returned
		loan.Status = loan.ComputeStatus(today)

		if err := tx.Loans().Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		penalty, err := s.generateOrUpdatePenalty(ctx, tx, loan, params.LateFeePerDay, today)
		if err != nil {
			return err
		}

		if err := tx.Copies().UpdateStatus(ctx, loan.CopyID, domain.CopyStatusAvailable); err != nil {
			return customError.WrapDatabaseError(err)
		}

		if err := recordActivity(ctx, tx, domain.ActivityReturnRecorded,
			fmt.Sprintf("Return recorded for loan %s", loan.ID), &loan.MemberID); err != nil {
			return err
		}

		result = domain.ReturnLoanResponse{Loan: loan, Penalty: penalty}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// RecalculateLoan recomputes one loan's cached status from its dates.
// Idempotent.
func (s *CirculationService) RecalculateLoan(ctx context.Context, loanID uuid.UUID) (*domain.Loan, error) {
	today := utils.TruncateToDate(s.now())

	var loan *domain.Loan
	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		var err error
		loan, err = tx.Loans().GetByIDForUpdate(ctx, loanID)
		if err != nil {
			return notFoundOrDatabase(err, "Loan", loanID)
		}

		status := loan.ComputeStatus(today)
		if status == loan.Status {
			return nil
		}

		loan.Status = status
		if err := tx.Loans().Update(ctx, loan); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return loan, nil
}

// RecalculateAll sweeps every loan and recomputes its status. Each loan is
// its own transaction; the sweep as a whole is not atomic.
func (s *CirculationService) RecalculateAll(ctx context.Context) (int, error) {
	ids, err := s.store.Loans().ListIDs(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	count := 0
	for _, id := range ids {
		if _, err := s.RecalculateLoan(ctx, id); err != nil {
			return count, err
		}
		count++
	}

	return count, nil
}

// RefreshPenalties regenerates penalties for every open overdue loan.
// Returns how many penalties were created or updated.
func (s *CirculationService) RefreshPenalties(ctx context.Context) (int, error) {
	params := s.params.Get(ctx)
	today := utils.TruncateToDate(s.now())

	loans, err := s.store.Loans().ListOpenOverdue(ctx, today)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	count := 0
	for _, loan := range loans {
		loan := loan
		err := s.store.ExecTx(ctx, func(tx repository.Store) error {
			penalty, err := s.generateOrUpdatePenalty(ctx, tx, loan, params.LateFeePerDay, today)
			if err != nil {
				return err
			}
			if penalty != nil {
				count++
			}
			return nil
		})
		if err != nil {
			return count, err
		}
	}

	return count, nil
}

// GenerateOrUpdatePenalty exposes the penalty rule for a single loan, with
// an optional rate override.
func (s *CirculationService) GenerateOrUpdatePenalty(ctx context.Context, loanID uuid.UUID, rate *decimal.Decimal) (*domain.Penalty, error) {
	dailyRate := s.params.Get(ctx).LateFeePerDay
	if rate != nil {
		dailyRate = *rate
	}
	today := utils.TruncateToDate(s.now())

	var penalty *domain.Penalty
	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		loan, err := tx.Loans().GetByID(ctx, loanID)
		if err != nil {
			return notFoundOrDatabase(err, "Loan", loanID)
		}

		penalty, err = s.generateOrUpdatePenalty(ctx, tx, loan, dailyRate, today)
		return err
	})
	if err != nil {
		return nil, err
	}

	return penalty, nil
}

// generateOrUpdatePenalty applies the penalty rule inside an open
// transaction. No-op when the loan is not late. A paid penalty is frozen and
// never touched again.
func (s *CirculationService) generateOrUpdatePenalty(ctx context.Context, tx repository.Store, loan *domain.Loan, dailyRate decimal.Decimal, today time.Time) (*domain.Penalty, error) {
	daysLate := loan.DaysLate(today)
	if daysLate <= 0 {
		return nil, nil
	}

	amount := dailyRate.Mul(decimal.NewFromInt(int64(daysLate)))

	penalty, err := tx.Penalties().GetByLoanID(ctx, loan.ID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapDatabaseError(err)
		}

		penalty = &domain.Penalty{
			ID:       uuid.New(),
			LoanID:   loan.ID,
			DaysLate: daysLate,
			Amount:   amount,
			Paid:     false,
		}

		if err := tx.Penalties().Create(ctx, penalty); err != nil {
			return nil, customError.WrapDatabaseError(err)
		}

		if err := recordActivity(ctx, tx, domain.ActivityPenaltyCreated,
			fmt.Sprintf("Penalty created for loan %s", loan.ID), &loan.MemberID); err != nil {
			return nil, err
		}

		return penalty, nil
	}

	if penalty.Paid {
		return penalty, nil
	}

	penalty.DaysLate = daysLate
	penalty.Amount = amount
	if err := tx.Penalties().Update(ctx, penalty); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return penalty, nil
}

// PayPenalty marks a penalty as paid and records the payment. Paying an
// already-paid penalty is a no-op.
func (s *CirculationService) PayPenalty(ctx context.Context, penaltyID uuid.UUID) (*domain.Penalty, error) {
	now := s.now()

	var penalty *domain.Penalty
	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		var err error
		penalty, err = tx.Penalties().GetByIDForUpdate(ctx, penaltyID)
		if err != nil {
			return notFoundOrDatabase(err, "Penalty", penaltyID)
		}

		if penalty.Paid {
			return nil
		}

		penalty.Paid = true
		if err := tx.Penalties().Update(ctx, penalty); err != nil {
			return customError.WrapDatabaseError(err)
		}

		loan, err := tx.Loans().GetByID(ctx, penalty.LoanID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		paidAt := now
		payment := &domain.Payment{
			ID:          uuid.New(),
			MemberID:    loan.MemberID,
			Kind:        domain.PaymentKindPenalty,
			ReferenceID: penalty.ID,
			Amount:      penalty.Amount,
			Status:      domain.PaymentStatusPaid,
			PaidAt:      &paidAt,
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return recordActivity(ctx, tx, domain.ActivityPenaltyPaid,
			fmt.Sprintf("Penalty paid for loan %s", penalty.LoanID), &loan.MemberID)
	})
	if err != nil {
		return nil, err
	}

	return penalty, nil
}

// ListLoans retrieves loans for display, optionally filtered.
func (s *CirculationService) ListLoans(ctx context.Context, status string, memberID *uuid.UUID, limit, offset int) ([]*domain.Loan, error) {
	loans, err := s.store.Loans().List(ctx, status, memberID, limit, offset)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return loans, nil
}

// ListMemberPayments retrieves the payments recorded for a member.
func (s *CirculationService) ListMemberPayments(ctx context.Context, memberID uuid.UUID) ([]*domain.Payment, error) {
	if _, err := s.store.Members().GetByID(ctx, memberID); err != nil {
		return nil, notFoundOrDatabase(err, "Member", memberID)
	}

	payments, err := s.store.Payments().ListByMember(ctx, memberID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return payments, nil
}

// ListPenalties retrieves penalties, optionally filtered by paid flag.
func (s *CirculationService) ListPenalties(ctx context.Context, paid *bool, limit, offset int) ([]*domain.Penalty, error) {
	penalties, err := s.store.Penalties().List(ctx, paid, limit, offset)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return penalties, nil
}

func recordActivity(ctx context.Context, tx repository.Store, activityType, message string, memberID *uuid.UUID) error {
	activity := &domain.Activity{
		ID:       uuid.New(),
		Type:     activityType,
		Message:  message,
		MemberID: memberID,
	}

	if err := tx.Activities().Record(ctx, activity); err != nil {
		return customError.WrapDatabaseError(err)
	}

	return nil
}

func notFoundOrDatabase(err error, entity string, id interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return customError.WrapNotFound(entity, id)
	}
	return customError.WrapDatabaseError(err)
}
