package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/internal/repository"
	customError "github.com/Keira224/gestion-bibliotheque/pkg/errors"
	"github.com/Keira224/gestion-bibliotheque/pkg/utils"
)

// ReservationService arbitrates reservations against copy availability over
// date windows. A reservation is only granted when the work is genuinely
// fully booked for the requested window.
type ReservationService struct {
	store  repository.Store
	params *ParameterService
	now    func() time.Time
}

func NewReservationService(store repository.Store, params *ParameterService) *ReservationService {
	return &ReservationService{
		store:  store,
		params: params,
		now:    time.Now,
	}
}

// Create grants a reservation for [start, end) when every copy of the work
// is claimed over that window, counting PENDING/VALIDATED reservations that
// intersect it plus open loans due on or after its start.
func (s *ReservationService) Create(ctx context.Context, request *domain.CreateReservationRequest) (*domain.Reservation, error) {
	start, err := utils.ParseDate(request.StartDate)
	if err != nil {
		return nil, customError.WrapInvalidDateRange("start_date is not a valid date")
	}
	end, err := utils.ParseDate(request.EndDate)
	if err != nil {
		return nil, customError.WrapInvalidDateRange("end_date is not a valid date")
	}

	today := utils.TruncateToDate(s.now())
	if !end.After(start) {
		return nil, customError.WrapInvalidDateRange("end date must be after start date")
	}
	if start.Before(today) {
		return nil, customError.WrapInvalidDateRange("start date must not be in the past")
	}

	params := s.params.Get(ctx)

	var reservation *domain.Reservation
	err = s.store.ExecTx(ctx, func(tx repository.Store) error {
		member, err := tx.Members().GetByID(ctx, request.MemberID)
		if err != nil {
			return notFoundOrDatabase(err, "Member", request.MemberID)
		}

		work, err := tx.Works().GetByID(ctx, request.WorkID)
		if err != nil {
			return notFoundOrDatabase(err, "Work", request.WorkID)
		}

		totalCopies, err := tx.Copies().CountByWork(ctx, work.ID)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}
		if totalCopies == 0 {
			return customError.WrapNoCopies(work.ID)
		}

		reservationOverlap, err := tx.Reservations().CountOverlapping(ctx, work.ID, start, end)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		loanOverlap, err := tx.Loans().CountOpenByWorkDueAfter(ctx, work.ID, start)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if reservationOverlap+loanOverlap < totalCopies {
			return customError.WrapReservationNotNecessary(totalCopies - reservationOverlap - loanOverlap)
		}

		days := utils.DaysBetween(start, end)
		fee := params.ReservationFeePerDay.Mul(decimal.NewFromInt(int64(days)))

		reservation = &domain.Reservation{
			ID:           uuid.New(),
			MemberID:     member.ID,
			WorkID:       work.ID,
			StartDate:    start,
			EndDate:      end,
			EstimatedFee: fee,
			Status:       domain.ReservationStatusPending,
		}

		if err := tx.Reservations().Create(ctx, reservation); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return recordActivity(ctx, tx, domain.ActivityReservationCreated,
			fmt.Sprintf("Reservation created for work %q", work.Title), &member.ID)
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// Cancel moves a PENDING reservation to CANCELLED.
func (s *ReservationService) Cancel(ctx context.Context, reservationID uuid.UUID) (*domain.Reservation, error) {
	return s.transition(ctx, reservationID, domain.ReservationStatusCancelled, domain.ActivityReservationCancelled)
}

// Validate moves a PENDING reservation to VALIDATED.
func (s *ReservationService) Validate(ctx context.Context, reservationID uuid.UUID) (*domain.Reservation, error) {
	return s.transition(ctx, reservationID, domain.ReservationStatusValidated, domain.ActivityReservationValidated)
}

// Refuse moves a PENDING reservation to REFUSED.
func (s *ReservationService) Refuse(ctx context.Context, reservationID uuid.UUID) (*domain.Reservation, error) {
	return s.transition(ctx, reservationID, domain.ReservationStatusRefused, domain.ActivityReservationRefused)
}

// transition performs the single permitted PENDING -> terminal move,
// stamping the processing time. Terminal states never change again.
func (s *ReservationService) transition(ctx context.Context, reservationID uuid.UUID, target, activityType string) (*domain.Reservation, error) {
	now := s.now()

	var reservation *domain.Reservation
	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		var err error
		reservation, err = tx.Reservations().GetByIDForUpdate(ctx, reservationID)
		if err != nil {
			return notFoundOrDatabase(err, "Reservation", reservationID)
		}

		if reservation.Status != domain.ReservationStatusPending {
			return customError.WrapReservationNotModifiable(reservation.Status)
		}

		reservation.Status = target
		reservation.ProcessedAt = &now

		if err := tx.Reservations().Update(ctx, reservation); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return recordActivity(ctx, tx, activityType,
			fmt.Sprintf("Reservation %s marked %s", reservation.ID, target), &reservation.MemberID)
	})
	if err != nil {
		return nil, err
	}

	return reservation, nil
}

// ExpirePending marks PENDING reservations whose window has fully passed as
// EXPIRED. Returns how many reservations changed.
func (s *ReservationService) ExpirePending(ctx context.Context) (int, error) {
	now := s.now()
	today := utils.TruncateToDate(now)

	var expired int
	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		var err error
		expired, err = tx.Reservations().ExpirePending(ctx, today, now)
		if err != nil {
			return customError.WrapDatabaseError(err)
		}

		if expired == 0 {
			return nil
		}

		return recordActivity(ctx, tx, domain.ActivityReservationExpired,
			fmt.Sprintf("%d pending reservations expired", expired), nil)
	})
	if err != nil {
		return 0, err
	}

	return expired, nil
}

// List retrieves reservations for display, optionally filtered.
func (s *ReservationService) List(ctx context.Context, status string, memberID *uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	reservations, err := s.store.Reservations().List(ctx, status, memberID, limit, offset)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return reservations, nil
}
