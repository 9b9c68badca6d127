package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	customError "github.com/Keira224/gestion-bibliotheque/pkg/errors"
	"github.com/Keira224/gestion-bibliotheque/tests/mocks"
)

func newReservationService(store *mocks.MockStore, params domain.ParameterSet, today time.Time) *ReservationService {
	store.ParameterRepo.On("Get", mock.Anything).Return(&params, nil).Maybe()
	return &ReservationService{
		store:  store,
		params: &ParameterService{store: store},
		now:    func() time.Time { return today },
	}
}

func TestCreateReservation_FullyBooked(t *testing.T) {
	// Arrange: 2 copies, 1 overlapping reservation + 1 open loan over the
	// window, so the work is fully claimed.
	store := &mocks.MockStore{}
	today := civilDate(2026, 3, 10)
	service := newReservationService(store, testParams(), today)

	memberID := uuid.New()
	workID := uuid.New()
	start := civilDate(2026, 4, 1)
	end := civilDate(2026, 4, 5)

	store.MemberRepo.On("GetByID", mock.Anything, memberID).Return(&domain.Member{ID: memberID}, nil)
	store.WorkRepo.On("GetByID", mock.Anything, workID).Return(&domain.Work{ID: workID, Title: "Une si longue lettre"}, nil)
	store.CopyRepo.On("CountByWork", mock.Anything, workID).Return(2, nil)
	store.ReservationRepo.On("CountOverlapping", mock.Anything, workID, start, end).Return(1, nil)
	store.LoanRepo.On("CountOpenByWorkDueAfter", mock.Anything, workID, start).Return(1, nil)
	store.ReservationRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
		// 4 days at 1000/day
		return r.Status == domain.ReservationStatusPending &&
			r.StartDate.Equal(start) && r.EndDate.Equal(end) &&
			r.EstimatedFee.Equal(decimal.NewFromInt(4000))
	})).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Type == domain.ActivityReservationCreated
	})).Return(nil)

	// Act
	reservation, err := service.Create(context.Background(), &domain.CreateReservationRequest{
		MemberID:  memberID,
		WorkID:    workID,
		StartDate: "2026-04-01",
		EndDate:   "2026-04-05",
	})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusPending, reservation.Status)
	assert.True(t, reservation.EstimatedFee.Equal(decimal.NewFromInt(4000)))
	store.AssertExpectations(t)
}

func TestCreateReservation_CopiesStillFree(t *testing.T) {
	store := &mocks.MockStore{}
	service := newReservationService(store, testParams(), civilDate(2026, 3, 10))

	memberID := uuid.New()
	workID := uuid.New()
	start := civilDate(2026, 4, 1)
	end := civilDate(2026, 4, 5)

	store.MemberRepo.On("GetByID", mock.Anything, memberID).Return(&domain.Member{ID: memberID}, nil)
	store.WorkRepo.On("GetByID", mock.Anything, workID).Return(&domain.Work{ID: workID}, nil)
	store.CopyRepo.On("CountByWork", mock.Anything, workID).Return(3, nil)
	store.ReservationRepo.On("CountOverlapping", mock.Anything, workID, start, end).Return(1, nil)
	store.LoanRepo.On("CountOpenByWorkDueAfter", mock.Anything, workID, start).Return(1, nil)

	reservation, err := service.Create(context.Background(), &domain.CreateReservationRequest{
		MemberID:  memberID,
		WorkID:    workID,
		StartDate: "2026-04-01",
		EndDate:   "2026-04-05",
	})

	assert.Nil(t, reservation)
	assert.ErrorIs(t, err, customError.ErrReservationNotNecessary)

	var bizErr *customError.BusinessError
	assert.ErrorAs(t, err, &bizErr)
	assert.Equal(t, 1, bizErr.Details["free_copies"])
	store.ReservationRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReservation_NoCopies(t *testing.T) {
	store := &mocks.MockStore{}
	service := newReservationService(store, testParams(), civilDate(2026, 3, 10))

	memberID := uuid.New()
	workID := uuid.New()

	store.MemberRepo.On("GetByID", mock.Anything, memberID).Return(&domain.Member{ID: memberID}, nil)
	store.WorkRepo.On("GetByID", mock.Anything, workID).Return(&domain.Work{ID: workID}, nil)
	store.CopyRepo.On("CountByWork", mock.Anything, workID).Return(0, nil)

	reservation, err := service.Create(context.Background(), &domain.CreateReservationRequest{
		MemberID:  memberID,
		WorkID:    workID,
		StartDate: "2026-04-01",
		EndDate:   "2026-04-05",
	})

	assert.Nil(t, reservation)
	assert.ErrorIs(t, err, customError.ErrNoCopies)
}

func TestCreateReservation_InvalidRanges(t *testing.T) {
	store := &mocks.MockStore{}
	service := newReservationService(store, testParams(), civilDate(2026, 3, 10))

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"end before start", "2026-04-05", "2026-04-01"},
		{"end equals start", "2026-04-01", "2026-04-01"},
		{"start in the past", "2026-03-01", "2026-03-20"},
		{"unparseable start", "01/04/2026", "2026-04-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reservation, err := service.Create(context.Background(), &domain.CreateReservationRequest{
				MemberID:  uuid.New(),
				WorkID:    uuid.New(),
				StartDate: tt.start,
				EndDate:   tt.end,
			})

			assert.Nil(t, reservation)
			assert.ErrorIs(t, err, customError.ErrInvalidDateRange)
		})
	}
}

func TestValidateReservation_Pending(t *testing.T) {
	store := &mocks.MockStore{}
	now := civilDate(2026, 3, 10)
	service := newReservationService(store, testParams(), now)

	reservationID := uuid.New()
	pending := &domain.Reservation{ID: reservationID, MemberID: uuid.New(), Status: domain.ReservationStatusPending}

	store.ReservationRepo.On("GetByIDForUpdate", mock.Anything, reservationID).Return(pending, nil)
	store.ReservationRepo.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
		return r.Status == domain.ReservationStatusValidated && r.ProcessedAt != nil
	})).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Type == domain.ActivityReservationValidated
	})).Return(nil)

	got, err := service.Validate(context.Background(), reservationID)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusValidated, got.Status)
	assert.NotNil(t, got.ProcessedAt)
	store.AssertExpectations(t)
}

func TestCancelReservation_AlreadyValidated(t *testing.T) {
	store := &mocks.MockStore{}
	service := newReservationService(store, testParams(), civilDate(2026, 3, 10))

	reservationID := uuid.New()
	store.ReservationRepo.On("GetByIDForUpdate", mock.Anything, reservationID).
		Return(&domain.Reservation{ID: reservationID, Status: domain.ReservationStatusValidated}, nil)

	got, err := service.Cancel(context.Background(), reservationID)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, customError.ErrReservationNotModifiable)
	store.ReservationRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestExpirePending(t *testing.T) {
	store := &mocks.MockStore{}
	today := civilDate(2026, 3, 10)
	service := newReservationService(store, testParams(), today)

	store.ReservationRepo.On("ExpirePending", mock.Anything, today, today).Return(3, nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Type == domain.ActivityReservationExpired
	})).Return(nil)

	count, err := service.ExpirePending(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 3, count)
	store.AssertExpectations(t)
}

func TestExpirePending_NothingToExpire(t *testing.T) {
	store := &mocks.MockStore{}
	today := civilDate(2026, 3, 10)
	service := newReservationService(store, testParams(), today)

	store.ReservationRepo.On("ExpirePending", mock.Anything, today, today).Return(0, nil)

	count, err := service.ExpirePending(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	store.ActivityRepo.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}
