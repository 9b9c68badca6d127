package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/tests/mocks"
)

func TestParameterGet_FallsBackWhenUnreadable(t *testing.T) {
	store := &mocks.MockStore{}
	service := &ParameterService{store: store}

	store.ParameterRepo.On("Get", mock.Anything).Return(nil, errors.New("relation does not exist"))

	params := service.Get(context.Background())

	assert.True(t, params.LateFeePerDay.Equal(domain.DefaultLateFeePerDay))
	assert.True(t, params.ReservationFeePerDay.Equal(domain.DefaultReservationFeePerDay))
	assert.Equal(t, domain.DefaultLoanDurationDays, params.LoanDurationDays)
	assert.Equal(t, domain.DefaultActiveLoanQuota, params.ActiveLoanQuota)
}

func TestParameterGet_NormalizesUnusableFields(t *testing.T) {
	// A stored row with a zero fee and a negative quota still yields usable
	// values, field by field.
	store := &mocks.MockStore{}
	service := &ParameterService{store: store}

	stored := &domain.ParameterSet{
		LateFeePerDay:        decimal.Zero,
		ReservationFeePerDay: decimal.NewFromInt(750),
		LoanDurationDays:     21,
		ActiveLoanQuota:      -1,
	}
	store.ParameterRepo.On("Get", mock.Anything).Return(stored, nil)

	params := service.Get(context.Background())

	assert.True(t, params.LateFeePerDay.Equal(domain.DefaultLateFeePerDay))
	assert.True(t, params.ReservationFeePerDay.Equal(decimal.NewFromInt(750)))
	assert.Equal(t, 21, params.LoanDurationDays)
	assert.Equal(t, domain.DefaultActiveLoanQuota, params.ActiveLoanQuota)
}

func TestParameterUpdate(t *testing.T) {
	store := &mocks.MockStore{}
	service := &ParameterService{store: store}

	req := &domain.UpdateParametersRequest{
		LateFeePerDay:        decimal.NewFromInt(500),
		ReservationFeePerDay: decimal.NewFromInt(800),
		LoanDurationDays:     21,
		ActiveLoanQuota:      5,
	}

	store.ParameterRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(p *domain.ParameterSet) bool {
		return p.LateFeePerDay.Equal(decimal.NewFromInt(500)) && p.LoanDurationDays == 21
	})).Return(nil)
	store.ParameterRepo.On("Get", mock.Anything).Return(&domain.ParameterSet{
		LateFeePerDay:        decimal.NewFromInt(500),
		ReservationFeePerDay: decimal.NewFromInt(800),
		LoanDurationDays:     21,
		ActiveLoanQuota:      5,
	}, nil)

	updated, err := service.Update(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, 5, updated.ActiveLoanQuota)
	store.AssertExpectations(t)
}
