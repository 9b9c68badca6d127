package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/internal/repository"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) List(ctx context.Context, status string, memberID *uuid.UUID, limit, offset int) ([]*domain.Loan, error) {
	args := m.Called(ctx, status, memberID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockLoanRepository) CountOpenByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	args := m.Called(ctx, memberID)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) CountOpenByWorkDueAfter(ctx context.Context, workID uuid.UUID, date time.Time) (int, error) {
	args := m.Called(ctx, workID, date)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) ListOpenOverdue(ctx context.Context, today time.Time) ([]*domain.Loan, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) CountAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

func (m *MockLoanRepository) MostActiveMembers(ctx context.Context, limit int) ([]domain.MemberLoanCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberLoanCount), args.Error(1)
}

func (m *MockLoanRepository) MostBorrowedWorks(ctx context.Context, limit int) ([]domain.WorkLoanCount, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkLoanCount), args.Error(1)
}

type MockCopyRepository struct {
	mock.Mock
}

func (m *MockCopyRepository) Create(ctx context.Context, copy *domain.Copy) error {
	args := m.Called(ctx, copy)
	return args.Error(0)
}

func (m *MockCopyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Copy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Copy), args.Error(1)
}

func (m *MockCopyRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Copy, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Copy), args.Error(1)
}

func (m *MockCopyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCopyRepository) CountByWork(ctx context.Context, workID uuid.UUID) (int, error) {
	args := m.Called(ctx, workID)
	return args.Int(0), args.Error(1)
}

type MockPenaltyRepository struct {
	mock.Mock
}

func (m *MockPenaltyRepository) Create(ctx context.Context, penalty *domain.Penalty) error {
	args := m.Called(ctx, penalty)
	return args.Error(0)
}

func (m *MockPenaltyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Penalty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Penalty), args.Error(1)
}

func (m *MockPenaltyRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Penalty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Penalty), args.Error(1)
}

func (m *MockPenaltyRepository) GetByLoanID(ctx context.Context, loanID uuid.UUID) (*domain.Penalty, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Penalty), args.Error(1)
}

func (m *MockPenaltyRepository) Update(ctx context.Context, penalty *domain.Penalty) error {
	args := m.Called(ctx, penalty)
	return args.Error(0)
}

func (m *MockPenaltyRepository) List(ctx context.Context, paid *bool, limit, offset int) ([]*domain.Penalty, error) {
	args := m.Called(ctx, paid, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Penalty), args.Error(1)
}

func (m *MockPenaltyRepository) CountUnpaid(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) Update(ctx context.Context, reservation *domain.Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockReservationRepository) List(ctx context.Context, status string, memberID *uuid.UUID, limit, offset int) ([]*domain.Reservation, error) {
	args := m.Called(ctx, status, memberID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) CountOverlapping(ctx context.Context, workID uuid.UUID, start, end time.Time) (int, error) {
	args := m.Called(ctx, workID, start, end)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) ExpirePending(ctx context.Context, before time.Time, processedAt time.Time) (int, error) {
	args := m.Called(ctx, before, processedAt)
	return args.Int(0), args.Error(1)
}

type MockWorkRepository struct {
	mock.Mock
}

func (m *MockWorkRepository) Create(ctx context.Context, work *domain.Work) error {
	args := m.Called(ctx, work)
	return args.Error(0)
}

func (m *MockWorkRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Work, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Work), args.Error(1)
}

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

type MockParameterRepository struct {
	mock.Mock
}

func (m *MockParameterRepository) Get(ctx context.Context) (*domain.ParameterSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParameterSet), args.Error(1)
}

func (m *MockParameterRepository) Upsert(ctx context.Context, params *domain.ParameterSet) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Record(ctx context.Context, activity *domain.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockActivityRepository) List(ctx context.Context, activityType string, limit, offset int) ([]*domain.Activity, error) {
	args := m.Called(ctx, activityType, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Activity), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]*domain.Payment, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

// MockStore aggregates the mock repositories. ExecTx runs the callback
// against the store itself, so use cases exercise the same expectations
// with or without a transaction.
type MockStore struct {
	LoanRepo        MockLoanRepository
	CopyRepo        MockCopyRepository
	PenaltyRepo     MockPenaltyRepository
	ReservationRepo MockReservationRepository
	WorkRepo        MockWorkRepository
	MemberRepo      MockMemberRepository
	ParameterRepo   MockParameterRepository
	ActivityRepo    MockActivityRepository
	PaymentRepo     MockPaymentRepository
}

func (m *MockStore) Loans() repository.LoanRepository               { return &m.LoanRepo }
func (m *MockStore) Copies() repository.CopyRepository              { return &m.CopyRepo }
func (m *MockStore) Penalties() repository.PenaltyRepository        { return &m.PenaltyRepo }
func (m *MockStore) Reservations() repository.ReservationRepository { return &m.ReservationRepo }
func (m *MockStore) Works() repository.WorkRepository               { return &m.WorkRepo }
func (m *MockStore) Members() repository.MemberRepository           { return &m.MemberRepo }
func (m *MockStore) Parameters() repository.ParameterRepository     { return &m.ParameterRepo }
func (m *MockStore) Activities() repository.ActivityRepository      { return &m.ActivityRepo }
func (m *MockStore) Payments() repository.PaymentRepository         { return &m.PaymentRepo }

func (m *MockStore) ExecTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(m)
}

func (m *MockStore) AssertExpectations(t mock.TestingT) {
	m.LoanRepo.AssertExpectations(t)
	m.CopyRepo.AssertExpectations(t)
	m.PenaltyRepo.AssertExpectations(t)
	m.ReservationRepo.AssertExpectations(t)
	m.WorkRepo.AssertExpectations(t)
	m.MemberRepo.AssertExpectations(t)
	m.ParameterRepo.AssertExpectations(t)
	m.ActivityRepo.AssertExpectations(t)
	m.PaymentRepo.AssertExpectations(t)
}
