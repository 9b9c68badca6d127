package service

import (
	"context"
	"database/sql"
	"errors"
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

func civilDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testParams() domain.ParameterSet {
	return domain.ParameterSet{
		LateFeePerDay:        decimal.NewFromInt(1000),
		ReservationFeePerDay: decimal.NewFromInt(1000),
		LoanDurationDays:     14,
		ActiveLoanQuota:      3,
	}
}

// newCirculationService wires the service over the mock store with a frozen
// clock. Parameter reads go through the same store.
func newCirculationService(store *mocks.MockStore, params domain.ParameterSet, today time.Time) *CirculationService {
	store.ParameterRepo.On("Get", mock.Anything).Return(&params, nil).Maybe()
	return &CirculationService{
		store:  store,
		params: &ParameterService{store: store},
		now:    func() time.Time { return today },
	}
}

func TestCreateLoan_Success(t *testing.T) {
	// Arrange
	store := &mocks.MockStore{}
	today := civilDate(2026, 3, 10)
	service := newCirculationService(store, testParams(), today)

	copyID := uuid.New()
	memberID := uuid.New()
	copy := &domain.Copy{ID: copyID, Barcode: "EX-1a2b3c4d-9f8e7d6c", Status: domain.CopyStatusAvailable}
	member := &domain.Member{ID: memberID, FullName: "Awa Diop", Active: true}

	store.CopyRepo.On("GetByIDForUpdate", mock.Anything, copyID).Return(copy, nil)
	store.MemberRepo.On("GetByIDForUpdate", mock.Anything, memberID).Return(member, nil)
	store.LoanRepo.On("CountOpenByMember", mock.Anything, memberID).Return(1, nil)
	store.LoanRepo.On("Create", mock.Anything, mock.MatchedBy(func(loan *domain.Loan) bool {
		return loan.CopyID == copyID &&
			loan.MemberID == memberID &&
			loan.LoanDate.Equal(today) &&
			loan.DueDate.Equal(civilDate(2026, 3, 24)) &&
			loan.Status == domain.LoanStatusActive
	})).Return(nil)
	store.CopyRepo.On("UpdateStatus", mock.Anything, copyID, domain.CopyStatusLoaned).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Type == domain.ActivityLoanCreated
	})).Return(nil)

	// Act
	loan, err := service.CreateLoan(context.Background(), &domain.CreateLoanRequest{CopyID: copyID, MemberID: memberID})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.LoanStatusActive, loan.Status)
	assert.Equal(t, civilDate(2026, 3, 24), loan.DueDate)
	store.AssertExpectations(t)
}

func TestCreateLoan_CopyUnavailable(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 10))

	copyID := uuid.New()
	memberID := uuid.New()
	store.CopyRepo.On("GetByIDForUpdate", mock.Anything, copyID).
		Return(&domain.Copy{ID: copyID, Barcode: "EX-x", Status: domain.CopyStatusLoaned}, nil)
	store.MemberRepo.On("GetByIDForUpdate", mock.Anything, memberID).
		Return(&domain.Member{ID: memberID}, nil)

	loan, err := service.CreateLoan(context.Background(), &domain.CreateLoanRequest{CopyID: copyID, MemberID: memberID})

	assert.Nil(t, loan)
	assert.ErrorIs(t, err, customError.ErrCopyUnavailable)

	var bizErr *customError.BusinessError
	assert.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeCopyUnavailable, bizErr.Code)
}

func TestCreateLoan_QuotaExceeded(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 10))

	copyID := uuid.New()
	memberID := uuid.New()
	store.CopyRepo.On("GetByIDForUpdate", mock.Anything, copyID).
		Return(&domain.Copy{ID: copyID, Status: domain.CopyStatusAvailable}, nil)
	store.MemberRepo.On("GetByIDForUpdate", mock.Anything, memberID).
		Return(&domain.Member{ID: memberID}, nil)
	store.LoanRepo.On("CountOpenByMember", mock.Anything, memberID).Return(3, nil)

	loan, err := service.CreateLoan(context.Background(), &domain.CreateLoanRequest{CopyID: copyID, MemberID: memberID})

	assert.Nil(t, loan)
	assert.ErrorIs(t, err, customError.ErrQuotaExceeded)
}

func TestCreateLoan_QuotaCheckHoldsMemberRowLock(t *testing.T) {
	// Two concurrent creations for different copies each lock their own copy
	// row; only the member row lock serializes the open-loan count, so the
	// quota read must go through the locking accessor, never the plain one.
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 10))

	copyID := uuid.New()
	memberID := uuid.New()

	store.CopyRepo.On("GetByIDForUpdate", mock.Anything, copyID).
		Return(&domain.Copy{ID: copyID, Barcode: "EX-a", Status: domain.CopyStatusAvailable}, nil)
	store.MemberRepo.On("GetByIDForUpdate", mock.Anything, memberID).
		Return(&domain.Member{ID: memberID}, nil)
	store.LoanRepo.On("CountOpenByMember", mock.Anything, memberID).Return(2, nil)
	store.LoanRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)
	store.CopyRepo.On("UpdateStatus", mock.Anything, copyID, domain.CopyStatusLoaned).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.AnythingOfType("*domain.Activity")).Return(nil)

	_, err := service.CreateLoan(context.Background(), &domain.CreateLoanRequest{CopyID: copyID, MemberID: memberID})

	assert.NoError(t, err)
	store.MemberRepo.AssertCalled(t, "GetByIDForUpdate", mock.Anything, memberID)
	store.MemberRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCreateLoan_CopyNotFound(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 10))

	copyID := uuid.New()
	store.CopyRepo.On("GetByIDForUpdate", mock.Anything, copyID).Return(nil, sql.ErrNoRows)

	loan, err := service.CreateLoan(context.Background(), &domain.CreateLoanRequest{CopyID: copyID, MemberID: uuid.New()})

	assert.Nil(t, loan)
	assert.ErrorIs(t, err, customError.ErrNotFound)
}

func TestRecordReturn_LateGeneratesPenalty(t *testing.T) {
	// Arrange: due 2026-03-01, returned 2026-03-03, rate 500 -> 2 * 500
	store := &mocks.MockStore{}
	params := testParams()
	params.LateFeePerDay = decimal.NewFromInt(500)
	today := civilDate(2026, 3, 3)
	service := newCirculationService(store, params, today)

	loanID := uuid.New()
	copyID := uuid.New()
	memberID := uuid.New()
	loan := &domain.Loan{
		ID:       loanID,
		CopyID:   copyID,
		MemberID: memberID,
		LoanDate: civilDate(2026, 2, 15),
		DueDate:  civilDate(2026, 3, 1),
		Status:   domain.LoanStatusOverdue,
	}

	store.LoanRepo.On("GetByIDForUpdate", mock.Anything, loanID).Return(loan, nil)
	store.LoanRepo.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.Status == domain.LoanStatusReturned && l.ReturnDate != nil && l.ReturnDate.Equal(today)
	})).Return(nil)
	store.PenaltyRepo.On("GetByLoanID", mock.Anything, loanID).Return(nil, sql.ErrNoRows)
	store.PenaltyRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Penalty) bool {
		return p.LoanID == loanID && p.DaysLate == 2 && p.Amount.Equal(decimal.NewFromInt(1000)) && !p.Paid
	})).Return(nil)
	store.CopyRepo.On("UpdateStatus", mock.Anything, copyID, domain.CopyStatusAvailable).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.AnythingOfType("*domain.Activity")).Return(nil)

	// Act
	result, err := service.RecordReturn(context.Background(), loanID)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, domain.LoanStatusReturned, result.Loan.Status)
	assert.NotNil(t, result.Penalty)
	assert.True(t, result.Penalty.Amount.Equal(decimal.NewFromInt(1000)))
	store.AssertExpectations(t)
}

func TestRecordReturn_OnTimeHasNoPenalty(t *testing.T) {
	store := &mocks.MockStore{}
	today := civilDate(2026, 3, 3)
	service := newCirculationService(store, testParams(), today)

	loanID := uuid.New()
	copyID := uuid.New()
	loan := &domain.Loan{
		ID:      loanID,
		CopyID:  copyID,
		DueDate: civilDate(2026, 3, 3),
		Status:  domain.LoanStatusActive,
	}

	store.LoanRepo.On("GetByIDForUpdate", mock.Anything, loanID).Return(loan, nil)
	store.LoanRepo.On("Update", mock.Anything, mock.AnythingOfType("*domain.Loan")).Return(nil)
	store.CopyRepo.On("UpdateStatus", mock.Anything, copyID, domain.CopyStatusAvailable).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.AnythingOfType("*domain.Activity")).Return(nil)

	result, err := service.RecordReturn(context.Background(), loanID)

	assert.NoError(t, err)
	assert.Equal(t, domain.LoanStatusReturned, result.Loan.Status)
	assert.Nil(t, result.Penalty)
	store.PenaltyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRecordReturn_AlreadyReturned(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 10))

	loanID := uuid.New()
	returned := civilDate(2026, 3, 1)
	store.LoanRepo.On("GetByIDForUpdate", mock.Anything, loanID).
		Return(&domain.Loan{ID: loanID, ReturnDate: &returned, Status: domain.LoanStatusReturned}, nil)

	result, err := service.RecordReturn(context.Background(), loanID)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, customError.ErrAlreadyReturned)
	store.LoanRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestGenerateOrUpdatePenalty_GrowsWhileUnpaid(t *testing.T) {
	// Loan three days late at 1000/day: an existing unpaid penalty is
	// recomputed to 3000.
	store := &mocks.MockStore{}
	today := civilDate(2026, 3, 4)
	service := newCirculationService(store, testParams(), today)

	loanID := uuid.New()
	loan := &domain.Loan{ID: loanID, DueDate: civilDate(2026, 3, 1), Status: domain.LoanStatusOverdue}
	existing := &domain.Penalty{ID: uuid.New(), LoanID: loanID, DaysLate: 1, Amount: decimal.NewFromInt(1000)}

	store.LoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	store.PenaltyRepo.On("GetByLoanID", mock.Anything, loanID).Return(existing, nil)
	store.PenaltyRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Penalty) bool {
		return p.DaysLate == 3 && p.Amount.Equal(decimal.NewFromInt(3000))
	})).Return(nil)

	penalty, err := service.GenerateOrUpdatePenalty(context.Background(), loanID, nil)

	assert.NoError(t, err)
	assert.True(t, penalty.Amount.Equal(decimal.NewFromInt(3000)))
	store.AssertExpectations(t)
}

func TestGenerateOrUpdatePenalty_RateOverride(t *testing.T) {
	store := &mocks.MockStore{}
	today := civilDate(2026, 3, 3)
	service := newCirculationService(store, testParams(), today)

	loanID := uuid.New()
	loan := &domain.Loan{ID: loanID, MemberID: uuid.New(), DueDate: civilDate(2026, 3, 1), Status: domain.LoanStatusOverdue}

	store.LoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	store.PenaltyRepo.On("GetByLoanID", mock.Anything, loanID).Return(nil, sql.ErrNoRows)
	store.PenaltyRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Penalty) bool {
		return p.DaysLate == 2 && p.Amount.Equal(decimal.NewFromInt(500))
	})).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.AnythingOfType("*domain.Activity")).Return(nil)

	rate := decimal.NewFromInt(250)
	penalty, err := service.GenerateOrUpdatePenalty(context.Background(), loanID, &rate)

	assert.NoError(t, err)
	assert.True(t, penalty.Amount.Equal(decimal.NewFromInt(500)))
	store.AssertExpectations(t)
}

func TestGenerateOrUpdatePenalty_FrozenOncePaid(t *testing.T) {
	store := &mocks.MockStore{}
	today := civilDate(2026, 3, 10)
	service := newCirculationService(store, testParams(), today)

	loanID := uuid.New()
	loan := &domain.Loan{ID: loanID, DueDate: civilDate(2026, 3, 1), Status: domain.LoanStatusOverdue}
	paid := &domain.Penalty{ID: uuid.New(), LoanID: loanID, DaysLate: 2, Amount: decimal.NewFromInt(2000), Paid: true}

	store.LoanRepo.On("GetByID", mock.Anything, loanID).Return(loan, nil)
	store.PenaltyRepo.On("GetByLoanID", mock.Anything, loanID).Return(paid, nil)

	penalty, err := service.GenerateOrUpdatePenalty(context.Background(), loanID, nil)

	assert.NoError(t, err)
	assert.True(t, penalty.Amount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, 2, penalty.DaysLate)
	store.PenaltyRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRecalculateLoan_FlipsActiveToOverdue(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 5))

	loanID := uuid.New()
	loan := &domain.Loan{ID: loanID, DueDate: civilDate(2026, 3, 1), Status: domain.LoanStatusActive}

	store.LoanRepo.On("GetByIDForUpdate", mock.Anything, loanID).Return(loan, nil)
	store.LoanRepo.On("Update", mock.Anything, mock.MatchedBy(func(l *domain.Loan) bool {
		return l.Status == domain.LoanStatusOverdue
	})).Return(nil)

	got, err := service.RecalculateLoan(context.Background(), loanID)

	assert.NoError(t, err)
	assert.Equal(t, domain.LoanStatusOverdue, got.Status)
	store.AssertExpectations(t)
}

func TestRecalculateLoan_Idempotent(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 5))

	loanID := uuid.New()
	loan := &domain.Loan{ID: loanID, DueDate: civilDate(2026, 3, 1), Status: domain.LoanStatusOverdue}
	store.LoanRepo.On("GetByIDForUpdate", mock.Anything, loanID).Return(loan, nil)

	got, err := service.RecalculateLoan(context.Background(), loanID)

	assert.NoError(t, err)
	assert.Equal(t, domain.LoanStatusOverdue, got.Status)
	store.LoanRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRecalculateAll(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 5))

	ids := []uuid.UUID{uuid.New(), uuid.New()}
	store.LoanRepo.On("ListIDs", mock.Anything).Return(ids, nil)
	for _, id := range ids {
		store.LoanRepo.On("GetByIDForUpdate", mock.Anything, id).
			Return(&domain.Loan{ID: id, DueDate: civilDate(2026, 4, 1), Status: domain.LoanStatusActive}, nil)
	}

	count, err := service.RecalculateAll(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPayPenalty_RecordsPayment(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 10))

	loanID := uuid.New()
	memberID := uuid.New()
	penaltyID := uuid.New()
	penalty := &domain.Penalty{ID: penaltyID, LoanID: loanID, DaysLate: 2, Amount: decimal.NewFromInt(2000)}

	store.PenaltyRepo.On("GetByIDForUpdate", mock.Anything, penaltyID).Return(penalty, nil)
	store.PenaltyRepo.On("Update", mock.Anything, mock.MatchedBy(func(p *domain.Penalty) bool {
		return p.Paid
	})).Return(nil)
	store.LoanRepo.On("GetByID", mock.Anything, loanID).
		Return(&domain.Loan{ID: loanID, MemberID: memberID}, nil)
	store.PaymentRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Kind == domain.PaymentKindPenalty &&
			p.Status == domain.PaymentStatusPaid &&
			p.MemberID == memberID &&
			p.Amount.Equal(decimal.NewFromInt(2000))
	})).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Type == domain.ActivityPenaltyPaid
	})).Return(nil)

	got, err := service.PayPenalty(context.Background(), penaltyID)

	assert.NoError(t, err)
	assert.True(t, got.Paid)
	store.AssertExpectations(t)
}

func TestPayPenalty_AlreadyPaidIsNoOp(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 10))

	penaltyID := uuid.New()
	store.PenaltyRepo.On("GetByIDForUpdate", mock.Anything, penaltyID).
		Return(&domain.Penalty{ID: penaltyID, Paid: true, Amount: decimal.NewFromInt(2000)}, nil)

	got, err := service.PayPenalty(context.Background(), penaltyID)

	assert.NoError(t, err)
	assert.True(t, got.Paid)
	store.PaymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRefreshPenalties(t *testing.T) {
	store := &mocks.MockStore{}
	today := civilDate(2026, 3, 5)
	service := newCirculationService(store, testParams(), today)

	overdue := &domain.Loan{ID: uuid.New(), MemberID: uuid.New(), DueDate: civilDate(2026, 3, 2), Status: domain.LoanStatusOverdue}

	store.LoanRepo.On("ListOpenOverdue", mock.Anything, today).Return([]*domain.Loan{overdue}, nil)
	store.PenaltyRepo.On("GetByLoanID", mock.Anything, overdue.ID).Return(nil, sql.ErrNoRows)
	store.PenaltyRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Penalty) bool {
		return p.DaysLate == 3 && p.Amount.Equal(decimal.NewFromInt(3000))
	})).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Type == domain.ActivityPenaltyCreated
	})).Return(nil)

	count, err := service.RefreshPenalties(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	store.AssertExpectations(t)
}

func TestListMemberPayments_MemberNotFound(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 10))

	memberID := uuid.New()
	store.MemberRepo.On("GetByID", mock.Anything, memberID).Return(nil, sql.ErrNoRows)

	payments, err := service.ListMemberPayments(context.Background(), memberID)

	assert.Nil(t, payments)
	assert.ErrorIs(t, err, customError.ErrNotFound)
	store.PaymentRepo.AssertNotCalled(t, "ListByMember", mock.Anything, mock.Anything)
}

func TestListLoans_WrapsDatabaseError(t *testing.T) {
	store := &mocks.MockStore{}
	service := newCirculationService(store, testParams(), civilDate(2026, 3, 10))

	store.LoanRepo.On("List", mock.Anything, "", (*uuid.UUID)(nil), 20, 0).
		Return(nil, errors.New("connection reset"))

	loans, err := service.ListLoans(context.Background(), "", nil, 20, 0)

	assert.Nil(t, loans)

	var bizErr *customError.BusinessError
	assert.ErrorAs(t, err, &bizErr)
	assert.Equal(t, customError.ErrCodeDatabaseError, bizErr.Code)
}
