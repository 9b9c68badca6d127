package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	customError "github.com/Keira224/gestion-bibliotheque/pkg/errors"
	"github.com/Keira224/gestion-bibliotheque/tests/mocks"
)

func TestAddCopy_GeneratesBarcodeWhenBlank(t *testing.T) {
	store := &mocks.MockStore{}
	service := NewCatalogService(store)

	workID := uuid.New()
	store.WorkRepo.On("GetByID", mock.Anything, workID).
		Return(&domain.Work{ID: workID, Title: "Les bouts de bois de Dieu"}, nil)
	store.CopyRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *domain.Copy) bool {
		return c.WorkID == workID &&
			c.Status == domain.CopyStatusAvailable &&
			strings.HasPrefix(c.Barcode, "EX-")
	})).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Type == domain.ActivityCopyAdded
	})).Return(nil)

	copy, err := service.AddCopy(context.Background(), workID, &domain.CreateCopyRequest{})

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(copy.Barcode, "EX-"))
	store.AssertExpectations(t)
}

func TestRegisterMember(t *testing.T) {
	store := &mocks.MockStore{}
	service := NewCatalogService(store)

	store.MemberRepo.On("Create", mock.Anything, mock.MatchedBy(func(m *domain.Member) bool {
		return m.FullName == "Awa Diop" && m.Active
	})).Return(nil)
	store.ActivityRepo.On("Record", mock.Anything, mock.MatchedBy(func(a *domain.Activity) bool {
		return a.Type == domain.ActivityMemberRegistered
	})).Return(nil)

	member, err := service.RegisterMember(context.Background(), &domain.CreateMemberRequest{
		FullName: "Awa Diop",
		Email:    "awa@example.com",
	})

	assert.NoError(t, err)
	assert.True(t, member.Active)
	store.AssertExpectations(t)
}

func TestSetCopyStatus_RefusedWhileLoaned(t *testing.T) {
	store := &mocks.MockStore{}
	service := NewCatalogService(store)

	copyID := uuid.New()
	store.CopyRepo.On("GetByIDForUpdate", mock.Anything, copyID).
		Return(&domain.Copy{ID: copyID, Barcode: "EX-a", Status: domain.CopyStatusLoaned}, nil)

	copy, err := service.SetCopyStatus(context.Background(), copyID, domain.CopyStatusLost)

	assert.Nil(t, copy)
	assert.ErrorIs(t, err, customError.ErrCopyUnavailable)
	store.CopyRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetCopyStatus_RejectsUnknownStatus(t *testing.T) {
	store := &mocks.MockStore{}
	service := NewCatalogService(store)

	copy, err := service.SetCopyStatus(context.Background(), uuid.New(), "BORROWED")

	assert.Nil(t, copy)
	assert.ErrorIs(t, err, customError.ErrInvalidCopyStatus)
	store.CopyRepo.AssertNotCalled(t, "GetByIDForUpdate", mock.Anything, mock.Anything)
}

func TestSetCopyStatus_MarksLost(t *testing.T) {
	store := &mocks.MockStore{}
	service := NewCatalogService(store)

	copyID := uuid.New()
	store.CopyRepo.On("GetByIDForUpdate", mock.Anything, copyID).
		Return(&domain.Copy{ID: copyID, Barcode: "EX-a", Status: domain.CopyStatusAvailable}, nil)
	store.CopyRepo.On("UpdateStatus", mock.Anything, copyID, domain.CopyStatusLost).Return(nil)

	copy, err := service.SetCopyStatus(context.Background(), copyID, domain.CopyStatusLost)

	assert.NoError(t, err)
	assert.Equal(t, domain.CopyStatusLost, copy.Status)
	store.AssertExpectations(t)
}
