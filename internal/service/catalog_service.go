package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
	"github.com/Keira224/gestion-bibliotheque/internal/repository"
	customError "github.com/Keira224/gestion-bibliotheque/pkg/errors"
	"github.com/Keira224/gestion-bibliotheque/pkg/utils"
)

// CatalogService handles the administrative side of the inventory: adding
// works and copies, and flagging copies lost or damaged. Loan-driven status
// changes stay with the circulation service.
type CatalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

// AddWork registers a catalogued title.
func (s *CatalogService) AddWork(ctx context.Context, request *domain.CreateWorkRequest) (*domain.Work, error) {
	work := &domain.Work{
		ID:     uuid.New(),
		Title:  request.Title,
		Author: request.Author,
		ISBN:   request.ISBN,
	}

	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		if err := tx.Works().Create(ctx, work); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return recordActivity(ctx, tx, domain.ActivityWorkAdded,
			fmt.Sprintf("Work %q added to catalogue", work.Title), nil)
	})
	if err != nil {
		return nil, err
	}

	return work, nil
}

// AddCopy registers a physical copy of a work. The barcode is generated when
// the request leaves it blank.
func (s *CatalogService) AddCopy(ctx context.Context, workID uuid.UUID, request *domain.CreateCopyRequest) (*domain.Copy, error) {
	var copy *domain.Copy
	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		work, err := tx.Works().GetByID(ctx, workID)
		if err != nil {
			return notFoundOrDatabase(err, "Work", workID)
		}

		barcode := request.Barcode
		if barcode == "" {
			barcode = utils.GenerateBarcode(work.ID)
		}

		copy = &domain.Copy{
			ID:      uuid.New(),
			WorkID:  work.ID,
			Barcode: barcode,
			Status:  domain.CopyStatusAvailable,
		}

		if err := tx.Copies().Create(ctx, copy); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return recordActivity(ctx, tx, domain.ActivityCopyAdded,
			fmt.Sprintf("Copy %s added for work %q", copy.Barcode, work.Title), nil)
	})
	if err != nil {
		return nil, err
	}

	return copy, nil
}

// RegisterMember enrols a new borrower.
func (s *CatalogService) RegisterMember(ctx context.Context, request *domain.CreateMemberRequest) (*domain.Member, error) {
	member := &domain.Member{
		ID:       uuid.New(),
		FullName: request.FullName,
		Email:    request.Email,
		Phone:    request.Phone,
		Active:   true,
	}

	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		if err := tx.Members().Create(ctx, member); err != nil {
			return customError.WrapDatabaseError(err)
		}

		return recordActivity(ctx, tx, domain.ActivityMemberRegistered,
			fmt.Sprintf("Member %s registered", member.FullName), &member.ID)
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// SetCopyStatus flags a copy lost, damaged or back to available. Refused
// while the copy is out on loan; returning it goes through the circulation
// service instead.
func (s *CatalogService) SetCopyStatus(ctx context.Context, copyID uuid.UUID, status string) (*domain.Copy, error) {
	if !domain.IsValidCopyStatus(status) {
		return nil, customError.WrapInvalidCopyStatus(status)
	}

	var copy *domain.Copy
	err := s.store.ExecTx(ctx, func(tx repository.Store) error {
		var err error
		copy, err = tx.Copies().GetByIDForUpdate(ctx, copyID)
		if err != nil {
			return notFoundOrDatabase(err, "Copy", copyID)
		}

		if copy.Status == domain.CopyStatusLoaned {
			return customError.WrapCopyUnavailable(copy.Barcode, copy.Status)
		}

		if err := tx.Copies().UpdateStatus(ctx, copy.ID, status); err != nil {
			return customError.WrapDatabaseError(err)
		}

		copy.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	return copy, nil
}
