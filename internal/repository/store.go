package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store over a sqlx database handle. The same type
// serves both the root handle and transaction scopes: q is either the *sqlx.DB
// or the open *sqlx.Tx.
type SQLStore struct {
	db *sqlx.DB
	q  sqlx.ExtContext
}

func NewStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, q: db}
}

func (s *SQLStore) Loans() LoanRepository               { return &loanRepository{q: s.q} }
func (s *SQLStore) Copies() CopyRepository              { return &copyRepository{q: s.q} }
func (s *SQLStore) Penalties() PenaltyRepository        { return &penaltyRepository{q: s.q} }
func (s *SQLStore) Reservations() ReservationRepository { return &reservationRepository{q: s.q} }
func (s *SQLStore) Works() WorkRepository               { return &workRepository{q: s.q} }
func (s *SQLStore) Members() MemberRepository           { return &memberRepository{q: s.q} }
func (s *SQLStore) Parameters() ParameterRepository     { return &parameterRepository{q: s.q} }
func (s *SQLStore) Activities() ActivityRepository      { return &activityRepository{q: s.q} }
func (s *SQLStore) Payments() PaymentRepository         { return &paymentRepository{q: s.q} }

func (s *SQLStore) ExecTx(ctx context.Context, fn func(Store) error) error {
	if _, inTx := s.q.(*sqlx.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&SQLStore{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}
