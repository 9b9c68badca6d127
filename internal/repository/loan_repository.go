package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
)

type loanRepository struct {
	q sqlx.ExtContext
}

const loanColumns = `id, copy_id, member_id, loan_date, due_date, return_date, status, created_at, updated_at`

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (id, copy_id, member_id, loan_date, due_date, return_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
	`

	_, err := r.q.ExecContext(ctx, query,
		loan.ID,
		loan.CopyID,
		loan.MemberID,
		loan.LoanDate,
		loan.DueDate,
		loan.ReturnDate,
		loan.Status,
	)

	return err
}

func (r *loanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.q, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1 FOR UPDATE`

	var loan domain.Loan
	if err := sqlx.GetContext(ctx, r.q, &loan, query, id); err != nil {
		return nil, err
	}

	return &loan, nil
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET return_date = $2, status = $3, updated_at = now()
		WHERE id = $1
	`

	_, err := r.q.ExecContext(ctx, query, loan.ID, loan.ReturnDate, loan.Status)
	return err
}

func (r *loanRepository) List(ctx context.Context, status string, memberID *uuid.UUID, limit, offset int) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE ($1 = '' OR status = $1)
		  AND ($2::uuid IS NULL OR member_id = $2)
		ORDER BY loan_date DESC, created_at DESC
		LIMIT $3 OFFSET $4
	`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.q, &loans, query, status, memberID, limit, offset); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := sqlx.SelectContext(ctx, r.q, &ids, `SELECT id FROM loans ORDER BY created_at`); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *loanRepository) CountOpenByMember(ctx context.Context, memberID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*) FROM loans
		WHERE member_id = $1 AND status IN ('ACTIVE', 'OVERDUE')
	`

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, memberID); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *loanRepository) CountOpenByWorkDueAfter(ctx context.Context, workID uuid.UUID, date time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM loans l
		JOIN copies c ON c.id = l.copy_id
		WHERE c.work_id = $1
		  AND l.status IN ('ACTIVE', 'OVERDUE')
		  AND l.due_date >= $2
	`

	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, query, workID, date); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *loanRepository) ListOpenOverdue(ctx context.Context, today time.Time) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE return_date IS NULL AND due_date < $1
		ORDER BY due_date
	`

	var loans []*domain.Loan
	if err := sqlx.SelectContext(ctx, r.q, &loans, query, today); err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM loans`); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *loanRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM loans WHERE status = $1`, status); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *loanRepository) MostActiveMembers(ctx context.Context, limit int) ([]domain.MemberLoanCount, error) {
	query := `
		SELECT m.id AS member_id, m.full_name, COUNT(l.id) AS total
		FROM loans l
		JOIN members m ON m.id = l.member_id
		GROUP BY m.id, m.full_name
		ORDER BY total DESC
		LIMIT $1
	`

	var rows []domain.MemberLoanCount
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, limit); err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *loanRepository) MostBorrowedWorks(ctx context.Context, limit int) ([]domain.WorkLoanCount, error) {
	query := `
		SELECT w.id AS work_id, w.title, COUNT(l.id) AS total
		FROM loans l
		JOIN copies c ON c.id = l.copy_id
		JOIN works w ON w.id = c.work_id
		GROUP BY w.id, w.title
		ORDER BY total DESC
		LIMIT $1
	`

	var rows []domain.WorkLoanCount
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, limit); err != nil {
		return nil, err
	}

	return rows, nil
}
