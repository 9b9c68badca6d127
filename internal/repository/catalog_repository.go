package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Keira224/gestion-bibliotheque/internal/domain"
)

type workRepository struct {
	q sqlx.ExtContext
}

func (r *workRepository) Create(ctx context.Context, work *domain.Work) error {
	query := `
		INSERT INTO works (id, title, author, isbn, created_at)
		VALUES ($1, $2, $3, $4, now())
	`

	_, err := r.q.ExecContext(ctx, query, work.ID, work.Title, work.Author, work.ISBN)
	return err
}

func (r *workRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Work, error) {
	query := `SELECT id, title, author, isbn, created_at FROM works WHERE id = $1`

	var work domain.Work
	if err := sqlx.GetContext(ctx, r.q, &work, query, id); err != nil {
		return nil, err
	}

	return &work, nil
}

type memberRepository struct {
	q sqlx.ExtContext
}

func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	query := `
		INSERT INTO members (id, full_name, email, phone, active, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`

	_, err := r.q.ExecContext(ctx, query, member.ID, member.FullName, member.Email, member.Phone, member.Active)
	return err
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `SELECT id, full_name, email, phone, active, created_at FROM members WHERE id = $1`

	var member domain.Member
	if err := sqlx.GetContext(ctx, r.q, &member, query, id); err != nil {
		return nil, err
	}

	return &member, nil
}

func (r *memberRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	query := `SELECT id, full_name, email, phone, active, created_at FROM members WHERE id = $1 FOR UPDATE`

	var member domain.Member
	if err := sqlx.GetContext(ctx, r.q, &member, query, id); err != nil {
		return nil, err
	}

	return &member, nil
}
