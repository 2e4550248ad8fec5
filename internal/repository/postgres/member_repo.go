package postgres

import (
	"context"
	"database/sql"
	"time"

	"campregistration/internal/domain"
)

const memberColumns = `id, name, email, approved, created_at, updated_at`

type memberRepository struct {
	DB *sql.DB
}

func NewMemberRepository(db *sql.DB) domain.MemberRepository {
	return &memberRepository{DB: db}
}

func (r *memberRepository) Create(ctx context.Context, m *domain.Member) error {
	query := `
		INSERT INTO members (name, email, approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, m.Name, m.Email, m.Approved, m.CreatedAt, m.UpdatedAt).Scan(&m.ID)
	if err != nil {
		if code, _ := pqCode(err); code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return classifyErr(err)
	}
	return nil
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`
	m, err := scanMember(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return m, nil
}

func (r *memberRepository) List(ctx context.Context, page domain.PaginationParams) ([]*domain.Member, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&total); err != nil {
		return nil, 0, classifyErr(err)
	}
	query := `
		SELECT ` + memberColumns + `
		FROM members
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, page.Limit(total), page.Offset())
	if err != nil {
		return nil, 0, classifyErr(err)
	}
	defer rows.Close()
	members := []*domain.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classifyErr(err)
	}
	return members, total, nil
}

func (r *memberRepository) Update(ctx context.Context, m *domain.Member) error {
	query := `
		UPDATE members
		SET name = $1, email = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.DB.ExecContext(ctx, query, m.Name, m.Email, m.UpdatedAt, m.ID)
	if err != nil {
		if code, _ := pqCode(err); code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return notFoundOr(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *memberRepository) SetApproval(ctx context.Context, id string, approved bool, updatedAt time.Time) (*domain.Member, error) {
	query := `
		UPDATE members
		SET approved = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + memberColumns
	m, err := scanMember(r.DB.QueryRowContext(ctx, query, approved, updatedAt, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return m, nil
}

// Delete removes the member. Shift registrations referencing it are left untouched.
func (r *memberRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return notFoundOr(err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMember(row rowScanner) (*domain.Member, error) {
	m := &domain.Member{}
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Approved, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return m, nil
}
