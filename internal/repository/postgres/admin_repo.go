package postgres

import (
	"context"
	"database/sql"

	"campregistration/internal/domain"
)

type adminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) domain.AdminRepository {
	return &adminRepository{DB: db}
}

func (r *adminRepository) Create(ctx context.Context, a *domain.Admin) error {
	query := `
		INSERT INTO admins (email, name, password_hash, salt, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, a.Email, a.Name, a.PasswordHash, a.Salt, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		if code, _ := pqCode(err); code == uniqueViolation {
			return domain.ErrDuplicateEmail
		}
		return classifyErr(err)
	}
	return nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT id, email, name, password_hash, salt, created_at
		FROM admins
		WHERE email = $1
	`
	a := &domain.Admin{}
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&a.ID, &a.Email, &a.Name, &a.PasswordHash, &a.Salt, &a.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return a, nil
}
