package domain

import (
	"context"
	"time"
)

// RoleAdmin is the token role that unlocks administrative endpoints.
const RoleAdmin = "admin"

// Admin is a camp organizer allowed to see and manage all registrations.
type Admin struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is what a verified token says about its bearer.
type Identity struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the identity carries role.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (*Identity, error)
}

// AdminRepository defines storage for admin accounts.
type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByEmail(ctx context.Context, email string) (*Admin, error)
}

// AdminAuthService signs admins in and provisions new admin accounts.
type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (token string, admin *Admin, err error)
	CreateAdmin(ctx context.Context, email, name, password string) (*Admin, error)
}
