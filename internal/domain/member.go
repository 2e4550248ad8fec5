package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for member directory operations.
var (
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrMemberNotApproved = errors.New("member is not approved")
)

// Member is a camp member as held by the member directory.
// swagger:model Member
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewMember returns an unapproved Member. ID is typically set by the repository on create.
func NewMember(name, email string, createdAt, updatedAt time.Time) *Member {
	return &Member{
		Name:      name,
		Email:     email,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// MemberRepository defines storage operations for members.
type MemberRepository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	List(ctx context.Context, page PaginationParams) ([]*Member, int, error)
	Update(ctx context.Context, m *Member) error
	SetApproval(ctx context.Context, id string, approved bool, updatedAt time.Time) (*Member, error)
	Delete(ctx context.Context, id string) error
}

// MemberService is the member directory.
type MemberService interface {
	Create(ctx context.Context, name, email string) (*Member, error)
	GetByID(ctx context.Context, id string) (*Member, error)
	// GetApproved returns the member only when it exists and is approved.
	GetApproved(ctx context.Context, id string) (*Member, error)
	List(ctx context.Context, page PaginationParams) ([]*Member, int, error)
	Update(ctx context.Context, id string, name, email *string) (*Member, error)
	SetApproval(ctx context.Context, id string, approved bool) (*Member, error)
	Delete(ctx context.Context, id string) error
}
