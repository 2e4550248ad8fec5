package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campregistration/internal/domain"
)

type mockMemberRepository struct {
	members   map[string]*domain.Member
	createErr error
	updateErr error
	created   *domain.Member
}

func (m *mockMemberRepository) Create(ctx context.Context, member *domain.Member) error {
	if m.createErr != nil {
		return m.createErr
	}
	member.ID = "new-member"
	m.created = member
	return nil
}

func (m *mockMemberRepository) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	mem, ok := m.members[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *mem
	return &cp, nil
}

func (m *mockMemberRepository) List(ctx context.Context, page domain.PaginationParams) ([]*domain.Member, int, error) {
	return nil, 0, nil
}

func (m *mockMemberRepository) Update(ctx context.Context, member *domain.Member) error {
	return m.updateErr
}

func (m *mockMemberRepository) SetApproval(ctx context.Context, id string, approved bool, updatedAt time.Time) (*domain.Member, error) {
	mem, ok := m.members[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	mem.Approved = approved
	mem.UpdatedAt = updatedAt
	return mem, nil
}

func (m *mockMemberRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.members[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.members, id)
	return nil
}

func TestMemberService_Create(t *testing.T) {
	tests := []struct {
		name      string
		inName    string
		inEmail   string
		createErr error
		wantErr   error
	}{
		{"success normalizes email", " Alice ", "Alice@Camp.Example", nil, nil},
		{"missing name", "", "a@camp.example", nil, domain.ErrInvalidInput},
		{"bad email", "Alice", "not-an-email", nil, domain.ErrInvalidInput},
		{"duplicate email", "Alice", "a@camp.example", domain.ErrDuplicateEmail, domain.ErrDuplicateEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockMemberRepository{createErr: tt.createErr}
			svc := NewMemberService(repo)
			m, err := svc.Create(context.Background(), tt.inName, tt.inEmail)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "new-member", m.ID)
			assert.Equal(t, "Alice", m.Name)
			assert.Equal(t, "alice@camp.example", m.Email)
			assert.False(t, m.Approved)
		})
	}
}

func TestMemberService_GetApproved(t *testing.T) {
	repo := &mockMemberRepository{members: map[string]*domain.Member{
		"ok":      {ID: "ok", Approved: true},
		"pending": {ID: "pending"},
	}}
	svc := NewMemberService(repo)

	m, err := svc.GetApproved(context.Background(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", m.ID)

	_, err = svc.GetApproved(context.Background(), "pending")
	require.ErrorIs(t, err, domain.ErrMemberNotApproved)

	_, err = svc.GetApproved(context.Background(), "ghost")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemberService_UpdateAndApprove(t *testing.T) {
	repo := &mockMemberRepository{members: map[string]*domain.Member{
		"m1": {ID: "m1", Name: "Alice", Email: "alice@camp.example"},
	}}
	svc := NewMemberService(repo)
	ctx := context.Background()

	newName := "  Alice Liddell "
	m, err := svc.Update(ctx, "m1", &newName, nil)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", m.Name)
	assert.Equal(t, "alice@camp.example", m.Email)

	bad := "nope"
	_, err = svc.Update(ctx, "m1", nil, &bad)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	m, err = svc.SetApproval(ctx, "m1", true)
	require.NoError(t, err)
	assert.True(t, m.Approved)

	_, err = svc.SetApproval(ctx, "ghost", true)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "m1"))
	require.ErrorIs(t, svc.Delete(ctx, "m1"), domain.ErrNotFound)
}
