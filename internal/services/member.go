package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"campregistration/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type memberService struct {
	memberRepo domain.MemberRepository
}

// NewMemberService creates the member directory service.
func NewMemberService(memberRepo domain.MemberRepository) domain.MemberService {
	return &memberService{memberRepo: memberRepo}
}

func (s *memberService) Create(ctx context.Context, name, email string) (*domain.Member, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	now := time.Now().UTC()
	m := domain.NewMember(name, email, now, now)
	if err := s.memberRepo.Create(ctx, m); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create member: %w", err)
	}
	return m, nil
}

func (s *memberService) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	m, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

func (s *memberService) GetApproved(ctx context.Context, id string) (*domain.Member, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.Approved {
		return nil, domain.ErrMemberNotApproved
	}
	return m, nil
}

func (s *memberService) List(ctx context.Context, page domain.PaginationParams) ([]*domain.Member, int, error) {
	members, total, err := s.memberRepo.List(ctx, page)
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = []*domain.Member{}
	}
	return members, total, nil
}

// Update changes name and/or email. Existing shift registrations keep their snapshot.
func (s *memberService) Update(ctx context.Context, id string, name, email *string) (*domain.Member, error) {
	m, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		n := strings.TrimSpace(*name)
		if n == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrInvalidInput)
		}
		m.Name = n
	}
	if email != nil {
		e := strings.TrimSpace(strings.ToLower(*email))
		if !emailRegexp.MatchString(e) {
			return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
		}
		m.Email = e
	}
	m.UpdatedAt = time.Now().UTC()
	if err := s.memberRepo.Update(ctx, m); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update member: %w", err)
	}
	return m, nil
}

func (s *memberService) SetApproval(ctx context.Context, id string, approved bool) (*domain.Member, error) {
	m, err := s.memberRepo.SetApproval(ctx, id, approved, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set member approval: %w", err)
	}
	return m, nil
}

func (s *memberService) Delete(ctx context.Context, id string) error {
	if err := s.memberRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}
