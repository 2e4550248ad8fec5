package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"campregistration/internal/domain"
)

type shiftAllocator struct {
	registrations domain.ShiftRegistrationRepository
	members       domain.MemberService
	notifier      domain.ShiftNotifier
	logger        *slog.Logger
	now           func() time.Time
}

// NewShiftAllocator creates the kitchen-shift allocator. notifier may be nil.
func NewShiftAllocator(
	registrations domain.ShiftRegistrationRepository,
	members domain.MemberService,
	notifier domain.ShiftNotifier,
	logger *slog.Logger,
) domain.ShiftAllocator {
	return &shiftAllocator{
		registrations: registrations,
		members:       members,
		notifier:      notifier,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *shiftAllocator) Register(ctx context.Context, in domain.RegisterShiftInput) (*domain.RegisterResult, error) {
	req, err := in.Parse()
	if err != nil {
		return nil, err
	}

	member, err := s.members.GetApproved(ctx, req.MemberID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrMemberNotApproved) || errors.Is(err, domain.ErrRegistryUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("get member: %w", err)
	}

	name, email := req.MemberName, req.MemberEmail
	if name == "" {
		name = member.Name
	}
	if email == "" {
		email = member.Email
	}

	capacity := req.Slot.Capacity()
	reg := domain.NewShiftRegistration(member.ID, name, email, req.Slot, req.Role, s.now().UTC())
	before, err := s.registrations.CreateInSlot(ctx, reg, capacity)
	if err != nil {
		if domain.IsRejection(err) {
			s.logger.InfoContext(ctx, "shift registration rejected",
				"member_id", member.ID, "slot", req.Slot.Key(), "role", req.Role.String(), "reason", err.Error())
			return nil, err
		}
		if errors.Is(err, domain.ErrRegistryUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("create shift registration: %w", err)
	}

	s.logger.InfoContext(ctx, "shift registration accepted",
		"registration_id", reg.ID, "member_id", member.ID, "slot", req.Slot.Key(), "role", req.Role.String())

	if s.notifier != nil {
		if err := s.notifier.ShiftRegistered(ctx, reg); err != nil {
			s.logger.WarnContext(ctx, "shift confirmation not queued", "registration_id", reg.ID, "err", err)
		}
	}

	return &domain.RegisterResult{
		Registration:   reg,
		RemainingSpots: capacity - before - 1,
	}, nil
}

func (s *shiftAllocator) GetAvailability(ctx context.Context) ([]*domain.SlotAvailability, error) {
	regs, err := s.registrations.ListAll(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRegistryUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("list shift registrations: %w", err)
	}
	return domain.BuildAvailability(regs), nil
}

func (s *shiftAllocator) Remove(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrRegistryUnavailable) {
			return err
		}
		return fmt.Errorf("get shift registration: %w", err)
	}
	if err := s.registrations.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrRegistryUnavailable) {
			return err
		}
		return fmt.Errorf("delete shift registration: %w", err)
	}
	s.logger.InfoContext(ctx, "shift registration removed",
		"registration_id", id, "member_id", reg.MemberID, "slot", reg.Slot().Key(), "role", reg.Role.String())

	// Volunteers are kept when their manager leaves; the slot is flagged instead.
	if reg.Role == domain.RoleManager {
		remaining, err := s.registrations.ListBySlot(ctx, reg.Slot())
		if err != nil {
			s.logger.WarnContext(ctx, "could not check slot after manager removal", "slot", reg.Slot().Key(), "err", err)
			return nil
		}
		if len(remaining) > 0 {
			s.logger.WarnContext(ctx, "manager removed while volunteers remain",
				"slot", reg.Slot().Key(), "volunteers", len(remaining))
		}
	}
	return nil
}

func (s *shiftAllocator) ListRegistrations(ctx context.Context, page domain.PaginationParams) ([]*domain.ShiftRegistration, int, error) {
	regs, total, err := s.registrations.ListPage(ctx, page)
	if err != nil {
		if errors.Is(err, domain.ErrRegistryUnavailable) {
			return nil, 0, err
		}
		return nil, 0, fmt.Errorf("list shift registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.ShiftRegistration{}
	}
	return regs, total, nil
}
