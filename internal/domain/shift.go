package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Day is a camp weekday on which kitchen shifts run.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

var dayNames = [...]string{"", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

// Days lists the shift days in calendar order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// ParseDay accepts a weekday name (case-insensitive).
func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	for _, d := range Days {
		if strings.EqualFold(s, dayNames[d]) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: day must be one of Monday, Tuesday, Wednesday, Thursday, Friday", ErrInvalidInput)
}

func (d Day) Valid() bool { return d >= Monday && d <= Friday }

func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: day %d", ErrInvalidInput, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	v, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ShiftTime is the part of the day a kitchen shift covers.
type ShiftTime int

const (
	Morning ShiftTime = iota + 1
	Evening
)

// ShiftTimes lists shift times in the order they occur during a day.
var ShiftTimes = []ShiftTime{Morning, Evening}

const (
	MorningCapacity = 5
	EveningCapacity = 6
)

// ParseShiftTime accepts "morning" or "evening" (case-insensitive).
func ParseShiftTime(s string) (ShiftTime, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "morning":
		return Morning, nil
	case "evening":
		return Evening, nil
	}
	return 0, fmt.Errorf("%w: shiftTime must be morning or evening", ErrInvalidInput)
}

func (t ShiftTime) Valid() bool { return t == Morning || t == Evening }

// Capacity is the fixed number of seats in every slot at this time of day.
func (t ShiftTime) Capacity() int {
	switch t {
	case Morning:
		return MorningCapacity
	case Evening:
		return EveningCapacity
	}
	return 0
}

func (t ShiftTime) String() string {
	switch t {
	case Morning:
		return "morning"
	case Evening:
		return "evening"
	}
	return fmt.Sprintf("ShiftTime(%d)", int(t))
}

func (t ShiftTime) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: shift time %d", ErrInvalidInput, int(t))
	}
	return []byte(t.String()), nil
}

func (t *ShiftTime) UnmarshalText(b []byte) error {
	v, err := ParseShiftTime(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ShiftRole is the seat a member takes in a slot.
type ShiftRole int

const (
	RoleManager ShiftRole = iota + 1
	RoleVolunteer
)

// ParseShiftRole accepts "manager" or "volunteer" (case-insensitive).
func ParseShiftRole(s string) (ShiftRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "manager":
		return RoleManager, nil
	case "volunteer":
		return RoleVolunteer, nil
	}
	return 0, fmt.Errorf("%w: role must be manager or volunteer", ErrInvalidInput)
}

func (r ShiftRole) Valid() bool { return r == RoleManager || r == RoleVolunteer }

func (r ShiftRole) String() string {
	switch r {
	case RoleManager:
		return "manager"
	case RoleVolunteer:
		return "volunteer"
	}
	return fmt.Sprintf("ShiftRole(%d)", int(r))
}

func (r ShiftRole) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: role %d", ErrInvalidInput, int(r))
	}
	return []byte(r.String()), nil
}

func (r *ShiftRole) UnmarshalText(b []byte) error {
	v, err := ParseShiftRole(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ShiftSlot identifies one (day, shift time) pair. Slots are derived, never stored.
type ShiftSlot struct {
	Day       Day       `json:"day"`
	ShiftTime ShiftTime `json:"shiftTime"`
}

func (s ShiftSlot) Capacity() int { return s.ShiftTime.Capacity() }

// Key is a stable textual identity, e.g. "Monday:morning".
func (s ShiftSlot) Key() string { return s.Day.String() + ":" + s.ShiftTime.String() }

func (s ShiftSlot) String() string { return s.Day.String() + " " + s.ShiftTime.String() }

// AllSlots returns every slot in day-then-time order (Monday morning, Monday evening, ...).
func AllSlots() []ShiftSlot {
	slots := make([]ShiftSlot, 0, len(Days)*len(ShiftTimes))
	for _, d := range Days {
		for _, t := range ShiftTimes {
			slots = append(slots, ShiftSlot{Day: d, ShiftTime: t})
		}
	}
	return slots
}

// ShiftRegistration is one member's commitment to one slot. It is never mutated after commit.
// MemberName and MemberEmail are a snapshot taken at registration time.
// swagger:model ShiftRegistration
type ShiftRegistration struct {
	ID           string    `json:"id"`
	MemberID     string    `json:"memberId"`
	MemberName   string    `json:"memberName"`
	MemberEmail  string    `json:"memberEmail"`
	Day          Day       `json:"day"`
	ShiftTime    ShiftTime `json:"shiftTime"`
	Role         ShiftRole `json:"role"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// NewShiftRegistration returns a registration for the given member and slot. ID is set by the repository on create.
func NewShiftRegistration(memberID, memberName, memberEmail string, slot ShiftSlot, role ShiftRole, registeredAt time.Time) *ShiftRegistration {
	return &ShiftRegistration{
		MemberID:     memberID,
		MemberName:   memberName,
		MemberEmail:  memberEmail,
		Day:          slot.Day,
		ShiftTime:    slot.ShiftTime,
		Role:         role,
		RegisteredAt: registeredAt,
	}
}

func (r *ShiftRegistration) Slot() ShiftSlot {
	return ShiftSlot{Day: r.Day, ShiftTime: r.ShiftTime}
}

// AdmitToSlot decides whether memberID may take role in a slot that currently holds existing.
// Checks run in order and the first failure wins: duplicate, capacity, role ordering.
// existing must contain only registrations for that slot.
func AdmitToSlot(existing []*ShiftRegistration, memberID string, role ShiftRole, capacity int) error {
	managers := 0
	for _, r := range existing {
		if r.MemberID == memberID {
			return ErrDuplicateRegistration
		}
		if r.Role == RoleManager {
			managers++
		}
	}
	if len(existing) >= capacity {
		return &SlotFullError{Capacity: capacity}
	}
	switch role {
	case RoleManager:
		if managers >= 1 {
			return ErrManagerSlotTaken
		}
	case RoleVolunteer:
		if managers < 1 {
			return ErrManagerRequiredFirst
		}
	default:
		return fmt.Errorf("%w: unknown role", ErrInvalidInput)
	}
	return nil
}

// Registrant is the public view of a person holding a seat.
type Registrant struct {
	Name string    `json:"name"`
	Role ShiftRole `json:"role"`
}

// SlotAvailability is a read-only snapshot of one slot. HasOrphanedVolunteers is set when
// volunteers remain after their manager was removed.
// swagger:model SlotAvailability
type SlotAvailability struct {
	Day                   Day          `json:"day"`
	ShiftTime             ShiftTime    `json:"shiftTime"`
	Capacity              int          `json:"capacity"`
	ManagerCount          int          `json:"managerCount"`
	VolunteerCount        int          `json:"volunteerCount"`
	TotalRegistered       int          `json:"totalRegistered"`
	AvailableSpots        int          `json:"availableSpots"`
	NeedsManager          bool         `json:"needsManager"`
	CanRegisterVolunteer  bool         `json:"canRegisterVolunteer"`
	CanRegisterManager    bool         `json:"canRegisterManager"`
	HasOrphanedVolunteers bool         `json:"hasOrphanedVolunteers"`
	Registrants           []Registrant `json:"registrants"`
}

// BuildAvailability derives the 10-slot matrix from regs. Registrants keep the order of regs.
func BuildAvailability(regs []*ShiftRegistration) []*SlotAvailability {
	bySlot := make(map[ShiftSlot][]*ShiftRegistration)
	for _, r := range regs {
		bySlot[r.Slot()] = append(bySlot[r.Slot()], r)
	}

	out := make([]*SlotAvailability, 0, len(Days)*len(ShiftTimes))
	for _, slot := range AllSlots() {
		a := &SlotAvailability{
			Day:         slot.Day,
			ShiftTime:   slot.ShiftTime,
			Capacity:    slot.Capacity(),
			Registrants: []Registrant{},
		}
		for _, r := range bySlot[slot] {
			switch r.Role {
			case RoleManager:
				a.ManagerCount++
			case RoleVolunteer:
				a.VolunteerCount++
			}
			a.Registrants = append(a.Registrants, Registrant{Name: r.MemberName, Role: r.Role})
		}
		a.TotalRegistered = len(bySlot[slot])
		a.AvailableSpots = a.Capacity - a.TotalRegistered
		a.NeedsManager = a.ManagerCount == 0
		a.CanRegisterVolunteer = a.ManagerCount > 0 && a.AvailableSpots > 0
		a.CanRegisterManager = a.ManagerCount == 0 && a.AvailableSpots > 0
		a.HasOrphanedVolunteers = a.ManagerCount == 0 && a.VolunteerCount > 0
		out = append(out, a)
	}
	return out
}

// RegisterShiftInput is a raw registration request; fields are parsed by Parse.
type RegisterShiftInput struct {
	MemberID    string
	MemberName  string
	MemberEmail string
	Day         string
	ShiftTime   string
	Role        string
}

// RegisterShiftRequest is a shape-validated registration request.
type RegisterShiftRequest struct {
	MemberID    string
	MemberName  string
	MemberEmail string
	Slot        ShiftSlot
	Role        ShiftRole
}

// Parse validates the input shape and returns every problem found in one ValidationError.
func (in RegisterShiftInput) Parse() (*RegisterShiftRequest, error) {
	var problems []string
	req := &RegisterShiftRequest{
		MemberID:    strings.TrimSpace(in.MemberID),
		MemberName:  strings.TrimSpace(in.MemberName),
		MemberEmail: strings.TrimSpace(strings.ToLower(in.MemberEmail)),
	}
	if req.MemberID == "" {
		problems = append(problems, "memberId is required")
	}
	var err error
	if req.Slot.Day, err = ParseDay(in.Day); err != nil {
		problems = append(problems, "day must be one of Monday, Tuesday, Wednesday, Thursday, Friday")
	}
	if req.Slot.ShiftTime, err = ParseShiftTime(in.ShiftTime); err != nil {
		problems = append(problems, "shiftTime must be morning or evening")
	}
	if req.Role, err = ParseShiftRole(in.Role); err != nil {
		problems = append(problems, "role must be manager or volunteer")
	}
	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return req, nil
}

// RegisterResult is returned for an accepted registration.
type RegisterResult struct {
	Registration   *ShiftRegistration
	RemainingSpots int
}

// ShiftRegistrationRepository is the shift registry.
type ShiftRegistrationRepository interface {
	// CreateInSlot loads the slot's current registrations, runs AdmitToSlot against them and inserts reg,
	// all atomically with respect to other writers on the same slot. It returns the number of
	// registrations in the slot before the insert.
	CreateInSlot(ctx context.Context, reg *ShiftRegistration, capacity int) (int, error)
	GetByID(ctx context.Context, id string) (*ShiftRegistration, error)
	ListBySlot(ctx context.Context, slot ShiftSlot) ([]*ShiftRegistration, error)
	// ListAll returns every registration in insertion order.
	ListAll(ctx context.Context) ([]*ShiftRegistration, error)
	// ListPage returns registrations sorted by day, shift time and managers first, plus the total count.
	ListPage(ctx context.Context, page PaginationParams) ([]*ShiftRegistration, int, error)
	Delete(ctx context.Context, id string) error
}

// ShiftNotifier is told about every committed registration.
type ShiftNotifier interface {
	ShiftRegistered(ctx context.Context, reg *ShiftRegistration) error
}

// ShiftAllocator decides kitchen-shift registrations and reports availability.
type ShiftAllocator interface {
	Register(ctx context.Context, in RegisterShiftInput) (*RegisterResult, error)
	GetAvailability(ctx context.Context) ([]*SlotAvailability, error)
	Remove(ctx context.Context, id string) error
	ListRegistrations(ctx context.Context, page PaginationParams) ([]*ShiftRegistration, int, error)
}
