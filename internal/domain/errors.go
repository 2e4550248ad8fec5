package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and repositories.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// ErrRegistryUnavailable marks transient store failures (unreachable, timed out).
	// Callers should retry later; it is never a business rejection.
	ErrRegistryUnavailable = errors.New("registry unavailable")
)

// Shift admission rejections. Exactly one is reported per attempt.
var (
	ErrDuplicateRegistration = errors.New("already registered for this shift")
	ErrSlotFull              = errors.New("shift is full")
	ErrManagerSlotTaken      = errors.New("shift already has a manager")
	ErrManagerRequiredFirst  = errors.New("shift manager required before volunteers")
)

// SlotFullError is returned when a slot has reached its capacity. It matches ErrSlotFull.
type SlotFullError struct {
	Capacity int
}

func (e *SlotFullError) Error() string {
	return fmt.Sprintf("%s: capacity %d", ErrSlotFull, e.Capacity)
}

func (e *SlotFullError) Unwrap() error { return ErrSlotFull }

// IsRejection reports whether err is one of the four admission rejections.
func IsRejection(err error) bool {
	return errors.Is(err, ErrDuplicateRegistration) ||
		errors.Is(err, ErrSlotFull) ||
		errors.Is(err, ErrManagerSlotTaken) ||
		errors.Is(err, ErrManagerRequiredFirst)
}

// ValidationError collects input-shape problems found before any store I/O. It matches ErrInvalidInput.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	msg := "validation failed"
	for i, p := range e.Problems {
		if i == 0 {
			msg += ": " + p
			continue
		}
		msg += "; " + p
	}
	return msg
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
