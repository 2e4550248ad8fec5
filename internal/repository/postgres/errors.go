package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"

	"campregistration/internal/domain"
)

const (
	uniqueViolation           = "23505"
	invalidTextRepresentation = "22P02"
)

// classifyErr marks connectivity and timeout failures as domain.ErrRegistryUnavailable
// and returns every other error unchanged.
func classifyErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", domain.ErrRegistryUnavailable, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 08: connection exception. 57P03: cannot connect now. 53300: too many connections.
		if pqErr.Code.Class() == "08" || pqErr.Code == "57P03" || pqErr.Code == "53300" {
			return fmt.Errorf("%w: %w", domain.ErrRegistryUnavailable, err)
		}
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", domain.ErrRegistryUnavailable, err)
	}
	return err
}

// pqCode returns the SQLSTATE of err, or "" when err is not a *pq.Error.
func pqCode(err error) (code, constraint string) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

// notFoundOr maps missing rows and malformed ids to domain.ErrNotFound.
func notFoundOr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if code, _ := pqCode(err); code == invalidTextRepresentation {
		return domain.ErrNotFound
	}
	return classifyErr(err)
}
