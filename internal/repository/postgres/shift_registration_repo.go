package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campregistration/internal/domain"
)

const (
	shiftRegistrationColumns = `id, member_id, member_name, member_email, day, shift_time, role, registered_at`

	// Days by weekday, mornings first, then the manager ahead of volunteers.
	shiftRegistrationOrder = `
		array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday']::text[], day),
		CASE shift_time WHEN 'morning' THEN 0 ELSE 1 END,
		CASE role WHEN 'manager' THEN 0 ELSE 1 END,
		registered_at, id`

	memberSlotConstraint = "shift_registrations_member_slot_key"
	oneManagerIndex      = "shift_registrations_one_manager_idx"
)

type shiftRegistrationRepository struct {
	DB             *sql.DB
	connectTimeout time.Duration
}

// NewShiftRegistrationRepository returns the shift registry backed by Postgres.
// connectTimeout bounds how long an operation waits for a pooled connection; zero means no bound.
func NewShiftRegistrationRepository(db *sql.DB, connectTimeout time.Duration) domain.ShiftRegistrationRepository {
	return &shiftRegistrationRepository{DB: db, connectTimeout: connectTimeout}
}

func (r *shiftRegistrationRepository) conn(ctx context.Context) (*sql.Conn, error) {
	connCtx := ctx
	if r.connectTimeout > 0 {
		var cancel context.CancelFunc
		connCtx, cancel = context.WithTimeout(ctx, r.connectTimeout)
		defer cancel()
	}
	c, err := r.DB.Conn(connCtx)
	if err != nil {
		return nil, classifyErr(err)
	}
	return c, nil
}

// CreateInSlot serializes writers on one slot with a transaction-scoped advisory lock, so the
// read of the slot's registrations and the insert form a single decision.
func (r *shiftRegistrationRepository) CreateInSlot(ctx context.Context, reg *domain.ShiftRegistration, capacity int) (int, error) {
	c, err := r.conn(ctx)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	tx, err := c.BeginTx(ctx, nil)
	if err != nil {
		return 0, classifyErr(err)
	}
	defer func() { _ = tx.Rollback() }()

	slot := reg.Slot()
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, slot.Key()); err != nil {
		return 0, classifyErr(err)
	}

	query := `
		SELECT ` + shiftRegistrationColumns + `
		FROM shift_registrations
		WHERE day = $1 AND shift_time = $2
		ORDER BY registered_at, id
	`
	rows, err := tx.QueryContext(ctx, query, slot.Day.String(), slot.ShiftTime.String())
	if err != nil {
		return 0, classifyErr(err)
	}
	existing, err := scanShiftRegistrations(rows)
	if err != nil {
		return 0, err
	}

	if err := domain.AdmitToSlot(existing, reg.MemberID, reg.Role, capacity); err != nil {
		return 0, err
	}

	insert := `
		INSERT INTO shift_registrations (member_id, member_name, member_email, day, shift_time, role, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	err = tx.QueryRowContext(ctx, insert,
		reg.MemberID, reg.MemberName, reg.MemberEmail,
		reg.Day.String(), reg.ShiftTime.String(), reg.Role.String(), reg.RegisteredAt,
	).Scan(&reg.ID)
	if err != nil {
		return 0, mapInsertErr(err)
	}
	if err := tx.Commit(); err != nil {
		return 0, classifyErr(err)
	}
	return len(existing), nil
}

// mapInsertErr turns constraint violations that slipped past the lock into admission rejections.
func mapInsertErr(err error) error {
	code, constraint := pqCode(err)
	if code == uniqueViolation {
		switch constraint {
		case oneManagerIndex:
			return domain.ErrManagerSlotTaken
		case memberSlotConstraint:
			return domain.ErrDuplicateRegistration
		}
		return fmt.Errorf("insert shift registration: %w", err)
	}
	if code == invalidTextRepresentation {
		return fmt.Errorf("%w: malformed member id", domain.ErrInvalidInput)
	}
	return classifyErr(err)
}

func (r *shiftRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.ShiftRegistration, error) {
	query := `
		SELECT ` + shiftRegistrationColumns + `
		FROM shift_registrations
		WHERE id = $1
	`
	reg, err := scanShiftRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return reg, nil
}

func (r *shiftRegistrationRepository) ListBySlot(ctx context.Context, slot domain.ShiftSlot) ([]*domain.ShiftRegistration, error) {
	query := `
		SELECT ` + shiftRegistrationColumns + `
		FROM shift_registrations
		WHERE day = $1 AND shift_time = $2
		ORDER BY registered_at, id
	`
	rows, err := r.DB.QueryContext(ctx, query, slot.Day.String(), slot.ShiftTime.String())
	if err != nil {
		return nil, classifyErr(err)
	}
	return scanShiftRegistrations(rows)
}

func (r *shiftRegistrationRepository) ListAll(ctx context.Context) ([]*domain.ShiftRegistration, error) {
	c, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	query := `
		SELECT ` + shiftRegistrationColumns + `
		FROM shift_registrations
		ORDER BY registered_at, id
	`
	rows, err := c.QueryContext(ctx, query)
	if err != nil {
		return nil, classifyErr(err)
	}
	return scanShiftRegistrations(rows)
}

func (r *shiftRegistrationRepository) ListPage(ctx context.Context, page domain.PaginationParams) ([]*domain.ShiftRegistration, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM shift_registrations`).Scan(&total); err != nil {
		return nil, 0, classifyErr(err)
	}
	query := `
		SELECT ` + shiftRegistrationColumns + `
		FROM shift_registrations
		ORDER BY ` + shiftRegistrationOrder + `
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, page.Limit(total), page.Offset())
	if err != nil {
		return nil, 0, classifyErr(err)
	}
	regs, err := scanShiftRegistrations(rows)
	if err != nil {
		return nil, 0, err
	}
	return regs, total, nil
}

func (r *shiftRegistrationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM shift_registrations WHERE id = $1`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShiftRegistration(row rowScanner) (*domain.ShiftRegistration, error) {
	var (
		reg                  domain.ShiftRegistration
		day, shiftTime, role string
	)
	if err := row.Scan(&reg.ID, &reg.MemberID, &reg.MemberName, &reg.MemberEmail, &day, &shiftTime, &role, &reg.RegisteredAt); err != nil {
		return nil, err
	}
	var err error
	if reg.Day, err = domain.ParseDay(day); err != nil {
		return nil, fmt.Errorf("shift registration %s: %w", reg.ID, err)
	}
	if reg.ShiftTime, err = domain.ParseShiftTime(shiftTime); err != nil {
		return nil, fmt.Errorf("shift registration %s: %w", reg.ID, err)
	}
	if reg.Role, err = domain.ParseShiftRole(role); err != nil {
		return nil, fmt.Errorf("shift registration %s: %w", reg.ID, err)
	}
	return &reg, nil
}

func scanShiftRegistrations(rows *sql.Rows) ([]*domain.ShiftRegistration, error) {
	defer rows.Close()
	regs := []*domain.ShiftRegistration{}
	for rows.Next() {
		reg, err := scanShiftRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, classifyErr(err)
	}
	return regs, nil
}
