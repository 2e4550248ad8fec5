package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campregistration/internal/domain"
)

var shiftRegistrationCols = []string{"id", "member_id", "member_name", "member_email", "day", "shift_time", "role", "registered_at"}

func newRegistration(memberID string, slot domain.ShiftSlot, role domain.ShiftRole) *domain.ShiftRegistration {
	return domain.NewShiftRegistration(memberID, "Member "+memberID, memberID+"@camp.test", slot, role,
		time.Date(2026, 7, 6, 9, 0, 0, 0, time.UTC))
}

func TestShiftRegistrationRepository_CreateInSlot(t *testing.T) {
	ctx := context.Background()
	mondayMorning := domain.ShiftSlot{Day: domain.Monday, ShiftTime: domain.Morning}
	at := time.Date(2026, 7, 6, 9, 0, 0, 0, time.UTC)

	expectLockAndRead := func(mock sqlmock.Sqlmock, rows *sqlmock.Rows) {
		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
			WithArgs("Monday:morning").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT (.+) FROM shift_registrations\s+WHERE day = \$1 AND shift_time = \$2`).
			WithArgs("Monday", "morning").
			WillReturnRows(rows)
	}

	tests := []struct {
		name       string
		reg        *domain.ShiftRegistration
		mock       func(mock sqlmock.Sqlmock)
		wantBefore int
		wantID     string
		errIs      error
	}{
		{
			name: "manager into empty slot",
			reg:  newRegistration("alice", mondayMorning, domain.RoleManager),
			mock: func(mock sqlmock.Sqlmock) {
				expectLockAndRead(mock, sqlmock.NewRows(shiftRegistrationCols))
				mock.ExpectQuery(`INSERT INTO shift_registrations`).
					WithArgs("alice", "Member alice", "alice@camp.test", "Monday", "morning", "manager", at).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-1"))
				mock.ExpectCommit()
			},
			wantBefore: 0,
			wantID:     "reg-1",
		},
		{
			name: "volunteer after manager",
			reg:  newRegistration("bob", mondayMorning, domain.RoleVolunteer),
			mock: func(mock sqlmock.Sqlmock) {
				expectLockAndRead(mock, sqlmock.NewRows(shiftRegistrationCols).
					AddRow("reg-1", "alice", "Alice", "alice@camp.test", "Monday", "morning", "manager", at))
				mock.ExpectQuery(`INSERT INTO shift_registrations`).
					WithArgs("bob", "Member bob", "bob@camp.test", "Monday", "morning", "volunteer", at).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-2"))
				mock.ExpectCommit()
			},
			wantBefore: 1,
			wantID:     "reg-2",
		},
		{
			name: "volunteer without manager is rejected before insert",
			reg:  newRegistration("dave", mondayMorning, domain.RoleVolunteer),
			mock: func(mock sqlmock.Sqlmock) {
				expectLockAndRead(mock, sqlmock.NewRows(shiftRegistrationCols))
				mock.ExpectRollback()
			},
			errIs: domain.ErrManagerRequiredFirst,
		},
		{
			name: "full slot",
			reg:  newRegistration("eve", mondayMorning, domain.RoleVolunteer),
			mock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(shiftRegistrationCols).
					AddRow("reg-1", "m1", "M1", "m1@camp.test", "Monday", "morning", "manager", at)
				for _, id := range []string{"v1", "v2", "v3", "v4"} {
					rows.AddRow("reg-"+id, id, id, id+"@camp.test", "Monday", "morning", "volunteer", at)
				}
				expectLockAndRead(mock, rows)
				mock.ExpectRollback()
			},
			errIs: domain.ErrSlotFull,
		},
		{
			name: "duplicate member",
			reg:  newRegistration("alice", mondayMorning, domain.RoleVolunteer),
			mock: func(mock sqlmock.Sqlmock) {
				expectLockAndRead(mock, sqlmock.NewRows(shiftRegistrationCols).
					AddRow("reg-1", "alice", "Alice", "alice@camp.test", "Monday", "morning", "manager", at))
				mock.ExpectRollback()
			},
			errIs: domain.ErrDuplicateRegistration,
		},
		{
			name: "manager index violation maps to manager taken",
			reg:  newRegistration("carol", mondayMorning, domain.RoleManager),
			mock: func(mock sqlmock.Sqlmock) {
				expectLockAndRead(mock, sqlmock.NewRows(shiftRegistrationCols))
				mock.ExpectQuery(`INSERT INTO shift_registrations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "shift_registrations_one_manager_idx"})
				mock.ExpectRollback()
			},
			errIs: domain.ErrManagerSlotTaken,
		},
		{
			name: "member slot constraint maps to duplicate",
			reg:  newRegistration("alice", mondayMorning, domain.RoleManager),
			mock: func(mock sqlmock.Sqlmock) {
				expectLockAndRead(mock, sqlmock.NewRows(shiftRegistrationCols))
				mock.ExpectQuery(`INSERT INTO shift_registrations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "shift_registrations_member_slot_key"})
				mock.ExpectRollback()
			},
			errIs: domain.ErrDuplicateRegistration,
		},
		{
			name: "lock wait timeout is transient",
			reg:  newRegistration("alice", mondayMorning, domain.RoleManager),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`SELECT pg_advisory_xact_lock`).
					WillReturnError(context.DeadlineExceeded)
				mock.ExpectRollback()
			},
			errIs: domain.ErrRegistryUnavailable,
		},
		{
			name: "connection failure on begin is transient",
			reg:  newRegistration("alice", mondayMorning, domain.RoleManager),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(&pq.Error{Code: "08006"})
			},
			errIs: domain.ErrRegistryUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			repo := NewShiftRegistrationRepository(db, time.Second)
			before, err := repo.CreateInSlot(ctx, tt.reg, tt.reg.Slot().Capacity())
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				assert.Empty(t, tt.reg.ID)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantBefore, before)
				assert.Equal(t, tt.wantID, tt.reg.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestShiftRegistrationRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 7, 7, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		want  *domain.ShiftRegistration
		errIs error
	}{
		{
			name: "found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM shift_registrations\s+WHERE id = \$1`).
					WithArgs("reg-1").
					WillReturnRows(sqlmock.NewRows(shiftRegistrationCols).
						AddRow("reg-1", "m1", "Alice", "alice@camp.test", "Tuesday", "evening", "volunteer", at))
			},
			want: &domain.ShiftRegistration{
				ID: "reg-1", MemberID: "m1", MemberName: "Alice", MemberEmail: "alice@camp.test",
				Day: domain.Tuesday, ShiftTime: domain.Evening, Role: domain.RoleVolunteer, RegisteredAt: at,
			},
		},
		{
			name: "no rows",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM shift_registrations`).
					WithArgs("reg-1").
					WillReturnRows(sqlmock.NewRows(shiftRegistrationCols))
			},
			errIs: domain.ErrNotFound,
		},
		{
			name: "malformed id",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM shift_registrations`).
					WillReturnError(&pq.Error{Code: "22P02"})
			},
			errIs: domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			got, err := NewShiftRegistrationRepository(db, 0).GetByID(ctx, "reg-1")
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestShiftRegistrationRepository_ListAll(t *testing.T) {
	at := time.Date(2026, 7, 6, 9, 0, 0, 0, time.UTC)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM shift_registrations\s+ORDER BY registered_at, id`).
		WillReturnRows(sqlmock.NewRows(shiftRegistrationCols).
			AddRow("reg-1", "m1", "Alice", "alice@camp.test", "Monday", "morning", "manager", at).
			AddRow("reg-2", "m2", "Bob", "bob@camp.test", "Monday", "morning", "volunteer", at.Add(time.Minute)))

	regs, err := NewShiftRegistrationRepository(db, time.Second).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, domain.RoleManager, regs[0].Role)
	assert.Equal(t, "reg-2", regs[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestShiftRegistrationRepository_ListAll_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM shift_registrations`).
		WillReturnRows(sqlmock.NewRows(shiftRegistrationCols))

	regs, err := NewShiftRegistrationRepository(db, time.Second).ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, regs)
	assert.Empty(t, regs)
}

func TestShiftRegistrationRepository_ListAll_Unavailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM shift_registrations`).
		WillReturnError(&pq.Error{Code: "08001"})

	_, err = NewShiftRegistrationRepository(db, time.Second).ListAll(context.Background())
	require.ErrorIs(t, err, domain.ErrRegistryUnavailable)
}

func TestShiftRegistrationRepository_ListPage(t *testing.T) {
	at := time.Date(2026, 7, 6, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		page      domain.PaginationParams
		wantLimit int
		wantOff   int
	}{
		{"explicit page", domain.PaginationParams{Page: 2, PageSize: 1}, 1, 1},
		{"no page size returns everything", domain.PaginationParams{}, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM shift_registrations`).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
			mock.ExpectQuery(`SELECT (.+) FROM shift_registrations\s+ORDER BY\s+array_position`).
				WithArgs(tt.wantLimit, tt.wantOff).
				WillReturnRows(sqlmock.NewRows(shiftRegistrationCols).
					AddRow("reg-1", "m1", "Alice", "alice@camp.test", "Monday", "morning", "manager", at))

			regs, total, err := NewShiftRegistrationRepository(db, 0).ListPage(context.Background(), tt.page)
			require.NoError(t, err)
			assert.Equal(t, 2, total)
			assert.Len(t, regs, 1)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestShiftRegistrationRepository_Delete(t *testing.T) {
	tests := []struct {
		name  string
		mock  func(mock sqlmock.Sqlmock)
		errIs error
	}{
		{
			name: "deleted",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM shift_registrations WHERE id = \$1`).
					WithArgs("reg-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`DELETE FROM shift_registrations`).
					WithArgs("reg-1").
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			errIs: domain.ErrNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.mock(mock)

			err = NewShiftRegistrationRepository(db, 0).Delete(context.Background(), "reg-1")
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
