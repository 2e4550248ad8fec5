package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campregistration/internal/delivery/http/helpers"
	"campregistration/internal/domain"
)

// fakeAdminAuthService implements domain.AdminAuthService for handler tests.
type fakeAdminAuthService struct {
	token string
	admin *domain.Admin
	err   error
}

func (f *fakeAdminAuthService) Login(_ context.Context, _, _ string) (string, *domain.Admin, error) {
	if f.err != nil {
		return "", nil, f.err
	}
	return f.token, f.admin, nil
}

func (f *fakeAdminAuthService) CreateAdmin(_ context.Context, _, _, _ string) (*domain.Admin, error) {
	return f.admin, f.err
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		svc        *fakeAdminAuthService
		wantStatus int
		wantCode   string
	}{
		{
			name:       "success",
			body:       `{"email":"lead@camp.test","password":"secret-pass"}`,
			svc:        &fakeAdminAuthService{token: "jwt", admin: &domain.Admin{ID: "a-1", Email: "lead@camp.test", PasswordHash: "hash"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing password",
			body:       `{"email":"lead@camp.test"}`,
			svc:        &fakeAdminAuthService{},
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeValidationFailed,
		},
		{
			name:       "bad credentials",
			body:       `{"email":"lead@camp.test","password":"wrong"}`,
			svc:        &fakeAdminAuthService{err: domain.ErrUnauthorized},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAuthController(testLogger(), tt.svc)
			req := httptest.NewRequest(http.MethodPost, "http://test/auth/login", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				envelope := decodeEnvelope(t, rr)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			raw := rr.Body.String()
			assert.NotContains(t, raw, "hash", "password hash must not be serialized")
			var body struct {
				Data LoginResponse `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(raw), &body))
			assert.Equal(t, "jwt", body.Data.Token)
			assert.Equal(t, "Bearer", body.Data.TokenType)
			assert.Equal(t, "a-1", body.Data.Admin.ID)
		})
	}
}
