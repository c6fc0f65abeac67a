package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atinyakov/DevHub/internal/models"
	"github.com/atinyakov/DevHub/internal/service"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	user       *models.User
	pair       models.TokenPair
	access     models.AccessToken
	err        error
	gotCreds   models.Credentials
	gotRefresh string
}

func (f *fakeAuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	return f.user, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	f.gotCreds = creds
	return f.pair, f.err
}

func (f *fakeAuthService) Refresh(ctx context.Context, refresh string) (models.AccessToken, error) {
	f.gotRefresh = refresh
	return f.access, f.err
}

func TestAuthHandler_Register(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		service  *fakeAuthService
		wantCode int
		wantBody string
	}{
		{
			name:     "invalid JSON",
			body:     `not a json`,
			service:  &fakeAuthService{},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "field errors",
			body:     `{"username":"alice"}`,
			service:  &fakeAuthService{err: service.FieldErrors{"password": {"This field is required."}}},
			wantCode: http.StatusBadRequest,
			wantBody: `{"password":["This field is required."]}`,
		},
		{
			name:     "storage failure",
			body:     `{"username":"alice"}`,
			service:  &fakeAuthService{err: errors.New("db error")},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"detail":"internal error"}`,
		},
		{
			name:     "created",
			body:     `{"username":"alice","password":"x","confirm_password":"x"}`,
			service:  &fakeAuthService{user: &models.User{Username: "alice"}},
			wantCode: http.StatusCreated,
			wantBody: `{"username":"alice","email":"","first_name":"","last_name":""}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/register/", bytes.NewBufferString(tt.body))
			h := &AuthHandler{AuthService: tt.service}
			h.Register(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestAuthHandler_Token(t *testing.T) {
	tests := []struct {
		name     string
		service  *fakeAuthService
		wantCode int
		wantBody string
	}{
		{
			name:     "issued",
			service:  &fakeAuthService{pair: models.TokenPair{Access: "a", Refresh: "r"}},
			wantCode: http.StatusOK,
			wantBody: `{"access":"a","refresh":"r"}`,
		},
		{
			name:     "bad credentials",
			service:  &fakeAuthService{err: service.ErrInvalidCredentials},
			wantCode: http.StatusUnauthorized,
			wantBody: `{"detail":"No active account found with the given credentials"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/token/",
				bytes.NewBufferString(`{"username":"alice","password":"pw"}`))
			h := &AuthHandler{AuthService: tt.service}
			h.Token(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, models.Credentials{Username: "alice", Password: "pw"}, tt.service.gotCreds)
		})
	}
}

func TestAuthHandler_Refresh(t *testing.T) {
	svc := &fakeAuthService{err: service.ErrInvalidToken}
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/token/refresh/", bytes.NewBufferString(`{"refresh":"old"}`))
	(&AuthHandler{AuthService: svc}).Refresh(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"detail":"Token is invalid or expired","code":"token_not_valid"}`, rec.Body.String())
	assert.Equal(t, "old", svc.gotRefresh)

	svc = &fakeAuthService{access: models.AccessToken{Access: "new"}}
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/token/refresh/", bytes.NewBufferString(`{"refresh":"old"}`))
	(&AuthHandler{AuthService: svc}).Refresh(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access":"new"}`, rec.Body.String())
}
