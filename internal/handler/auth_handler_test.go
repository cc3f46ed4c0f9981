package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/models"
	"github.com/noah-isme/admissions-crm-api/internal/service"
	appErrors "github.com/noah-isme/admissions-crm-api/pkg/errors"
)

type fakeAuth struct {
	loginReq   models.LoginRequest
	loggedOut  *models.JWTClaims
	logoutMeta service.RequestMeta
	loginErr   error
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.loginReq = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600}, nil
}

func (f *fakeAuth) Logout(_ context.Context, claims *models.JWTClaims, meta service.RequestMeta) error {
	f.loggedOut = claims
	f.logoutMeta = meta
	return nil
}

func (f *fakeAuth) Me(_ context.Context, userID string) (*models.UserInfo, error) {
	return &models.UserInfo{ID: userID, Role: models.RoleViewer}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	auth := &fakeAuth{}
	h := NewAuthHandler(auth)

	c, rec := newTestContext(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@example.com","password":"pw"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("User-Agent", "dashboard")
	h.Login(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "dashboard", auth.loginReq.UserAgent)
	assert.Contains(t, rec.Body.String(), `"access":"token"`)
}

func TestAuthHandlerLoginFailure(t *testing.T) {
	h := NewAuthHandler(&fakeAuth{loginErr: appErrors.ErrInvalidCredentials})

	c, rec := newTestContext(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"a@example.com","password":"bad"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope(t, rec).Error.Code)
}

func TestAuthHandlerMeAndLogout(t *testing.T) {
	auth := &fakeAuth{}
	h := NewAuthHandler(auth)

	c, rec := newTestContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = newTestContext(http.MethodGet, "/auth/me", nil)
	withClaims(c, "user-1", models.RoleViewer)
	h.Me(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"user-1"`)

	c, _ = newTestContext(http.MethodPost, "/auth/logout", nil)
	withClaims(c, "user-1", models.RoleViewer)
	h.Logout(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	require.NotNil(t, auth.loggedOut)
	assert.Equal(t, "user-1", auth.loggedOut.UserID)
}
