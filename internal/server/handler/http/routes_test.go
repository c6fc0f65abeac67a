package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/atinyakov/DevHub/internal/models"
	"github.com/atinyakov/DevHub/internal/repository"
	"github.com/atinyakov/DevHub/internal/service"
)

type fakeProfiles struct {
	byID       map[int64]models.Profile
	lastSearch string
}

func (f *fakeProfiles) Me(ctx context.Context, userID int64) (*models.Profile, error) {
	p, ok := f.byID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) ByUsername(ctx context.Context, username string) (*models.Profile, error) {
	for _, p := range f.byID {
		if p.User.Username == username {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProfiles) Search(ctx context.Context, query string) ([]models.Profile, error) {
	f.lastSearch = query
	out := []models.Profile{}
	for _, p := range f.byID {
		if strings.Contains(p.User.Username, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProfiles) Update(ctx context.Context, userID, id int64, s models.ProfileSettings) (*models.Profile, error) {
	p, ok := f.byID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.ID != id {
		return nil, service.ErrForbidden
	}
	if s.GithubURL != nil && !strings.HasPrefix(*s.GithubURL, "https://") {
		return nil, service.FieldErrors{"github_url": {"Enter a valid URL."}}
	}
	if s.Bio != nil {
		p.Bio = *s.Bio
	}
	f.byID[userID] = p
	return &p, nil
}

type verifierFunc func(string) (int64, error)

func (f verifierFunc) VerifyAccess(token string) (int64, error) { return f(token) }

func newTestServer(t *testing.T) (*httptest.Server, *fakeProfiles) {
	t.Helper()
	profiles := &fakeProfiles{byID: map[int64]models.Profile{
		1: {ID: 10, User: models.User{Username: "alice"}},
	}}
	verifier := verifierFunc(func(token string) (int64, error) {
		if token == "alice-token" {
			return 1, nil
		}
		return 0, errors.New("bad")
	})
	router := NewRouter(
		&AuthHandler{AuthService: &fakeAuthService{pair: models.TokenPair{Access: "a", Refresh: "r"}}},
		&ProfileHandler{Profiles: profiles},
		verifier,
		zap.NewNop(),
	)
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts, profiles
}

func get(t *testing.T, url, token string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(body)
}

func TestRouter_Me(t *testing.T) {
	ts, _ := newTestServer(t)

	code, body := get(t, ts.URL+"/api/v1/me/", "alice-token")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"username":"alice"`)

	code, body = get(t, ts.URL+"/api/v1/me/", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `{"detail":"Authentication credentials were not provided."}`, body)

	code, _ = get(t, ts.URL+"/api/v1/me/", "forged")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRouter_Profiles(t *testing.T) {
	ts, profiles := newTestServer(t)

	code, body := get(t, ts.URL+"/api/v1/profiles/?search=ali", "")
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(body), "["), "search returns a bare array")
	assert.Equal(t, "ali", profiles.lastSearch)

	code, _ = get(t, ts.URL+"/api/v1/profiles/by-username/alice/", "")
	assert.Equal(t, http.StatusOK, code)

	code, body = get(t, ts.URL+"/api/v1/profiles/by-username/ghost/", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.JSONEq(t, `{"detail":"Not found."}`, body)
}

func TestRouter_TokenAndContentType(t *testing.T) {
	ts, _ := newTestServer(t)

	res, err := http.Post(ts.URL+"/api/v1/token/", "application/json",
		strings.NewReader(`{"username":"alice","password":"pw"}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("Content-Type"))

	res, err = http.Post(ts.URL+"/api/v1/token/", "text/plain", strings.NewReader(`x`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusUnsupportedMediaType, res.StatusCode)

	code, _ := get(t, ts.URL+"/api/v1/nowhere/", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func patch(t *testing.T, url, token, body string) (int, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPatch, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, string(raw)
}

func TestRouter_UpdateProfile(t *testing.T) {
	ts, profiles := newTestServer(t)

	code, _ := patch(t, ts.URL+"/api/v1/profiles/10/", "", `{"bio":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := patch(t, ts.URL+"/api/v1/profiles/10/", "alice-token", `{"bio":"Gopher"}`)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"bio":"Gopher"`)
	assert.Equal(t, "Gopher", profiles.byID[1].Bio)

	code, body = patch(t, ts.URL+"/api/v1/profiles/11/", "alice-token", `{"bio":"x"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.JSONEq(t, `{"detail":"You do not have permission to perform this action."}`, body)

	code, body = patch(t, ts.URL+"/api/v1/profiles/10/", "alice-token", `{"github_url":"github.com/alice"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.JSONEq(t, `{"github_url":["Enter a valid URL."]}`, body)

	code, _ = patch(t, ts.URL+"/api/v1/profiles/abc/", "alice-token", `{}`)
	assert.Equal(t, http.StatusNotFound, code)
}
