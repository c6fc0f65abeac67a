package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/DevHub/internal/client/api"
	"github.com/atinyakov/DevHub/internal/client/credentials"
	"github.com/atinyakov/DevHub/internal/models"
)

// roundTripperFunc lets a test stand in for the network.
type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

type failingSource struct{}

func (failingSource) Load() (credentials.Credential, bool, error) {
	return credentials.Credential{}, false, errors.New("disk gone")
}

func newBackend(t *testing.T, r chi.Router) string {
	t.Helper()
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts.URL + "/api/v1"
}

func TestNew_InvalidBase(t *testing.T) {
	_, err := api.New("ftp://example.com", nil)
	assert.Error(t, err)

	c, err := api.New("http://example.com/api/v1", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api/v1/", c.BaseURL())
}

func TestDo_AttachesBearerWhenCredentialStored(t *testing.T) {
	var gotAuth, gotReqID string
	r := chi.NewRouter()
	r.Get("/api/v1/me/", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get(api.RequestIDHeader)
		_ = json.NewEncoder(w).Encode(models.Profile{ID: 7, User: models.User{Username: "alice"}})
	})
	base := newBackend(t, r)

	store := credentials.NewMemoryStore()
	require.NoError(t, store.Save(credentials.Credential{AccessToken: "acc-1", RefreshToken: "ref-1"}))
	c, err := api.New(base, store)
	require.NoError(t, err)

	p, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer acc-1", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, int64(7), p.ID)
	assert.Equal(t, "alice", p.User.Username)
}

func TestDo_NoAuthorizationWithoutCredential(t *testing.T) {
	var sawAuth bool
	r := chi.NewRouter()
	r.Post("/api/v1/token/", func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		var body models.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body.Username)
		assert.Equal(t, "pw", body.Password)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_ = json.NewEncoder(w).Encode(models.TokenPair{Access: "a", Refresh: "r"})
	})
	c, err := api.New(newBackend(t, r), credentials.NewMemoryStore())
	require.NoError(t, err)

	pair, err := c.ObtainToken(context.Background(), "alice", "pw")
	require.NoError(t, err)
	assert.False(t, sawAuth)
	assert.Equal(t, models.TokenPair{Access: "a", Refresh: "r"}, pair)
}

func TestDo_NonSuccessIsHTTPError(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/v1/register/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"username":["A user with that username already exists."],"password":"Password fields didn't match."}`))
	})
	c, err := api.New(newBackend(t, r), nil)
	require.NoError(t, err)

	_, err = c.Register(context.Background(), models.RegisterRequest{Username: "bob"})
	var he *api.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.StatusCode)
	assert.Equal(t, http.StatusBadRequest, api.StatusCode(err))
	assert.Contains(t, string(he.Payload), "already exists")
	assert.Equal(t, map[string][]string{
		"username": {"A user with that username already exists."},
		"password": {"Password fields didn't match."},
	}, he.Fields())
}

func TestHTTPError_Detail(t *testing.T) {
	he := &api.HTTPError{Method: "POST", URL: "u", StatusCode: 401, Payload: []byte(`{"detail":"No active account found with the given credentials"}`)}
	assert.Equal(t, "No active account found with the given credentials", he.Detail())
	assert.True(t, api.IsUnauthorized(he))
	assert.Contains(t, he.Error(), "401 Unauthorized")

	plain := &api.HTTPError{StatusCode: 500, Payload: []byte("oops\n")}
	assert.Equal(t, "oops", plain.Detail())
	assert.Nil(t, plain.Fields())
}

func TestHTTPError_FieldsFlattensNested(t *testing.T) {
	he := &api.HTTPError{Payload: []byte(`{"user":{"email":["bad"],"age":[3]},"non_field_errors":[]}`)}
	assert.Equal(t, map[string][]string{"user": {"3", "bad"}}, he.Fields())
}

func TestDo_NetworkError(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("network down")
	})}
	c, err := api.New("http://example.com/api/v1/", nil, api.WithHTTPClient(hc))
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	var ne *api.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Contains(t, err.Error(), "network down")
	assert.Equal(t, 0, api.StatusCode(err))
}

func TestDo_CredentialLoadFailureStopsRequest(t *testing.T) {
	called := false
	hc := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("unreachable")
	})}
	c, err := api.New("http://example.com/", failingSource{}, api.WithHTTPClient(hc))
	require.NoError(t, err)

	err = c.Get(context.Background(), "me/", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load credentials")
	assert.False(t, called)
}

func TestDo_InvalidJSONOnSuccess(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/me/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not-json"))
	})
	c, err := api.New(newBackend(t, r), nil)
	require.NoError(t, err)

	_, err = c.Me(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode GET me/ response")
}

func TestDo_ContextCancelled(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/v1/me/", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	c, err := api.New(newBackend(t, r), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Me(ctx)
	var ne *api.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRefreshToken(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/v1/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		var body models.RefreshRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Refresh != "ref-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Token is invalid or expired","code":"token_not_valid"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(models.AccessToken{Access: "acc-2"})
	})
	c, err := api.New(newBackend(t, r), nil)
	require.NoError(t, err)

	tok, err := c.RefreshToken(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "acc-2", tok.Access)

	_, err = c.RefreshToken(context.Background(), "stale")
	assert.True(t, api.IsUnauthorized(err))
	assert.True(t, strings.Contains(err.Error(), "Token is invalid or expired"))
}
