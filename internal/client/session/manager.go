package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/atinyakov/DevHub/internal/client/api"
	"github.com/atinyakov/DevHub/internal/client/credentials"
	"github.com/atinyakov/DevHub/internal/models"
)

// API is the part of the backend the lifecycle depends on. *api.Client
// implements it.
type API interface {
	ObtainToken(ctx context.Context, username, password string) (models.TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (models.AccessToken, error)
	Register(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Me(ctx context.Context) (*models.Profile, error)
}

// Reader is the read-only view of the session used by feature callers.
type Reader interface {
	State() State
	Loading() bool
	IsAuthenticated() bool
	CurrentUser() *models.Profile
}

// Manager is the single writer of the credential store and current user.
type Manager struct {
	api   API
	store credentials.Store
	log   *zap.Logger

	mu      sync.RWMutex
	state   State
	loading bool
	user    *models.Profile
}

// NewManager returns a Manager in StateUnknown with Loading set until the
// first Restore completes.
func NewManager(a API, store credentials.Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		api:     a,
		store:   store,
		log:     log,
		state:   StateUnknown,
		loading: true,
	}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Loading is true until the first Restore finishes and while any Restore is
// running.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// CurrentUser returns the loaded profile, nil unless authenticated.
func (m *Manager) CurrentUser() *models.Profile {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user
}

// Restore resumes the stored session. Without a stored credential it moves
// to StateAnonymous without contacting the backend. With one, it asks the
// backend for the current user; any failure clears the store.
func (m *Manager) Restore(ctx context.Context) State {
	m.mu.Lock()
	m.loading = true
	m.mu.Unlock()

	_, ok, err := m.store.Load()
	if err != nil {
		m.log.Warn("cannot read stored credentials", zap.Error(err))
		m.invalidate()
		return m.finishRestore(StateAnonymous, nil)
	}
	if !ok {
		return m.finishRestore(StateAnonymous, nil)
	}
	user, err := m.api.Me(ctx)
	if err != nil {
		m.log.Warn("stored session rejected", zap.Error(err))
		m.invalidate()
		return m.finishRestore(StateAnonymous, nil)
	}
	m.log.Debug("session restored", zap.String("username", user.User.Username))
	return m.finishRestore(StateAuthenticated, user)
}

func (m *Manager) finishRestore(s State, user *models.Profile) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s
	m.user = user
	m.loading = false
	return s
}

func (m *Manager) invalidate() {
	if err := m.store.Clear(); err != nil {
		m.log.Warn("cannot clear stored credentials", zap.Error(err))
	}
}

// Login exchanges username and password for a token pair, stores it and
// loads the current user. A rejected exchange returns *AuthError and
// changes nothing. If loading the user fails after the pair was stored, the
// error is returned, the stored pair is kept and the session drops to
// StateAnonymous so no earlier user outlives the replaced tokens.
func (m *Manager) Login(ctx context.Context, username, password string) error {
	pair, err := m.api.ObtainToken(ctx, username, password)
	if err != nil {
		switch api.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return &AuthError{Err: err}
		}
		return fmt.Errorf("obtain token: %w", err)
	}

	cred := credentials.Credential{AccessToken: pair.Access, RefreshToken: pair.Refresh}
	if err := m.store.Save(cred); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}

	user, err := m.api.Me(ctx)
	if err != nil {
		m.log.Error("token issued but current user unavailable",
			zap.String("username", username), zap.Error(err))
		m.mu.Lock()
		m.user = nil
		m.state = StateAnonymous
		m.mu.Unlock()
		return fmt.Errorf("fetch current user: %w", err)
	}

	m.mu.Lock()
	m.user = user
	m.state = StateAuthenticated
	m.mu.Unlock()

	m.log.Info("logged in", zap.String("username", user.User.Username))
	return nil
}

// Register validates req locally, creates the account and logs in with the
// same username and password. Backend field rejections are returned as
// *ValidationError.
func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) error {
	if err := ValidateRegistration(req); err != nil {
		return err
	}

	if _, err := m.api.Register(ctx, req); err != nil {
		var he *api.HTTPError
		if errors.As(err, &he) && he.StatusCode == http.StatusBadRequest {
			if fields := he.Fields(); len(fields) > 0 {
				return &ValidationError{Fields: fields, Err: err}
			}
		}
		return fmt.Errorf("register: %w", err)
	}
	m.log.Info("account created", zap.String("username", req.Username))

	return m.Login(ctx, req.Username, req.Password)
}

// Logout forgets the credential and the current user. The transition to
// StateAnonymous always happens; a storage failure is still reported.
func (m *Manager) Logout() error {
	err := m.store.Clear()

	m.mu.Lock()
	m.user = nil
	m.state = StateAnonymous
	m.mu.Unlock()

	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

// RefreshCurrentUser reloads the current user, e.g. after a profile update
// so that server-computed fields show up. On failure the previous value is
// kept.
func (m *Manager) RefreshCurrentUser(ctx context.Context) error {
	if !m.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	user, err := m.api.Me(ctx)
	if err != nil {
		m.log.Warn("failed to refresh current user", zap.Error(err))
		return fmt.Errorf("refresh current user: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAuthenticated {
		m.user = user
	}
	return nil
}

// RefreshAccessToken trades the stored refresh token for a new access token
// and stores it. It is never called implicitly.
func (m *Manager) RefreshAccessToken(ctx context.Context) error {
	cred, ok, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}
	if !ok {
		return ErrNotAuthenticated
	}

	tok, err := m.api.RefreshToken(ctx, cred.RefreshToken)
	if err != nil {
		return fmt.Errorf("refresh access token: %w", err)
	}
	cred.AccessToken = tok.Access
	if err := m.store.Save(cred); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

var (
	_ Reader = (*Manager)(nil)
	_ API    = (*api.Client)(nil)
)
