// Package service implements the dev backend's account, token and profile
// logic, delegating persistence to repositories.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/DevHub/internal/models"
	"github.com/atinyakov/DevHub/internal/repository"
)

// AuthRepository defines the persistence operations required by the
// authentication service.
type AuthRepository interface {
	// UsernameExists returns true if an account with username exists.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// CreateUser stores a new account together with its empty profile.
	CreateUser(ctx context.Context, acc models.Account) (*models.Account, error)
	// GetAccountByUsername returns repository.ErrNotFound for unknown users.
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, error)
	SaveRefreshToken(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	RefreshTokenValid(ctx context.Context, jti string, userID int64, now time.Time) (bool, error)
}

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong
// password.
var ErrInvalidCredentials = errors.New("no active account found with the given credentials")

// AuthService registers accounts and issues token pairs.
type AuthService struct {
	repo   AuthRepository
	tokens *TokenIssuer
	cost   int
}

// NewAuthService constructs an AuthService.
func NewAuthService(repo AuthRepository, tokens *TokenIssuer) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, cost: bcrypt.DefaultCost}
}

// Register validates req, hashes the password and creates the account.
// Validation problems are returned as FieldErrors.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	fe := validateRegistration(req)
	if len(fe) > 0 {
		return nil, fe
	}

	exists, err := s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, FieldErrors{"username": {msgUsernameTaken}}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acc, err := s.repo.CreateUser(ctx, models.Account{
		User: models.User{
			Username:  req.Username,
			Email:     req.Email,
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
		PasswordHash: hash,
	})
	if errors.Is(err, repository.ErrUsernameTaken) {
		return nil, FieldErrors{"username": {msgUsernameTaken}}
	}
	if err != nil {
		return nil, err
	}
	return &acc.User, nil
}

// Login checks the password and issues an access/refresh pair. The refresh
// token's jti is recorded so it can be verified later.
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	fe := FieldErrors{}
	if creds.Username == "" {
		fe.add("username", msgRequired)
	}
	if creds.Password == "" {
		fe.add("password", msgRequired)
	}
	if len(fe) > 0 {
		return models.TokenPair{}, fe
	}

	acc, err := s.repo.GetAccountByUsername(ctx, creds.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return models.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("load account: %w", err)
	}
	if bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(creds.Password)) != nil {
		return models.TokenPair{}, ErrInvalidCredentials
	}

	access, _, err := s.tokens.Issue(acc.ID, TokenTypeAccess)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh, claims, err := s.tokens.Issue(acc.ID, TokenTypeRefresh)
	if err != nil {
		return models.TokenPair{}, err
	}
	if err := s.repo.SaveRefreshToken(ctx, claims.ID, acc.ID, claims.ExpiresAt.Time); err != nil {
		return models.TokenPair{}, fmt.Errorf("save refresh token: %w", err)
	}
	return models.TokenPair{Access: access, Refresh: refresh}, nil
}

// Refresh exchanges a valid, recorded refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, raw string) (models.AccessToken, error) {
	if raw == "" {
		return models.AccessToken{}, FieldErrors{"refresh": {msgRequired}}
	}
	claims, err := s.tokens.Parse(raw, TokenTypeRefresh)
	if err != nil {
		return models.AccessToken{}, err
	}
	ok, err := s.repo.RefreshTokenValid(ctx, claims.ID, claims.UserID, s.tokens.now())
	if err != nil {
		return models.AccessToken{}, fmt.Errorf("check refresh token: %w", err)
	}
	if !ok {
		return models.AccessToken{}, ErrInvalidToken
	}
	access, _, err := s.tokens.Issue(claims.UserID, TokenTypeAccess)
	if err != nil {
		return models.AccessToken{}, err
	}
	return models.AccessToken{Access: access}, nil
}

// VerifyAccess returns the user ID carried by a valid access token.
func (s *AuthService) VerifyAccess(raw string) (int64, error) {
	claims, err := s.tokens.Parse(raw, TokenTypeAccess)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
