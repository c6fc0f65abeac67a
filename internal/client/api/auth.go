package api

import (
	"context"

	"github.com/atinyakov/DevHub/internal/models"
)

// Backend paths consumed by the session lifecycle.
const (
	PathToken        = "token/"
	PathTokenRefresh = "token/refresh/"
	PathRegister     = "register/"
	PathMe           = "me/"
)

// ObtainToken exchanges a username and password for an access/refresh pair.
func (c *Client) ObtainToken(ctx context.Context, username, password string) (models.TokenPair, error) {
	var out models.TokenPair
	err := c.Post(ctx, PathToken, models.Credentials{Username: username, Password: password}, &out)
	return out, err
}

// RefreshToken exchanges a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (models.AccessToken, error) {
	var out models.AccessToken
	err := c.Post(ctx, PathTokenRefresh, models.RefreshRequest{Refresh: refresh}, &out)
	return out, err
}

// Register creates a new account. It does not log in.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	var out models.User
	err := c.Post(ctx, PathRegister, req, &out)
	return out, err
}

// Me returns the profile of the principal owning the attached access token.
func (c *Client) Me(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.Get(ctx, PathMe, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
