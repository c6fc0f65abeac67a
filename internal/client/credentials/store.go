// Package credentials persists the access/refresh token pair between runs of
// the DevHub client.
package credentials

import "errors"

// Credential is the token pair issued by the backend on login.
type Credential struct {
	AccessToken  string `yaml:"access_token"`
	RefreshToken string `yaml:"refresh_token"`
}

// Empty reports whether either token is missing. A half-written credential
// is treated as no credential at all.
func (c Credential) Empty() bool {
	return c.AccessToken == "" || c.RefreshToken == ""
}

// ErrEmptyCredential is returned by Save when either token is blank.
var ErrEmptyCredential = errors.New("credentials: access and refresh tokens are required")

// Store holds at most one Credential. Failures of the underlying storage are
// returned instead of being assumed away.
type Store interface {
	Save(c Credential) error
	// Load returns ok=false when nothing usable is stored.
	Load() (c Credential, ok bool, err error)
	Clear() error
}
