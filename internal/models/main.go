// Package models defines the data structures exchanged between the DevHub
// client and backend: accounts, profiles, tokens and portfolio projects.
package models

import "time"

// User is the public part of an account as rendered inside a profile.
type User struct {
	// Username is the login name chosen by the user.
	Username string `json:"username"`
	// Email is the optional contact address.
	Email string `json:"email"`
	// FirstName is the given name, may be empty.
	FirstName string `json:"first_name"`
	// LastName is the family name, may be empty.
	LastName string `json:"last_name"`
}

// Profile is the portfolio profile attached to every account. The "me/"
// endpoint returns the profile of the authenticated principal.
type Profile struct {
	// ID is the profile identifier.
	ID int64 `json:"id"`
	// User holds the account fields.
	User User `json:"user"`
	// Bio is a free-form description.
	Bio string `json:"bio"`
	// ProfilePicture is the avatar URL computed by the server.
	ProfilePicture string `json:"profile_picture"`
	// ResumeCV is the uploaded CV URL.
	ResumeCV string `json:"resume_cv"`
	// GithubURL links the GitHub account used for project sync.
	GithubURL string `json:"github_url"`
	// LinkedinURL links the LinkedIn account.
	LinkedinURL string `json:"linkedin_url"`
}

// ProfileSettings is the partial update of a profile. Nil fields are left
// untouched.
type ProfileSettings struct {
	Bio         *string `json:"bio,omitempty"`
	GithubURL   *string `json:"github_url,omitempty"`
	LinkedinURL *string `json:"linkedin_url,omitempty"`
}

// Empty reports whether no field is set.
func (s ProfileSettings) Empty() bool {
	return s.Bio == nil && s.GithubURL == nil && s.LinkedinURL == nil
}

// Account is the server-side account record including the password hash.
type Account struct {
	// ID is the unique identifier for the account.
	ID int64
	// User holds the public account fields.
	User User
	// PasswordHash is the bcrypt hash of the password.
	PasswordHash []byte
	// CreatedAt is the registration time.
	CreatedAt time.Time
}

// Credentials is the body of the token obtain endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair is returned by the token obtain endpoint.
type TokenPair struct {
	// Access is the short-lived token attached to authenticated requests.
	Access string `json:"access"`
	// Refresh is the longer-lived token used to mint new access tokens.
	Refresh string `json:"refresh"`
}

// RefreshRequest is the body of the token refresh endpoint.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// AccessToken is returned by the token refresh endpoint.
type AccessToken struct {
	Access string `json:"access"`
}

// RegisterRequest carries the new-account fields.
type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
}

// Project is a portfolio entry, either synchronized from GitHub or curated
// manually.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GithubLink  string    `json:"github_link"`
	LiveLink    string    `json:"live_link"`
	Views       int64     `json:"views"`
	CreatedAt   time.Time `json:"created_at"`
}

// SyncResult is returned by the GitHub sync endpoint.
type SyncResult struct {
	Message      string `json:"message"`
	TotalSynced  int    `json:"total_synced"`
	NewlyCreated int    `json:"newly_created"`
}

// Experience is a work-history entry shown on a profile.
type Experience struct {
	ID          int64   `json:"id"`
	Company     string  `json:"company"`
	Role        string  `json:"role"`
	StartDate   string  `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Description string  `json:"description"`
}
