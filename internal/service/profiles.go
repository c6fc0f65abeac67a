package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/atinyakov/DevHub/internal/models"
)

// SearchLimit caps the number of profiles returned by a search.
const SearchLimit = 50

// ProfileRepository reads profiles.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)
	GetByUsername(ctx context.Context, username string) (*models.Profile, error)
	Search(ctx context.Context, query string, limit int) ([]models.Profile, error)
	UpdateSettings(ctx context.Context, id int64, s models.ProfileSettings) error
}

// ErrForbidden is returned when an account modifies a profile it does not own.
var ErrForbidden = errors.New("you do not have permission to perform this action")

const msgURL = "Enter a valid URL."

// ProfileService serves profile lookups.
type ProfileService struct {
	repo ProfileRepository
}

// NewProfileService constructs a ProfileService.
func NewProfileService(repo ProfileRepository) *ProfileService {
	return &ProfileService{repo: repo}
}

// Me returns the profile of the authenticated account.
func (s *ProfileService) Me(ctx context.Context, userID int64) (*models.Profile, error) {
	return s.repo.GetByUserID(ctx, userID)
}

// ByUsername returns the profile of username.
func (s *ProfileService) ByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.repo.GetByUsername(ctx, username)
}

// Search returns profiles whose username or name contains query. A blank
// query lists the first profiles by username.
func (s *ProfileService) Search(ctx context.Context, query string) ([]models.Profile, error) {
	return s.repo.Search(ctx, strings.TrimSpace(query), SearchLimit)
}

// Update applies settings to profile id on behalf of the account userID and
// returns the stored profile. Only the owner may update a profile.
func (s *ProfileService) Update(ctx context.Context, userID, id int64, settings models.ProfileSettings) (*models.Profile, error) {
	own, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if own.ID != id {
		return nil, ErrForbidden
	}
	if fe := validateSettings(settings); len(fe) > 0 {
		return nil, fe
	}
	if err := s.repo.UpdateSettings(ctx, id, settings); err != nil {
		return nil, fmt.Errorf("update profile %d: %w", id, err)
	}
	return s.repo.GetByUserID(ctx, userID)
}

func validateSettings(s models.ProfileSettings) FieldErrors {
	fe := FieldErrors{}
	if s.GithubURL != nil && !validURL(*s.GithubURL) {
		fe.add("github_url", msgURL)
	}
	if s.LinkedinURL != nil && !validURL(*s.LinkedinURL) {
		fe.add("linkedin_url", msgURL)
	}
	return fe
}

// validURL accepts blank values and absolute http(s) URLs.
func validURL(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
