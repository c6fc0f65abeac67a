package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/atinyakov/DevHub/internal/models"
)

// SearchProfiles finds profiles whose username or names contain query.
func (c *Client) SearchProfiles(ctx context.Context, query string) ([]models.Profile, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, nil
	}
	var page Page[models.Profile]
	if err := c.Get(ctx, "profiles/", url.Values{"search": {q}}, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// ProfileByUsername returns the public profile of username.
func (c *Client) ProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var out models.Profile
	if err := c.Get(ctx, "profiles/by-username/"+url.PathEscape(username)+"/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile partially updates the profile id. The response only echoes
// the stored fields; callers reload the current user for derived ones.
func (c *Client) UpdateProfile(ctx context.Context, id int64, upd models.ProfileSettings) (*models.Profile, error) {
	var out models.Profile
	path := "profiles/" + strconv.FormatInt(id, 10) + "/"
	if err := c.Do(ctx, http.MethodPatch, path, nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExperienceQuery filters the work-history list.
type ExperienceQuery struct {
	Username string
	Page     int
}

// ListExperience returns one page of work-history entries.
func (c *Client) ListExperience(ctx context.Context, q ExperienceQuery) (Page[models.Experience], error) {
	v := url.Values{}
	if q.Username != "" {
		v.Set("username", q.Username)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	var page Page[models.Experience]
	err := c.Get(ctx, "experience/", v, &page)
	return page, err
}

// ProjectQuery filters the project list.
type ProjectQuery struct {
	Username string
	Search   string
	Page     int
}

func (q ProjectQuery) values() url.Values {
	v := url.Values{}
	if q.Username != "" {
		v.Set("username", q.Username)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	return v
}

// ListProjects returns one page of projects.
func (c *Client) ListProjects(ctx context.Context, q ProjectQuery) (Page[models.Project], error) {
	var page Page[models.Project]
	err := c.Get(ctx, "projects/", q.values(), &page)
	return page, err
}

// SyncGitHub imports the authenticated user's public GitHub repositories as
// projects.
func (c *Client) SyncGitHub(ctx context.Context) (models.SyncResult, error) {
	var out models.SyncResult
	err := c.Post(ctx, "projects/sync_github/", struct{}{}, &out)
	return out, err
}
