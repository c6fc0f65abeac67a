package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/DevHub/internal/models"
)

const profileSelect = `SELECT p.id, u.username, u.email, u.first_name, u.last_name,
       p.bio, p.profile_picture, p.resume_cv, p.github_url, p.linkedin_url
  FROM profiles p JOIN users u ON u.id = p.user_id`

// PostgresProfileRepository reads portfolio profiles.
type PostgresProfileRepository struct {
	DB *sql.DB
}

// NewPostgresProfileRepository creates a repository over db.
func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{DB: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(s rowScanner) (models.Profile, error) {
	var p models.Profile
	err := s.Scan(&p.ID, &p.User.Username, &p.User.Email, &p.User.FirstName, &p.User.LastName,
		&p.Bio, &p.ProfilePicture, &p.ResumeCV, &p.GithubURL, &p.LinkedinURL)
	return p, err
}

func (r *PostgresProfileRepository) one(ctx context.Context, where string, arg any) (*models.Profile, error) {
	p, err := scanProfile(r.DB.QueryRowContext(ctx, profileSelect+" WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID returns the profile owned by the account userID.
func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	return r.one(ctx, "u.id = $1", userID)
}

// GetByUsername returns the profile of username.
func (r *PostgresProfileRepository) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return r.one(ctx, "u.username = $1", username)
}

// UpdateSettings applies the non-nil fields of s to the profile id.
func (r *PostgresProfileRepository) UpdateSettings(ctx context.Context, id int64, s models.ProfileSettings) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE profiles
    SET bio = COALESCE($2, bio),
        github_url = COALESCE($3, github_url),
        linkedin_url = COALESCE($4, linkedin_url)
  WHERE id = $1`,
		id, s.Bio, s.GithubURL, s.LinkedinURL,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Search matches query case-insensitively against username, first and last
// name, ordered by username.
func (r *PostgresProfileRepository) Search(ctx context.Context, query string, limit int) ([]models.Profile, error) {
	pattern := "%" + escapeLike(query) + "%"
	rows, err := r.DB.QueryContext(ctx,
		profileSelect+`
 WHERE u.username ILIKE $1 OR u.first_name ILIKE $1 OR u.last_name ILIKE $1
 ORDER BY u.username
 LIMIT $2`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	defer rows.Close()

	out := []models.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
