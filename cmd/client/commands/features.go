package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atinyakov/DevHub/internal/client/api"
	"github.com/atinyakov/DevHub/internal/client/session"
	"github.com/atinyakov/DevHub/internal/models"
)

func searchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search developer profiles",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.search(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func (a *app) search(ctx context.Context, query string) error {
	profiles, err := a.api.SearchProfiles(ctx, query)
	if err != nil {
		return a.featureErr(err)
	}
	if len(profiles) == 0 {
		fmt.Fprintln(a.out, "No developers found")
		return nil
	}
	for _, p := range profiles {
		fmt.Fprintf(a.out, "@%s\t%s\n", p.User.Username, displayName(p.User))
	}
	return nil
}

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile <username>",
		Short: "Print a public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.profile(cmd.Context(), args[0])
		},
	}
	cmd.AddCommand(profileUpdateCmd(a))
	return cmd
}

func profileUpdateCmd(a *app) *cobra.Command {
	var bio, github, linkedin string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change the logged-in user's profile settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var upd models.ProfileSettings
			if cmd.Flags().Changed("bio") {
				upd.Bio = &bio
			}
			if cmd.Flags().Changed("github-url") {
				upd.GithubURL = &github
			}
			if cmd.Flags().Changed("linkedin-url") {
				upd.LinkedinURL = &linkedin
			}
			return a.updateProfile(cmd.Context(), upd)
		},
	}
	cmd.Flags().StringVar(&bio, "bio", "", "free-form description")
	cmd.Flags().StringVar(&github, "github-url", "", "GitHub account URL")
	cmd.Flags().StringVar(&linkedin, "linkedin-url", "", "LinkedIn account URL")
	return cmd
}

// updateProfile saves the settings and reloads the current user so the
// server-derived fields are visible.
func (a *app) updateProfile(ctx context.Context, upd models.ProfileSettings) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	if upd.Empty() {
		return errors.New("nothing to update, pass --bio, --github-url or --linkedin-url")
	}
	if _, err := a.api.UpdateProfile(ctx, a.session.CurrentUser().ID, upd); err != nil {
		var he *api.HTTPError
		if errors.As(err, &he) && he.StatusCode == http.StatusBadRequest {
			if fields := he.Fields(); len(fields) > 0 {
				return fmt.Errorf("profile rejected: %w", &session.ValidationError{Fields: fields, Err: err})
			}
		}
		return a.featureErr(err)
	}
	if err := a.session.RefreshCurrentUser(ctx); err != nil {
		return a.featureErr(err)
	}
	fmt.Fprintln(a.out, "Profile updated")
	return printJSON(a.out, a.session.CurrentUser())
}

func (a *app) profile(ctx context.Context, username string) error {
	p, err := a.api.ProfileByUsername(ctx, username)
	if err != nil {
		if api.StatusCode(err) == http.StatusNotFound {
			return fmt.Errorf("user %q not found", username)
		}
		return a.featureErr(err)
	}
	return printJSON(a.out, p)
}

func projectsCmd(a *app) *cobra.Command {
	var q api.ProjectQuery
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List portfolio projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.projects(cmd.Context(), q)
		},
	}
	cmd.Flags().StringVar(&q.Username, "username", "", "owner (default: the logged-in user)")
	cmd.Flags().StringVar(&q.Search, "search", "", "filter by title")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	return cmd
}

func (a *app) projects(ctx context.Context, q api.ProjectQuery) error {
	if q.Username == "" {
		user := a.session.CurrentUser()
		if user == nil {
			return fmt.Errorf("--username is required when not logged in")
		}
		q.Username = user.User.Username
	}
	page, err := a.api.ListProjects(ctx, q)
	if err != nil {
		return a.featureErr(err)
	}
	if len(page.Results) == 0 {
		fmt.Fprintln(a.out, "No projects")
		return nil
	}
	for _, p := range page.Results {
		fmt.Fprintf(a.out, "%d\t%s\t%d views\t%s\n", p.ID, p.Title, p.Views, p.GithubLink)
	}
	if page.HasNext() {
		fmt.Fprintf(a.out, "-- more on page %d --\n", max(q.Page, 1)+1)
	}
	return nil
}

func experienceCmd(a *app) *cobra.Command {
	var q api.ExperienceQuery
	cmd := &cobra.Command{
		Use:   "experience",
		Short: "List work experience",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.experience(cmd.Context(), q)
		},
	}
	cmd.Flags().StringVar(&q.Username, "username", "", "owner (default: the logged-in user)")
	cmd.Flags().IntVar(&q.Page, "page", 1, "page number")
	return cmd
}

func (a *app) experience(ctx context.Context, q api.ExperienceQuery) error {
	if q.Username == "" {
		user := a.session.CurrentUser()
		if user == nil {
			return fmt.Errorf("--username is required when not logged in")
		}
		q.Username = user.User.Username
	}
	page, err := a.api.ListExperience(ctx, q)
	if err != nil {
		return a.featureErr(err)
	}
	if len(page.Results) == 0 {
		fmt.Fprintln(a.out, "No experience")
		return nil
	}
	for _, e := range page.Results {
		end := "present"
		if e.EndDate != nil {
			end = *e.EndDate
		}
		fmt.Fprintf(a.out, "%s\t%s\t%s - %s\n", e.Company, e.Role, e.StartDate, end)
	}
	if page.HasNext() {
		fmt.Fprintf(a.out, "-- more on page %d --\n", max(q.Page, 1)+1)
	}
	return nil
}

func syncGithubCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync-github",
		Short: "Import public GitHub repositories as projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.syncGithub(cmd.Context())
		},
	}
}

func (a *app) syncGithub(ctx context.Context) error {
	if err := a.requireSession(); err != nil {
		return err
	}
	res, err := a.api.SyncGitHub(ctx)
	if err != nil {
		var he *api.HTTPError
		if errors.As(err, &he) && he.StatusCode == http.StatusBadRequest {
			if msgs := he.Fields()["error"]; len(msgs) > 0 {
				return fmt.Errorf("sync rejected: %s", strings.Join(msgs, " "))
			}
		}
		return a.featureErr(err)
	}
	fmt.Fprintf(a.out, "%s: %d synced, %d new\n", res.Message, res.TotalSynced, res.NewlyCreated)
	return nil
}

func displayName(u models.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
