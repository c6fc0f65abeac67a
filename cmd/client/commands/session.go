package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atinyakov/DevHub/internal/client/api"
	"github.com/atinyakov/DevHub/internal/client/session"
	"github.com/atinyakov/DevHub/internal/models"
)

func registerCmd(a *app) *cobra.Command {
	var req models.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, f := range []struct {
				dst   *string
				label string
			}{
				{&req.Username, "Username"},
				{&req.Password, "Password"},
				{&req.ConfirmPassword, "Confirm password"},
			} {
				if err := a.ask(f.dst, f.label); err != nil {
					return err
				}
			}
			if err := a.session.Register(cmd.Context(), req); err != nil {
				var ve *session.ValidationError
				if errors.As(err, &ve) {
					return fmt.Errorf("registration rejected: %w", ve)
				}
				return err
			}
			fmt.Fprintf(a.out, "Registered and logged in as %s\n", a.session.CurrentUser().User.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "username")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password")
	cmd.Flags().StringVar(&req.ConfirmPassword, "confirm-password", "", "repeat the password")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	return cmd
}

func loginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the token pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.login(cmd.Context(), username, password)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")
	return cmd
}

// login prompts for whatever credential part is missing.
func (a *app) login(ctx context.Context, username, password string) error {
	if err := a.ask(&username, "Username"); err != nil {
		return err
	}
	if err := a.ask(&password, "Password"); err != nil {
		return err
	}
	if err := a.session.Login(ctx, username, password); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", a.session.CurrentUser().User.Username)
	return nil
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget the stored session",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipRestore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.session.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the current user's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.whoami()
		},
	}
}

func (a *app) whoami() error {
	user := a.session.CurrentUser()
	if user == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	return printJSON(a.out, user)
}

func tokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored token pair",
	}
	cmd.AddCommand(&cobra.Command{
		Use:         "refresh",
		Short:       "Mint a new access token from the stored refresh token",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipRestore: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.session.RefreshAccessToken(cmd.Context())
			switch {
			case errors.Is(err, session.ErrNotAuthenticated):
				return errors.New("not logged in, run `devhub login` first")
			case api.IsUnauthorized(err):
				return a.featureErr(err)
			case err != nil:
				return err
			}
			if a.session.Restore(cmd.Context()) != session.StateAuthenticated {
				return errSessionExpired
			}
			fmt.Fprintf(a.out, "Access token refreshed for %s\n", a.session.CurrentUser().User.Username)
			return nil
		},
	})
	return cmd
}
