package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atinyakov/DevHub/internal/client/api"
	"github.com/atinyakov/DevHub/internal/client/session"
)

const shellHelp = "Available commands: help, login [username], whoami, search <query>, profile <username>, projects [username], experience [username], sync, refresh, logout, exit"

func shellCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.repl(cmd.Context())
			return nil
		},
	}
}

// repl runs the interactive loop until exit, EOF or cancellation. Command
// errors are printed and the loop continues.
func (a *app) repl(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		prompt := "devhub> "
		if u := a.session.CurrentUser(); u != nil {
			prompt = u.User.Username + "@devhub> "
		}
		fmt.Fprint(a.out, prompt)
		line, ok := a.readLine()
		if !ok {
			fmt.Fprintln(a.out)
			return
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		var err error
		switch args[0] {
		case "help":
			fmt.Fprintln(a.out, shellHelp)
		case "login":
			var username string
			if len(args) > 1 {
				username = args[1]
			}
			err = a.login(ctx, username, "")
		case "whoami":
			err = a.whoami()
		case "search":
			if len(args) < 2 {
				fmt.Fprintln(a.out, "Usage: search <query>")
				continue
			}
			err = a.search(ctx, strings.Join(args[1:], " "))
		case "profile":
			if len(args) < 2 {
				fmt.Fprintln(a.out, "Usage: profile <username>")
				continue
			}
			err = a.profile(ctx, args[1])
		case "projects":
			q := api.ProjectQuery{Page: 1}
			if len(args) > 1 {
				q.Username = args[1]
			}
			err = a.projects(ctx, q)
		case "experience":
			q := api.ExperienceQuery{Page: 1}
			if len(args) > 1 {
				q.Username = args[1]
			}
			err = a.experience(ctx, q)
		case "sync":
			err = a.syncGithub(ctx)
		case "refresh":
			err = a.session.RefreshCurrentUser(ctx)
			if errors.Is(err, session.ErrNotAuthenticated) {
				err = a.requireSession()
			} else if err == nil {
				fmt.Fprintln(a.out, "Profile reloaded")
			} else {
				err = a.featureErr(err)
			}
		case "logout":
			err = a.session.Logout()
			if err == nil {
				fmt.Fprintln(a.out, "Logged out")
			}
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye")
			return
		default:
			fmt.Fprintf(a.out, "Unknown command %q, type help\n", args[0])
		}
		if err != nil {
			fmt.Fprintln(a.out, "Error:", err)
		}
	}
}
