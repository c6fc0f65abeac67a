package commands

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atinyakov/DevHub/internal/certgen"
	"github.com/atinyakov/DevHub/internal/client/api"
	"github.com/atinyakov/DevHub/internal/client/config"
	"github.com/atinyakov/DevHub/internal/client/credentials"
	"github.com/atinyakov/DevHub/internal/client/session"
	"github.com/atinyakov/DevHub/internal/logger"
)

var (
	version   string
	buildDate string
)

// errSessionExpired is reported when the backend rejects the access token of
// a feature call.
var errSessionExpired = errors.New("session expired, please log in again")

// skipRestore marks commands that must not validate the stored session
// before running: they work on the credential itself.
const skipRestore = "devhub/skip-restore"

// app is the dependency graph shared by subcommands.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	api     *api.Client
	session *session.Manager
	in      io.Reader
	out     io.Writer
	lines   *bufio.Scanner
}

// Execute runs the CLI with the process stdio and environment.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd(os.Stdin, os.Stdout, os.Getenv).ExecuteContext(ctx)
}

// NewRootCmd builds the command tree.
func NewRootCmd(in io.Reader, out io.Writer, getenv func(string) string) *cobra.Command {
	a := &app{in: in, out: out}

	var (
		home      string
		apiURL    string
		logLevel  string
		caCert    string
		ephemeral bool
	)

	root := &cobra.Command{
		Use:           "devhub",
		Short:         "DevHub developer portfolio client",
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := config.DefaultHome()
				if err != nil {
					return err
				}
				home = dir
			}
			cfg, err := config.Load(home, getenv)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("api") {
				cfg.APIURL = apiURL
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("ca-cert") {
				cfg.CAFile = caCert
			}
			a.cfg = cfg

			l := logger.New()
			if err := l.InitConsole(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
				return err
			}
			a.log = l.Log

			var store credentials.Store = credentials.NewFileStore(cfg.Home)
			if ephemeral {
				store = credentials.NewMemoryStore()
			}

			httpClient, err := newHTTPClient(cfg)
			if err != nil {
				return err
			}
			client, err := api.New(cfg.APIURL, store,
				api.WithHTTPClient(httpClient),
				api.WithLogger(a.log),
			)
			if err != nil {
				return err
			}
			a.api = client
			a.session = session.NewManager(client, store, a.log)
			a.log.Debug("api client ready", zap.String("base_url", client.BaseURL()))
			if cmd.Annotations[skipRestore] == "" {
				a.session.Restore(cmd.Context())
			}
			return nil
		},
	}
	if buildDate != "" {
		root.SetVersionTemplate("devhub {{.Version}} (built " + buildDate + ")\n")
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.devhub)")
	root.PersistentFlags().StringVar(&apiURL, "api", config.DefaultAPIURL, "backend API base URL")
	root.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&caCert, "ca-cert", "", "extra PEM root for an HTTPS backend")
	root.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep the session in memory only")

	root.AddCommand(
		registerCmd(a),
		loginCmd(a),
		logoutCmd(a),
		whoamiCmd(a),
		tokenCmd(a),
		searchCmd(a),
		profileCmd(a),
		projectsCmd(a),
		experienceCmd(a),
		syncGithubCmd(a),
		shellCmd(a),
	)
	return root
}

func newHTTPClient(cfg config.Config) (*http.Client, error) {
	c := &http.Client{Timeout: cfg.Timeout}
	if cfg.CAFile == "" {
		return c, nil
	}
	pool, err := certgen.LoadCertPool(cfg.CAFile)
	if err != nil {
		return nil, err
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}
	c.Transport = tr
	return c, nil
}

// featureErr turns a rejected access token into a logout.
func (a *app) featureErr(err error) error {
	if err == nil {
		return nil
	}
	if api.IsUnauthorized(err) {
		if lerr := a.session.Logout(); lerr != nil {
			a.log.Warn("logout after expired session", zap.Error(lerr))
		}
		return errSessionExpired
	}
	return err
}

func (a *app) requireSession() error {
	if !a.session.IsAuthenticated() {
		return errors.New("not logged in, run `devhub login` first")
	}
	return nil
}
