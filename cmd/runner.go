package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/session"
	"github.com/kikitori/kikitori/internal/shared"
	"github.com/kikitori/kikitori/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	client     *api.Client
	auth       *api.AuthService
	jobs       *api.TranscriptionService
	users      *api.UserService
	billing    *api.BillingService
	admin      *api.AdminService
	session    *session.Session
	tokens     *shared.TokenStore
	engine     *tasks.JobEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Tokens     *shared.TokenStore
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// The transport's session-expiry hook feeds back into the session container,
// so any 401 anywhere flips the session to Anonymous.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Tokens == nil {
		opts.Tokens = shared.NewTokenStore("")
	}

	r := &Runner{
		config:     opts.Config,
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}

	r.client = api.NewClient(opts.Config.API.BaseURL, opts.HTTPClient, opts.Tokens, func() {
		if r.session != nil {
			r.session.Expire()
		}
	})
	r.auth = api.NewAuthService(r.client)
	r.jobs = api.NewTranscriptionService(r.client)
	r.users = api.NewUserService(r.client)
	r.billing = api.NewBillingService(r.client)
	r.admin = api.NewAdminService(r.client)
	r.session = session.New(r.auth)
	r.engine = tasks.NewJobEngine(r.jobs)

	return r
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		authCommand, jobsCommand, accountCommand, billingCommand, adminCommand, apiCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// hydrate brings the session container up to date before a command runs.
func (r *Runner) hydrate(ctx context.Context) session.State {
	token, err := r.tokens.Load()
	if err != nil {
		r.logger.Warn("failed to read stored token", "error", err)
	}
	return r.session.Hydrate(ctx, token != nil)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
