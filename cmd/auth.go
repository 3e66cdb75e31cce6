package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kikitori/kikitori/internal/server"
	"github.com/kikitori/kikitori/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/term"
)

const oauthTimeout = 5 * time.Minute

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// AuthLogin signs in with email and password, stores the issued token.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email, password, err := r.credentials(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("signing in", "email", email)

	creds, err := r.auth.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	r.session.Establish(&creds.User)
	return r.writePlain("✓ Signed in as %s\n", creds.User.Email)
}

// AuthSignup creates an account and signs in.
func (r *Runner) AuthSignup(ctx context.Context, cmd *cli.Command) error {
	email, password, err := r.credentials(cmd)
	if err != nil {
		return err
	}

	r.logger.Info("creating account", "email", email)

	creds, err := r.auth.Signup(ctx, email, password)
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}

	r.session.Establish(&creds.User)
	r.writePlain("✓ Account created\n")
	return r.writePlain("✓ Signed in as %s\n", creds.User.Email)
}

// AuthOAuth signs in through a third-party provider.
//
// The backend owns the provider handshake; this command only starts the
// flow, opens the provider page, and collects the issued token on a
// localhost callback.
func (r *Runner) AuthOAuth(ctx context.Context, cmd *cli.Command) error {
	provider := cmd.String("provider")
	if provider != "google" && provider != "twitter" {
		return fmt.Errorf("%w: unknown provider %q", shared.ErrInvalidArgument, provider)
	}

	redirectURI := fmt.Sprintf("http://%s:%d/callback", r.config.Server.Host, r.config.Server.Port)

	start, err := r.auth.OAuthLogin(ctx, provider, redirectURI)
	if err != nil {
		return fmt.Errorf("failed to start %s login: %w", provider, err)
	}

	handler := server.NewCallbackHandler(start.State)
	router := server.NewLoopbackRouter()
	router.Use(server.NoStore)
	router.Handler(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.logger.Error("callback server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if cmd.Bool("no-browser") {
		r.writePlain("Open this URL to sign in:\n%s\n", start.RedirectURL)
	} else {
		r.logger.Info("opening browser", "provider", provider)
		if err := shared.OpenBrowser(start.RedirectURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
			r.writePlain("Open this URL to sign in:\n%s\n", start.RedirectURL)
		}
	}

	var token *oauth2.Token
	select {
	case result := <-handler.Result():
		if result.Error() != nil {
			return fmt.Errorf("login callback failed: %w", result.Error())
		}
		token = result.Token
	case <-time.After(oauthTimeout):
		return fmt.Errorf("%w: timed out waiting for login callback", shared.ErrNotAuthenticated)
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := r.tokens.Save(token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	identity, err := r.auth.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("signed in but failed to fetch profile: %w", err)
	}

	r.session.Establish(identity)
	return r.writePlain("✓ Signed in as %s via %s\n", identity.Email, provider)
}

// AuthLogout signs out and discards the stored token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.hydrate(ctx)

	if err := r.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthStatus shows the current session state.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	state := r.hydrate(ctx)

	if cmd.Bool("json") {
		out := map[string]any{"phase": state.Phase.String()}
		if state.Identity != nil {
			out["user"] = state.Identity
		}
		return r.writeJSON(out, true)
	}

	if !state.IsAuthenticated() {
		return r.writePlain("✗ Not signed in\n")
	}

	r.writePlain("✓ Signed in as %s\n", state.Identity.Email)
	if state.Identity.DisplayName != "" {
		r.writePlain("Name: %s\n", state.Identity.DisplayName)
	}
	if state.Identity.IsAdmin {
		r.writePlain("Role: admin\n")
	}
	return nil
}

// AuthImport extracts a bearer token from a browser session's cURL command
// and stores it as the CLI's token.
func (r *Runner) AuthImport(ctx context.Context, cmd *cli.Command) error {
	curlCmd := cmd.String("curl")
	curlFile := cmd.String("curl-file")

	if curlCmd == "" && curlFile == "" {
		return fmt.Errorf("%w: either --curl or --curl-file must be provided", shared.ErrMissingArgument)
	}
	if curlCmd != "" && curlFile != "" {
		return fmt.Errorf("%w: cannot specify both --curl and --curl-file", shared.ErrInvalidArgument)
	}

	var headers *shared.CurlHeaders
	var err error
	if curlFile != "" {
		headers, err = shared.ParseCurlFile(curlFile)
	} else {
		headers, err = shared.ParseCurlCommand([]byte(curlCmd))
	}
	if err != nil {
		return fmt.Errorf("failed to parse cURL command: %w", err)
	}

	bearer, err := headers.BearerToken()
	if err != nil {
		return err
	}

	if err := r.tokens.Save(&oauth2.Token{AccessToken: bearer, TokenType: "Bearer"}); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	identity, err := r.auth.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("imported token was rejected: %w", err)
	}

	r.session.Establish(identity)
	return r.writePlain("✓ Imported session for %s\n", identity.Email)
}

// credentials resolves email and password from flags, prompting for
// whichever is missing.
func (r *Runner) credentials(cmd *cli.Command) (string, string, error) {
	email := cmd.String("email")
	password := cmd.String("password")
	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Fprint(os.Stderr, "Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", "", fmt.Errorf("failed to read email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if password == "" {
		secret, err := promptPassword()
		if err != nil {
			return "", "", err
		}
		password = secret
	}

	if email == "" || password == "" {
		return "", "", fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}
	return email, password, nil
}

// promptPassword reads a password from the terminal without echoing it.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
