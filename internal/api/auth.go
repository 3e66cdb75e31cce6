package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/kikitori/kikitori/internal/shared"
	"golang.org/x/oauth2"
)

// AuthService exposes the credential-exchange endpoints.
type AuthService struct {
	client *Client
}

// NewAuthService creates an [AuthService] over the given transport.
func NewAuthService(client *Client) *AuthService {
	return &AuthService{client: client}
}

type credentialRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges email/password for a bearer token and identity, persisting
// the token on success.
func (a *AuthService) Login(ctx context.Context, email, password string) (*Credentials, error) {
	var creds Credentials
	if err := a.client.postJSON(ctx, "/auth/login", nil, credentialRequest{Email: email, Password: password}, &creds); err != nil {
		return nil, credentialError(err)
	}

	if err := a.persist(creds.AccessToken); err != nil {
		return nil, err
	}
	return &creds, nil
}

// Signup registers a new account and persists the returned token.
func (a *AuthService) Signup(ctx context.Context, email, password string) (*Credentials, error) {
	var creds Credentials
	if err := a.client.postJSON(ctx, "/auth/signup", nil, credentialRequest{Email: email, Password: password}, &creds); err != nil {
		return nil, credentialError(err)
	}

	if err := a.persist(creds.AccessToken); err != nil {
		return nil, err
	}
	return &creds, nil
}

// credentialError marks a rejected credential exchange so callers can
// distinguish bad credentials from a token expiring mid-session. The server's
// error detail stays reachable through the chain.
func credentialError(err error) error {
	if errors.Is(err, shared.ErrNotAuthenticated) {
		return fmt.Errorf("%w: %w", shared.ErrInvalidCredentials, err)
	}
	return err
}

// OAuthStart is the backend's handoff for third-party login.
type OAuthStart struct {
	RedirectURL string `json:"redirect_url"`
	State       string `json:"state"`
}

type oauthRequest struct {
	Provider    string `json:"provider"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

// OAuthLogin begins a third-party login with the named provider
// (google or twitter). The returned redirect URL is opened in a browser;
// the backend completes the flow by redirecting to redirectURI with the
// issued token.
func (a *AuthService) OAuthLogin(ctx context.Context, provider, redirectURI string) (*OAuthStart, error) {
	var start OAuthStart
	if err := a.client.postJSON(ctx, "/auth/oauth", nil, oauthRequest{Provider: provider, RedirectURI: redirectURI}, &start); err != nil {
		return nil, err
	}
	return &start, nil
}

// Logout tears down the server-side session and clears the persisted token.
//
// The local token is cleared regardless of the server call's outcome, and
// logging out without a live session is not an error.
func (a *AuthService) Logout(ctx context.Context) error {
	serverErr := a.client.postJSON(ctx, "/auth/logout", nil, nil, nil)

	if err := a.client.tokens.Clear(); err != nil {
		return err
	}

	// A rejected or unreachable logout still leaves the client logged out.
	_ = serverErr
	return nil
}

// CurrentUser fetches the identity for the persisted token.
func (a *AuthService) CurrentUser(ctx context.Context) (*Identity, error) {
	var identity Identity
	if err := a.client.getJSON(ctx, "/auth/me", nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (a *AuthService) persist(accessToken string) error {
	if accessToken == "" {
		return fmt.Errorf("%w: server returned no access token", shared.ErrAPIRequest)
	}
	return a.client.tokens.Save(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}
