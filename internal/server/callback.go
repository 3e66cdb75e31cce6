package server

import (
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// CallbackResult contains the result of a third-party login flow.
type CallbackResult struct {
	Token *oauth2.Token
	err   error
}

func (c *CallbackResult) Error() error {
	return c.err
}

// CallbackHandler captures the backend's redirect at the end of a
// third-party login. The backend completes the provider handshake itself
// and hands the issued bearer token back via query parameters on a
// localhost redirect.
//
// Implements the [Handler] interface for registration with a [Router].
type CallbackHandler struct {
	state       string
	resultChan  chan CallbackResult
	callbackHit bool
	mu          sync.Mutex
}

// NewCallbackHandler creates a callback handler expecting the given state
// token. The state must match the one issued when the flow started; a
// mismatch aborts the flow.
func NewCallbackHandler(state string) *CallbackHandler {
	return &CallbackHandler{
		state:      state,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{"/callback"}
}

// Result returns the channel delivering the flow's single outcome.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

// ServeHTTP handles the login callback request.
//
// Validates the state parameter, extracts the issued token, and sends the
// result through the result channel exactly once.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	query := r.URL.Query()

	if errMsg := query.Get("error"); errMsg != "" {
		h.fail(w, fmt.Errorf("login failed: %s", errMsg))
		return
	}

	if query.Get("state") != h.state {
		h.fail(w, fmt.Errorf("state mismatch: possible CSRF attempt"))
		return
	}

	accessToken := query.Get("access_token")
	if accessToken == "" {
		h.fail(w, fmt.Errorf("callback missing access_token"))
		return
	}

	h.resultChan <- CallbackResult{Token: &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<html><body><h2>Login successful</h2><p>You can close this window and return to the terminal.</p></body></html>")
}

func (h *CallbackHandler) fail(w http.ResponseWriter, err error) {
	h.resultChan <- CallbackResult{err: err}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadRequest)
	fmt.Fprintf(w, "<html><body><h2>Login failed</h2><p>%s</p></body></html>", err)
}
