// Package session holds the client's view of who is logged in.
//
// The session moves through an explicit lifecycle: Uninitialized at startup,
// Hydrating while the persisted token is validated against /auth/me, then
// Anonymous or Authenticated. Authorization loss (explicit logout or a 401
// anywhere in the transport) always lands back in Anonymous. Consumers
// subscribe for snapshot changes instead of reaching into shared mutable
// fields.
package session

import (
	"context"
	"sync"

	"github.com/kikitori/kikitori/internal/api"
)

// Phase is the session lifecycle stage.
type Phase int

const (
	Uninitialized Phase = iota
	Hydrating
	Anonymous
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case Uninitialized:
		return "uninitialized"
	case Hydrating:
		return "hydrating"
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return ""
	}
}

// State is a tagged snapshot of the session. Identity is non-nil exactly
// when Phase is Authenticated, which keeps the two cases exhaustively
// checkable instead of a bare nullable user reference.
type State struct {
	Phase    Phase
	Identity *api.Identity
}

// IsAuthenticated reports whether the snapshot carries a live identity.
func (s State) IsAuthenticated() bool { return s.Phase == Authenticated && s.Identity != nil }

// IsAdmin reports whether the snapshot carries an admin identity.
func (s State) IsAdmin() bool { return s.IsAuthenticated() && s.Identity.IsAdmin }

// Authenticator is the slice of the auth API the session needs.
type Authenticator interface {
	CurrentUser(ctx context.Context) (*api.Identity, error)
	Logout(ctx context.Context) error
}

// Session is the process-wide holder of the current identity.
//
// Writes come from exactly two places: the session's own lifecycle methods
// and the transport's 401 handler (via Expire). Snapshot replacement is
// atomic; racing updates resolve last-write-wins, which is acceptable
// because the server stays authoritative and any staleness is corrected by
// the next fetch.
type Session struct {
	mu          sync.Mutex
	state       State
	auth        Authenticator
	subscribers map[int]func(State)
	nextSub     int
}

// New creates a session in the Uninitialized phase.
func New(auth Authenticator) *Session {
	return &Session{
		auth:        auth,
		state:       State{Phase: Uninitialized},
		subscribers: make(map[int]func(State)),
	}
}

// Current returns the latest snapshot.
func (s *Session) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to be called with every new snapshot, and returns
// an unsubscribe func.
func (s *Session) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// transition replaces the snapshot and notifies subscribers outside the lock.
func (s *Session) transition(next State) {
	s.mu.Lock()
	s.state = next
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

// Hydrate validates any persisted token against the backend once at startup.
//
// hasToken reflects whether the token store currently holds a credential.
// On any failure the session lands in Anonymous; a present-but-rejected
// token is cleared by the transport's own 401 handling.
func (s *Session) Hydrate(ctx context.Context, hasToken bool) State {
	if !hasToken {
		s.transition(State{Phase: Anonymous})
		return s.Current()
	}

	s.transition(State{Phase: Hydrating})

	identity, err := s.auth.CurrentUser(ctx)
	if err != nil || identity == nil {
		s.transition(State{Phase: Anonymous})
		return s.Current()
	}

	s.transition(State{Phase: Authenticated, Identity: identity})
	return s.Current()
}

// Establish moves Anonymous → Authenticated after a successful login or
// signup. The caller has already persisted the returned token.
func (s *Session) Establish(identity *api.Identity) {
	if identity == nil {
		return
	}
	s.transition(State{Phase: Authenticated, Identity: identity})
}

// Refresh replaces the identity snapshot wholesale after a profile update or
// plan change. No partial-field updates are ever visible to readers.
func (s *Session) Refresh(identity *api.Identity) {
	if identity == nil {
		return
	}
	s.mu.Lock()
	authenticated := s.state.Phase == Authenticated
	s.mu.Unlock()
	if !authenticated {
		return
	}
	s.transition(State{Phase: Authenticated, Identity: identity})
}

// Logout tears down the session. Calling it while already Anonymous is a
// no-op that succeeds.
func (s *Session) Logout(ctx context.Context) error {
	if err := s.auth.Logout(ctx); err != nil {
		return err
	}
	s.transition(State{Phase: Anonymous})
	return nil
}

// Expire is the transport's session-expired notification: the persisted
// token is already cleared, so the in-memory identity is discarded too.
func (s *Session) Expire() {
	s.mu.Lock()
	alreadyAnonymous := s.state.Phase == Anonymous
	s.mu.Unlock()
	if alreadyAnonymous {
		return
	}
	s.transition(State{Phase: Anonymous})
}
