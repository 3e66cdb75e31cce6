// Package routes implements the client-side authorization gate: a static
// table mapping each page path to the session capability it requires.
// Evaluation is synchronous and performs no I/O; redirects re-enter the
// table at the new path.
package routes

import (
	"strings"

	"github.com/kikitori/kikitori/internal/session"
)

// Capability is the session state a path requires.
type Capability int

const (
	// None renders for any session state.
	None Capability = iota
	// AnonymousOnly redirects authenticated sessions to the dashboard.
	AnonymousOnly
	// RequireAuth redirects anonymous sessions to login.
	RequireAuth
	// RequireAdmin additionally redirects authenticated non-admins to the dashboard.
	RequireAdmin
)

func (c Capability) String() string {
	switch c {
	case None:
		return "none"
	case AnonymousOnly:
		return "anonymous-only"
	case RequireAuth:
		return "authenticated"
	case RequireAdmin:
		return "admin"
	default:
		return ""
	}
}

// Well-known paths, mirroring the web client's page routes.
const (
	PathHome          = "/"
	PathLogin         = "/login"
	PathDashboard     = "/dashboard"
	PathTranscription = "/transcription/:id"
	PathProfile       = "/profile"
	PathBilling       = "/billing"
	PathAdmin         = "/admin"
)

// Table is the static path → capability mapping.
var Table = map[string]Capability{
	PathHome:          None,
	PathLogin:         AnonymousOnly,
	PathDashboard:     RequireAuth,
	PathTranscription: RequireAuth,
	PathProfile:       RequireAuth,
	PathBilling:       RequireAuth,
	PathAdmin:         RequireAdmin,
}

// Outcome is the terminal effect of evaluating the table for one path.
type Outcome int

const (
	Render Outcome = iota
	Redirect
	NotFound
)

// Decision is the result of gating one navigation.
type Decision struct {
	Outcome Outcome
	// Path is the path to render (Render) or re-enter the table at (Redirect).
	Path string
}

// Normalize collapses a concrete path like /transcription/abc123 onto its
// table entry. Unparameterized paths are returned unchanged.
func Normalize(path string) string {
	if path != PathTranscription && strings.HasPrefix(path, "/transcription/") {
		return PathTranscription
	}
	return path
}

// Resolve evaluates the gate for one navigation against the given snapshot.
func Resolve(state session.State, path string) Decision {
	capability, ok := Table[Normalize(path)]
	if !ok {
		return Decision{Outcome: NotFound, Path: path}
	}

	switch capability {
	case None:
		return Decision{Outcome: Render, Path: path}

	case AnonymousOnly:
		if state.IsAuthenticated() {
			return Decision{Outcome: Redirect, Path: PathDashboard}
		}
		return Decision{Outcome: Render, Path: path}

	case RequireAuth:
		if !state.IsAuthenticated() {
			return Decision{Outcome: Redirect, Path: PathLogin}
		}
		return Decision{Outcome: Render, Path: path}

	case RequireAdmin:
		if !state.IsAuthenticated() {
			return Decision{Outcome: Redirect, Path: PathLogin}
		}
		if !state.IsAdmin() {
			return Decision{Outcome: Redirect, Path: PathDashboard}
		}
		return Decision{Outcome: Render, Path: path}
	}

	return Decision{Outcome: NotFound, Path: path}
}

// Follow resolves a navigation to a terminal decision, re-entering the
// table on redirects. The hop bound guards against a mis-specified table;
// the static table above always terminates in at most two hops.
func Follow(state session.State, path string) Decision {
	decision := Resolve(state, path)
	for hops := 0; decision.Outcome == Redirect && hops < 4; hops++ {
		next := Resolve(state, decision.Path)
		if next.Outcome == Redirect && next.Path == decision.Path {
			return Decision{Outcome: Render, Path: decision.Path}
		}
		decision = next
	}
	return decision
}
