package routes

import (
	"testing"

	"github.com/kikitori/kikitori/internal/api"
	"github.com/kikitori/kikitori/internal/session"
)

func anonymous() session.State {
	return session.State{Phase: session.Anonymous}
}

func member() session.State {
	return session.State{Phase: session.Authenticated, Identity: &api.Identity{ID: "u1"}}
}

func admin() session.State {
	return session.State{Phase: session.Authenticated, Identity: &api.Identity{ID: "u2", IsAdmin: true}}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"/transcription/abc123", PathTranscription},
		{"/transcription/", PathTranscription},
		{PathTranscription, PathTranscription},
		{"/dashboard", "/dashboard"},
		{"/", "/"},
		{"/transcriptions", "/transcriptions"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolve(t *testing.T) {
	t.Run("Open Routes", func(t *testing.T) {
		for _, state := range []session.State{anonymous(), member(), admin()} {
			decision := Resolve(state, PathHome)
			if decision.Outcome != Render || decision.Path != PathHome {
				t.Errorf("home for %v: got %+v", state.Phase, decision)
			}
		}
	})

	t.Run("Anonymous Only", func(t *testing.T) {
		t.Run("Renders For Anonymous", func(t *testing.T) {
			decision := Resolve(anonymous(), PathLogin)
			if decision.Outcome != Render {
				t.Errorf("expected render, got %+v", decision)
			}
		})

		t.Run("Redirects Authenticated To Dashboard", func(t *testing.T) {
			decision := Resolve(member(), PathLogin)
			if decision.Outcome != Redirect || decision.Path != PathDashboard {
				t.Errorf("expected redirect to dashboard, got %+v", decision)
			}
		})
	})

	t.Run("Requires Auth", func(t *testing.T) {
		protected := []string{PathDashboard, PathProfile, PathBilling, "/transcription/xyz"}

		t.Run("Redirects Anonymous To Login", func(t *testing.T) {
			for _, path := range protected {
				decision := Resolve(anonymous(), path)
				if decision.Outcome != Redirect || decision.Path != PathLogin {
					t.Errorf("%s: expected redirect to login, got %+v", path, decision)
				}
			}
		})

		t.Run("Renders For Authenticated", func(t *testing.T) {
			for _, path := range protected {
				decision := Resolve(member(), path)
				if decision.Outcome != Render {
					t.Errorf("%s: expected render, got %+v", path, decision)
				}
			}
		})

		t.Run("Concrete Transcription Path Is Preserved", func(t *testing.T) {
			decision := Resolve(member(), "/transcription/abc123")
			if decision.Path != "/transcription/abc123" {
				t.Errorf("expected concrete path preserved, got %q", decision.Path)
			}
		})
	})

	t.Run("Requires Admin", func(t *testing.T) {
		t.Run("Redirects Anonymous To Login", func(t *testing.T) {
			decision := Resolve(anonymous(), PathAdmin)
			if decision.Outcome != Redirect || decision.Path != PathLogin {
				t.Errorf("expected redirect to login, got %+v", decision)
			}
		})

		t.Run("Redirects Non-Admin To Dashboard", func(t *testing.T) {
			decision := Resolve(member(), PathAdmin)
			if decision.Outcome != Redirect || decision.Path != PathDashboard {
				t.Errorf("expected redirect to dashboard, got %+v", decision)
			}
		})

		t.Run("Renders For Admin", func(t *testing.T) {
			decision := Resolve(admin(), PathAdmin)
			if decision.Outcome != Render {
				t.Errorf("expected render, got %+v", decision)
			}
		})
	})

	t.Run("Unknown Path", func(t *testing.T) {
		decision := Resolve(member(), "/no-such-page")
		if decision.Outcome != NotFound {
			t.Errorf("expected not found, got %+v", decision)
		}
	})
}

func TestFollow(t *testing.T) {
	t.Run("Terminates On Render", func(t *testing.T) {
		decision := Follow(member(), PathDashboard)
		if decision.Outcome != Render || decision.Path != PathDashboard {
			t.Errorf("got %+v", decision)
		}
	})

	t.Run("Anonymous Admin Lands On Login", func(t *testing.T) {
		decision := Follow(anonymous(), PathAdmin)
		if decision.Outcome != Render || decision.Path != PathLogin {
			t.Errorf("expected login render, got %+v", decision)
		}
	})

	t.Run("Non-Admin Lands On Dashboard", func(t *testing.T) {
		decision := Follow(member(), PathAdmin)
		if decision.Outcome != Render || decision.Path != PathDashboard {
			t.Errorf("expected dashboard render, got %+v", decision)
		}
	})

	t.Run("Authenticated Login Lands On Dashboard", func(t *testing.T) {
		decision := Follow(member(), PathLogin)
		if decision.Outcome != Render || decision.Path != PathDashboard {
			t.Errorf("expected dashboard render, got %+v", decision)
		}
	})

	t.Run("Every Table Entry Terminates For Every Session Kind", func(t *testing.T) {
		for path := range Table {
			for _, state := range []session.State{anonymous(), member(), admin()} {
				decision := Follow(state, path)
				if decision.Outcome == Redirect {
					t.Errorf("Follow(%v, %q) did not terminate: %+v", state.Phase, path, decision)
				}
			}
		}
	})
}
