package shared

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"
)

func TestTokenStore(t *testing.T) {
	t.Run("Load", func(t *testing.T) {
		t.Run("Absent Token Is Not An Error", func(t *testing.T) {
			store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

			token, err := store.Load()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token != nil {
				t.Errorf("expected nil token, got %+v", token)
			}
		})

		t.Run("Corrupt File Is An Error", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			os.WriteFile(path, []byte("{not json"), 0600)

			if _, err := NewTokenStore(path).Load(); err == nil {
				t.Error("expected error for corrupt token file")
			}
		})

		t.Run("Empty Access Token Reads As Absent", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			os.WriteFile(path, []byte(`{"token_type":"Bearer"}`), 0600)

			token, err := NewTokenStore(path).Load()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token != nil {
				t.Errorf("expected nil token, got %+v", token)
			}
		})
	})

	t.Run("Save", func(t *testing.T) {
		t.Run("Round Trip", func(t *testing.T) {
			store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

			if err := store.Save(&oauth2.Token{AccessToken: "abc", TokenType: "Bearer"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			token, err := store.Load()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if token == nil || token.AccessToken != "abc" {
				t.Errorf("round trip lost token, got %+v", token)
			}
		})

		t.Run("Creates Parent Directory", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", "dir", "token.json")
			store := NewTokenStore(path)

			if err := store.Save(&oauth2.Token{AccessToken: "abc"}); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("expected token file to exist: %v", err)
			}
		})

		t.Run("Restricts Permissions", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token.json")
			store := NewTokenStore(path)
			store.Save(&oauth2.Token{AccessToken: "abc"})

			info, err := os.Stat(path)
			if err != nil {
				t.Fatalf("failed to stat token file: %v", err)
			}
			if perm := info.Mode().Perm(); perm != 0600 {
				t.Errorf("expected 0600 permissions, got %o", perm)
			}
		})

		t.Run("Rejects Empty Token", func(t *testing.T) {
			store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

			if err := store.Save(nil); err == nil {
				t.Error("expected error for nil token")
			}
			if err := store.Save(&oauth2.Token{}); err == nil {
				t.Error("expected error for empty access token")
			}
		})
	})

	t.Run("Clear", func(t *testing.T) {
		t.Run("Removes Stored Token", func(t *testing.T) {
			store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))
			store.Save(&oauth2.Token{AccessToken: "abc"})

			if err := store.Clear(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			token, _ := store.Load()
			if token != nil {
				t.Error("expected token to be gone")
			}
		})

		t.Run("Idempotent", func(t *testing.T) {
			store := NewTokenStore(filepath.Join(t.TempDir(), "token.json"))

			if err := store.Clear(); err != nil {
				t.Errorf("expected clearing an absent token to succeed, got %v", err)
			}
			if err := store.Clear(); err != nil {
				t.Errorf("expected repeat clear to succeed, got %v", err)
			}
		})
	})
}
