package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.API.BaseURL == "" {
			t.Error("expected a default API base URL")
		}
		if config.Server.Port == 0 {
			t.Error("expected a default callback port")
		}
		if config.Database.Path == "" {
			t.Error("expected a default database path")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Parses TOML", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			content := `
[api]
base_url = "https://api.example.com/api"

[server]
host = "127.0.0.1"
port = 9000

[database]
path = "cache.db"
max_open_conns = 5
max_idle_conns = 2
`
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				t.Fatalf("failed to write config: %v", err)
			}

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.API.BaseURL != "https://api.example.com/api" {
				t.Errorf("unexpected base URL %q", config.API.BaseURL)
			}
			if config.Server.Port != 9000 {
				t.Errorf("unexpected port %d", config.Server.Port)
			}
			if config.Database.MaxOpenConns != 5 {
				t.Errorf("unexpected max open conns %d", config.Database.MaxOpenConns)
			}
		})

		t.Run("Missing File", func(t *testing.T) {
			_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
			if !errors.Is(err, ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("Invalid TOML", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			os.WriteFile(path, []byte("this is not { toml"), 0644)

			_, err := LoadConfig(path)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})

		t.Run("Environment Overrides Base URL", func(t *testing.T) {
			t.Setenv(EnvAPIURL, "https://override.example.com/api")

			path := filepath.Join(t.TempDir(), "config.toml")
			os.WriteFile(path, []byte("[api]\nbase_url = \"https://file.example.com\"\n"), 0644)

			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if config.API.BaseURL != "https://override.example.com/api" {
				t.Errorf("expected env override, got %q", config.API.BaseURL)
			}
		})
	})

	t.Run("SaveConfig", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.API.BaseURL = "https://saved.example.com/api"

		if err := SaveConfig(path, config); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		loaded, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.API.BaseURL != "https://saved.example.com/api" {
			t.Errorf("round trip lost base URL, got %q", loaded.API.BaseURL)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		t.Run("Creates From Template", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")

			if err := CreateConfigFile(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, err := LoadConfig(path); err != nil {
				t.Errorf("created config does not parse: %v", err)
			}
		})

		t.Run("Refuses To Overwrite", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			os.WriteFile(path, []byte("[api]\n"), 0644)

			if err := CreateConfigFile(path); err == nil {
				t.Error("expected error when file exists")
			}
		})
	})
}
