package main

import (
	"errors"
	"strings"
	"testing"
)

func TestPromptPassword(t *testing.T) {
	restore := readPassword
	defer func() { readPassword = restore }()

	t.Run("Returns Trimmed Secret", func(t *testing.T) {
		readPassword = func(fd int) ([]byte, error) {
			return []byte("  hunter2  "), nil
		}

		got, err := promptPassword()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "hunter2" {
			t.Errorf("expected trimmed password, got %q", got)
		}
	})

	t.Run("Propagates Read Failure", func(t *testing.T) {
		readPassword = func(fd int) ([]byte, error) {
			return nil, errors.New("tty unavailable")
		}

		_, err := promptPassword()
		if err == nil {
			t.Fatal("expected error from failing terminal read")
		}
		if !strings.Contains(err.Error(), "failed to read password") {
			t.Errorf("expected read failure to be wrapped, got %v", err)
		}
	})
}
