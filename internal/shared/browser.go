package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// goos is a test seam for runtime.GOOS.
var goos = func() string { return runtime.GOOS }

// openerFor returns the platform launcher command for a URL.
func openerFor(url string) (*exec.Cmd, error) {
	switch os := goos(); os {
	case "darwin":
		return exec.Command("open", url), nil
	case "linux":
		return exec.Command("xdg-open", url), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", os)
	}
}

// OpenBrowser launches the default browser on the given URL. Used for the
// login handoff and the payment provider's checkout and portal pages, all of
// which continue in the browser rather than the terminal.
func OpenBrowser(url string) error {
	cmd, err := openerFor(url)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
