//go:build linux

package session

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Linux uses libsecret (gnome-keyring / kwallet) through secret-tool.
// Requires: sudo apt install libsecret-tools (Debian/Ubuntu)
//
//	or: sudo dnf install libsecret (Fedora)
func keychainAvailable() error {
	if _, err := exec.LookPath("secret-tool"); err != nil {
		return fmt.Errorf("secret-tool not found (install libsecret-tools): %w", err)
	}
	return nil
}

func keychainLoad(service string) (string, error) {
	out, err := exec.Command("secret-tool", "lookup",
		"service", service, "account", keychainAccount).Output()
	if err != nil {
		// secret-tool exits 1 with no output when nothing is stored.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(out) == 0 {
			return "", nil
		}
		return "", fmt.Errorf("secret-tool lookup failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func keychainSave(service, token string) error {
	cmd := exec.Command("secret-tool", "store", "--label=Kora Control session",
		"service", service, "account", keychainAccount)
	cmd.Stdin = strings.NewReader(token)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("secret-tool store failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

func keychainDelete(service string) error {
	// clear succeeds when nothing matches.
	if out, err := exec.Command("secret-tool", "clear",
		"service", service, "account", keychainAccount).CombinedOutput(); err != nil {
		return fmt.Errorf("secret-tool clear failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}
