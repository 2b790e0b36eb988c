//go:build darwin

package session

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// errSecItemNotFound is the exit status of security(1) when no item
// matches.
const errSecItemNotFound = 44

func keychainAvailable() error {
	if _, err := exec.LookPath("security"); err != nil {
		return fmt.Errorf("security tool not found: %w", err)
	}
	return nil
}

func notFound(err error) bool {
	var exitErr *exec.ExitError
	return errors.As(err, &exitErr) && exitErr.ExitCode() == errSecItemNotFound
}

func keychainLoad(service string) (string, error) {
	out, err := exec.Command("security", "find-generic-password",
		"-s", service, "-a", keychainAccount, "-w").Output()
	if err != nil {
		if notFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("keychain lookup failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func keychainSave(service, token string) error {
	// -U updates the item in place when it already exists.
	if out, err := exec.Command("security", "add-generic-password", "-U",
		"-s", service, "-a", keychainAccount, "-w", token).CombinedOutput(); err != nil {
		return fmt.Errorf("keychain store failed: %s: %w", strings.TrimSpace(string(out)), err)
	}
	return nil
}

func keychainDelete(service string) error {
	if err := exec.Command("security", "delete-generic-password",
		"-s", service, "-a", keychainAccount).Run(); err != nil && !notFound(err) {
		return fmt.Errorf("keychain delete failed: %w", err)
	}
	return nil
}
