//go:build !linux && !darwin

package session

func keychainAvailable() error { return ErrKeychainUnsupported }

func keychainLoad(string) (string, error) { return "", ErrKeychainUnsupported }

func keychainSave(string, string) error { return ErrKeychainUnsupported }

func keychainDelete(string) error { return ErrKeychainUnsupported }
