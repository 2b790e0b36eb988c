package session

import "errors"

const (
	keychainService = "kora-control"
	keychainAccount = "token"
)

// ErrKeychainUnsupported is returned on platforms without a supported
// secret store.
var ErrKeychainUnsupported = errors.New("os keychain not supported on this platform")

// KeychainStore keeps the token in the operating system's secret store
// instead of a file. Service defaults to "kora-control".
type KeychainStore struct {
	Service string
}

// NewKeychainStore returns a keychain store, or an error when the
// platform's secret-store tooling is unavailable.
func NewKeychainStore() (*KeychainStore, error) {
	if err := keychainAvailable(); err != nil {
		return nil, err
	}
	return &KeychainStore{Service: keychainService}, nil
}

func (s *KeychainStore) service() string {
	if s.Service == "" {
		return keychainService
	}
	return s.Service
}

func (s *KeychainStore) Load() (string, error) { return keychainLoad(s.service()) }

func (s *KeychainStore) Save(token string) error { return keychainSave(s.service(), token) }

func (s *KeychainStore) Delete() error { return keychainDelete(s.service()) }
