package api

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionExpired is returned for every 401 response, after the
	// session has been cleared and the navigator sent to login.
	ErrSessionExpired = errors.New("session expired")

	// ErrNoCheckoutURL means the payment start succeeded at the transport
	// level but carried no redirect target.
	ErrNoCheckoutURL = errors.New("payment gateway returned no checkout url")

	// ErrNoAccessToken means a 2xx login response had no access token.
	ErrNoAccessToken = errors.New("login response carried no access token")

	ErrInvalidTimeRange = NewLocalError("invalid time range")
)

// LocalError is implemented by failures raised before any request left
// the process: invalid input, or an action the caller's state rejects.
type LocalError interface {
	error
	Local() bool
}

type localError struct{ msg string }

func (e *localError) Error() string { return e.msg }

func (*localError) Local() bool { return true }

// NewLocalError returns a sentinel that Classify reports as KindLocal.
func NewLocalError(msg string) error {
	return &localError{msg: msg}
}

// StatusError is a non-2xx, non-401 response.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: api returned status %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: api returned status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Kind buckets errors the way pages present them.
type Kind int

const (
	KindNone Kind = iota
	// KindAuthExpired is handled globally and never shown per call.
	KindAuthExpired
	// KindClient is a 4xx other than 401.
	KindClient
	// KindServer is a 5xx.
	KindServer
	// KindNetwork covers timeouts, refused connections and undecodable
	// bodies.
	KindNetwork
	// KindDomain is a failure signalled inside a 2xx response.
	KindDomain
	// KindLocal never reached the network. See LocalError.
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAuthExpired:
		return "auth_expired"
	case KindClient:
		return "client"
	case KindServer:
		return "server"
	case KindNetwork:
		return "network"
	case KindDomain:
		return "domain"
	case KindLocal:
		return "local"
	}
	return "unknown"
}

// Classify maps err onto Kind.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrSessionExpired) {
		return KindAuthExpired
	}
	var le LocalError
	if errors.As(err, &le) && le.Local() {
		return KindLocal
	}
	if errors.Is(err, ErrNoCheckoutURL) || errors.Is(err, ErrNoAccessToken) {
		return KindDomain
	}
	var se *StatusError
	if errors.As(err, &se) {
		if se.Status >= 500 {
			return KindServer
		}
		return KindClient
	}
	// Transport failures, timeouts and undecodable bodies.
	return KindNetwork
}

// Retryable reports whether the user should be offered a retry. Session
// expiry is handled by the login flow, and resending a request that
// failed locally would fail the same way.
func Retryable(err error) bool {
	switch Classify(err) {
	case KindNone, KindAuthExpired, KindLocal:
		return false
	}
	return true
}
