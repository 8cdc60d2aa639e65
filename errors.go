package openmotics

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the OpenMotics clients.
// All errors are defined here for easy discovery and consistent organization.
var (
	// Transport errors
	ErrConnection = errors.New("openmotics: error communicating with the OpenMotics API")
	ErrTimeout    = errors.New("openmotics: timeout while connecting to the OpenMotics API")
	ErrTLS        = errors.New("openmotics: TLS/certificate error")

	// Authentication errors
	ErrAuthentication = errors.New("openmotics: authentication failed (invalid or expired token)")
	ErrNoCredentials  = errors.New("openmotics: username and password cannot be empty")
	ErrEmptyToken     = errors.New("openmotics: API token cannot be empty")
	ErrEmptyHost      = errors.New("openmotics: gateway host cannot be empty")

	// Cloud validation errors
	ErrNoInstallation = errors.New("openmotics: no installation ID selected")
)

// APIError represents a non-auth HTTP error response (status >= 400, excluding
// 401/403) from the OpenMotics API. It carries the status code and server
// message, and matches ErrConnection under errors.Is so callers can treat it
// as a transient connection failure.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("openmotics: API error %d: %s", e.StatusCode, e.Message)
}

// Is reports APIError as a connection-kind failure.
func (e *APIError) Is(target error) bool {
	return target == ErrConnection
}

// IsConnectionError returns true for generic transport failures, including
// non-auth HTTP error statuses. These are the only errors the client retries.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsTimeoutError returns true if the request exceeded its timeout budget.
func IsTimeoutError(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsTLSError returns true if the error indicates a certificate or TLS
// negotiation failure.
func IsTLSError(err error) bool {
	return errors.Is(err, ErrTLS)
}

// IsAuthenticationError returns true if the API responded with 401 or 403,
// or a local gateway login was rejected.
func IsAuthenticationError(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsClientError returns true for any error produced by this library's
// request engine, regardless of kind. Useful for blanket handling.
func IsClientError(err error) bool {
	return IsConnectionError(err) ||
		IsTimeoutError(err) ||
		IsTLSError(err) ||
		IsAuthenticationError(err)
}

// StatusCode extracts the HTTP status code from an APIError, or 0 if the
// error does not carry one.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
