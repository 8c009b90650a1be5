package shared

import "errors"

// CSRF verification failures.
var (
	ErrCSRFTokenMissing  = errors.New("csrf token missing")
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// ErrSessionValueMissing is returned by GetJSON when the key is not set.
var ErrSessionValueMissing = errors.New("session value missing")
