package auth

import "errors"

// Common authentication service errors
var (
	// ErrUnauthenticated indicates the bearer token is missing or not recognized.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates the token is valid but its role does not match the route.
	ErrForbidden = errors.New("insufficient role")

	// ErrInvalidTokenEntry indicates a misconfigured token table entry.
	ErrInvalidTokenEntry = errors.New("invalid token entry")
)
