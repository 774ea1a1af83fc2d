package services

import "errors"

// Business-rule violations are typed errors so the HTTP layer can tell a
// rejected mutation apart from an infrastructure failure. Idempotent no-ops
// (already following, not following) are results, not errors.
var (
	// ErrUnauthenticated is returned when an operation requires a principal
	// and the request is anonymous.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrSelfFollow is returned when a user tries to follow themselves.
	ErrSelfFollow = errors.New("cannot follow yourself")

	// ErrTargetNotFound is returned when the follow/unfollow target does not
	// resolve to an existing user.
	ErrTargetNotFound = errors.New("target user not found")
)
