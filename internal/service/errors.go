package service

import "errors"

// Common service errors. Handlers map these to HTTP status codes with
// errors.Is; services never touch HTTP directly.
var (
	// ErrUnauthenticated is returned when no principal is present
	ErrUnauthenticated = errors.New("authentication required")

	// ErrPermissionDenied is returned when the principal's role or
	// ownership does not allow the action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrPreconditionFailed is returned when a resource-state gate blocks
	// an otherwise authorized action
	ErrPreconditionFailed = errors.New("resource state does not allow this action")

	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicate is returned when a unique fullname or email is taken
	ErrDuplicate = errors.New("resource already exists")

	// ErrInvalidAssignee is returned when a support assignment targets a
	// user without the support role
	ErrInvalidAssignee = errors.New("assignee must have the support role")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
