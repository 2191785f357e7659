package services

import "errors"

// Workflow error taxonomy. Routes map these onto HTTP statuses; the
// delivery channel never produces any of them (push failures are
// absorbed and logged).
var (
	// ErrNotFound means a referenced listing, notification or contact
	// request does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden means the authenticated user does not own the
	// resource it is acting on.
	ErrForbidden = errors.New("not authorized for this resource")

	// ErrDuplicateRequest means a contact request already exists for
	// this (listing, requester) pair.
	ErrDuplicateRequest = errors.New("contact request already exists for this listing")

	// ErrInvalidOperation covers semantically nonsensical requests:
	// self-contact, acting on a resolved notification, requesting an
	// unavailable listing.
	ErrInvalidOperation = errors.New("operation not valid in current state")

	// ErrUnauthenticated means the request or handshake carries no
	// verifiable identity.
	ErrUnauthenticated = errors.New("authentication required")
)
