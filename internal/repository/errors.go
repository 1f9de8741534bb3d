// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrConflict signals that an operation
// cannot proceed due to existing dependent records (e.g. deleting
// a facility with upcoming reservations).
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state, such as attempting to
// delete a facility that still has upcoming reservations. Handlers
// should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrFacilityNotFound is returned when a referenced facility does
// not exist. Handlers should translate this into an HTTP 404.
var ErrFacilityNotFound = errors.New("facility not found")
