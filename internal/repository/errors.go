// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrAlreadyPurchased signals that the
// uniqueness constraint over (beat_id, buyer_id) rejected a
// duplicate purchase.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned when registration hits the unique
// index on users.email. Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrBeatNotFound is returned when a referenced beat does not
// exist. Handlers translate it into HTTP 404. Existence is always
// checked before ownership so that mutation attempts on a missing
// beat report 404 rather than 403.
var ErrBeatNotFound = errors.New("beat not found")

// ErrProjectNotFound is returned when a referenced project does
// not exist. Handlers translate it into HTTP 404.
var ErrProjectNotFound = errors.New("project not found")

// ErrUserNotFound is returned when a referenced user does not
// exist. Handlers translate it into HTTP 404.
var ErrUserNotFound = errors.New("user not found")

// ErrAlreadyPurchased is returned when the UNIQUE KEY over
// purchases(beat_id, buyer_id) rejects an insert. The constraint,
// not any prior existence check, is the authoritative duplicate
// signal, so concurrent duplicate attempts cannot both succeed.
// Handlers translate it into HTTP 409.
var ErrAlreadyPurchased = errors.New("beat already purchased")

// ErrPurchaseRequired is returned when an artist tries to create a
// project for a beat they have not purchased. The original API
// reports this as 403 ("you must purchase this beat first"), not
// 404, and handlers preserve that mapping.
var ErrPurchaseRequired = errors.New("purchase required")
