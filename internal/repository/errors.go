// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let handlers distinguish failure
// scenarios without inspecting SQL state: ErrForbidden covers both
// ownership violations (touching someone else's request) and state
// violations (editing an approved entity), ErrEmailExists signals a
// duplicate registration, and sql.ErrNoRows passes through untouched for
// missing entities.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, or one frozen by its lifecycle status.
// Handlers translate this into a generic denial.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned by UserRepo.Create when the email address is
// already registered.
var ErrEmailExists = errors.New("email already exists")

// ErrNotApproved is returned when a donor tries to commit a donation
// against a request that is not currently approved.
var ErrNotApproved = errors.New("request not approved")
