// Package apperrors defines the error taxonomy shared by all domain
// packages. Handlers translate these into HTTP responses via Status;
// storage-engine details never reach the caller.
package apperrors

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

var (
	// ErrNotAuthenticated means no caller identity could be resolved.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotAMember means the caller belongs to no organization.
	ErrNotAMember = errors.New("not a member of any organization")
	// ErrNotEligible means a precondition for the operation is not met.
	ErrNotEligible = errors.New("operation precondition not met")
	// ErrConflict means a uniqueness or invariant violation was detected
	// at write time. Callers may retry with updated state.
	ErrConflict = errors.New("conflict with existing resource")
	// ErrNotFound covers both absent rows and rows outside the caller's
	// organization; the two are deliberately indistinguishable.
	ErrNotFound = errors.New("resource not found")
	// ErrExpired means the referenced resource is past its expiry.
	ErrExpired = errors.New("resource has expired")
	// ErrUploadFailed means the blob transport failed; any partial blob
	// is cleaned up best-effort.
	ErrUploadFailed = errors.New("upload failed")
)

// Status maps a domain error to an HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotAMember):
		return http.StatusForbidden
	case errors.Is(err, ErrNotEligible):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrExpired):
		return http.StatusGone
	case errors.Is(err, ErrUploadFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Translate converts storage-layer errors into domain errors so raw
// constraint details never leak to callers. The unique indexes are the
// backstop beneath application-level check-then-act logic; a race loser
// surfaces here as ErrConflict.
func Translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	}
	return err
}
