package service

import (
	"errors"
	"fmt"

	"github.com/tutorhub/tutorhub/internal/repository"
)

// Sentinel errors the HTTP layer maps onto status codes. Services wrap
// them with context: fmt.Errorf("%w: subject is required", ErrValidation).
var (
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// notFoundOr maps the repository's no-row sentinel onto ErrNotFound and
// keeps every other error as a wrapped query failure, so an outage does
// not masquerade as a missing row.
func notFoundOr(err error, what, op string) error {
	if errors.Is(err, repository.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("%s: %w", op, err)
}
