package usecase

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrInactiveAccount       = errors.New("account is inactive")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
	ErrInvalidState          = errors.New("invalid state")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrGenerationUnavailable = errors.New("text generation unavailable")
	ErrNotificationFailed    = errors.New("notification failed")
	ErrUnavailable           = errors.New("service unavailable")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInternal              = errors.New("internal error")
)

var (
	ErrDuplicateApplication     = fmt.Errorf("%w: application already exists for this job", ErrConflict)
	ErrContractExists           = fmt.Errorf("%w: contract already exists for this application", ErrConflict)
	ErrMatchScoringFailed       = fmt.Errorf("%w: match scoring failed", ErrGenerationUnavailable)
	ErrContractGenerationFailed = fmt.Errorf("%w: contract generation failed", ErrGenerationUnavailable)
)

// internalErr keeps the cause for logging while classifying it as ErrInternal.
func internalErr(err error) error {
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
