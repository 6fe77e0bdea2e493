package handler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"hireflow/internal/delivery/http/middleware"
	"hireflow/internal/usecase"
	ucauth "hireflow/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
)

func TestMapUsecaseError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{usecase.ErrUnauthenticated, fiber.StatusUnauthorized},
		{ucauth.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{usecase.ErrInactiveAccount, fiber.StatusForbidden},
		{usecase.ErrForbidden, fiber.StatusForbidden},
		{fmt.Errorf("%w: job", usecase.ErrNotFound), fiber.StatusNotFound},
		{usecase.ErrDuplicateApplication, fiber.StatusConflict},
		{usecase.ErrContractExists, fiber.StatusConflict},
		{usecase.ErrInvalidState, fiber.StatusConflict},
		{usecase.ErrInvalidStatus, fiber.StatusBadRequest},
		{usecase.ErrInvalidInput, fiber.StatusBadRequest},
		{usecase.ErrMatchScoringFailed, fiber.StatusBadGateway},
		{usecase.ErrUnavailable, fiber.StatusServiceUnavailable},
		{errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		err := mapUsecaseError(tc.err)
		var appErr *middleware.AppError
		if !errors.As(err, &appErr) {
			t.Fatalf("%v: expected AppError, got %T", tc.err, err)
		}
		if appErr.StatusCode != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, appErr.StatusCode)
		}
		if !errors.Is(err, tc.err) {
			t.Fatalf("%v: cause not preserved", tc.err)
		}
	}
	if mapUsecaseError(nil) != nil {
		t.Fatalf("nil should map to nil")
	}
}

func TestMapUsecaseError_HidesCollaboratorDetail(t *testing.T) {
	upstream := errors.New("googleapi: Error 429: quota exceeded for project 1234")
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: %w", usecase.ErrMatchScoringFailed, upstream), usecase.ErrMatchScoringFailed.Error()},
		{fmt.Errorf("%w: %w", usecase.ErrContractGenerationFailed, upstream), usecase.ErrContractGenerationFailed.Error()},
		{fmt.Errorf("%w: %w", usecase.ErrGenerationUnavailable, upstream), usecase.ErrGenerationUnavailable.Error()},
		{fmt.Errorf("%w: %w", usecase.ErrUnavailable, upstream), usecase.ErrUnavailable.Error()},
	}
	for _, tc := range cases {
		var appErr *middleware.AppError
		if !errors.As(mapUsecaseError(tc.err), &appErr) {
			t.Fatalf("%v: expected AppError", tc.err)
		}
		if appErr.Message != tc.want {
			t.Fatalf("message = %q, want %q", appErr.Message, tc.want)
		}
		if strings.Contains(appErr.Message, "quota") {
			t.Fatalf("collaborator detail leaked: %q", appErr.Message)
		}
		if !errors.Is(appErr, upstream) {
			t.Fatalf("cause should be kept for logging")
		}
	}
}
