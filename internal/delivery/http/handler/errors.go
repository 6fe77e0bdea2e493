package handler

import (
	"errors"
	"strconv"

	"hireflow/internal/delivery/http/middleware"
	"hireflow/internal/domain/user"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"
	ucauth "hireflow/internal/usecase/auth"
	ucuser "hireflow/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

// errorStatuses is matched in order. Opaque classes wrap collaborator errors,
// so the response carries the class text and the cause stays in the log.
var errorStatuses = []struct {
	err    error
	status int
	opaque bool
}{
	{usecase.ErrUnauthenticated, fiber.StatusUnauthorized, false},
	{usecase.ErrInvalidRefreshToken, fiber.StatusUnauthorized, false},
	{usecase.ErrRefreshTokenExpired, fiber.StatusUnauthorized, false},
	{ucauth.ErrInvalidCredentials, fiber.StatusUnauthorized, false},
	{usecase.ErrInactiveAccount, fiber.StatusForbidden, false},
	{ucauth.ErrInactiveAccount, fiber.StatusForbidden, false},
	{usecase.ErrForbidden, fiber.StatusForbidden, false},
	{usecase.ErrNotFound, fiber.StatusNotFound, false},
	{ucuser.ErrNotFound, fiber.StatusNotFound, false},
	{usecase.ErrConflict, fiber.StatusConflict, false},
	{ucauth.ErrEmailAlreadyRegistered, fiber.StatusConflict, false},
	{usecase.ErrInvalidState, fiber.StatusConflict, false},
	{usecase.ErrInvalidStatus, fiber.StatusBadRequest, false},
	{usecase.ErrInvalidInput, fiber.StatusBadRequest, false},
	{ucauth.ErrInvalidInput, fiber.StatusBadRequest, false},
	{ucuser.ErrInvalidInput, fiber.StatusBadRequest, false},
	{usecase.ErrMatchScoringFailed, fiber.StatusBadGateway, true},
	{usecase.ErrContractGenerationFailed, fiber.StatusBadGateway, true},
	{usecase.ErrGenerationUnavailable, fiber.StatusBadGateway, true},
	{usecase.ErrUnavailable, fiber.StatusServiceUnavailable, true},
}

// mapUsecaseError turns a usecase error into an AppError by error class.
// Unclassified errors become 500 and keep their cause for logging only.
func mapUsecaseError(err error) error {
	if err == nil {
		return nil
	}
	for _, e := range errorStatuses {
		if !errors.Is(err, e.err) {
			continue
		}
		msg := err.Error()
		if e.opaque {
			msg = e.err.Error()
		}
		return middleware.NewAppError(e.status, msg, nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

func badRequest(msg string, cause error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, msg, nil, cause)
}

func currentUser(c fiber.Ctx) (user.User, error) {
	usr, ok := middleware.CurrentUser(c)
	if !ok {
		return user.User{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return usr, nil
}

func uuidParam(c fiber.Ctx, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(key))
	if err != nil {
		return uuid.Nil, badRequest("Invalid "+key, err)
	}
	return id, nil
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := c.Query(key)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, badRequest("Invalid "+key, err)
	}
	return v, nil
}
