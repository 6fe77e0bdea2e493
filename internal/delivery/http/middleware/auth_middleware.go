package middleware

import (
	"errors"
	"strings"

	"hireflow/internal/domain/user"
	"hireflow/internal/pkg/jwt"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey = "user_id"
	CtxUserKey   = "user"
)

type AuthMiddleware struct {
	tokens   jwt.Service
	identity usecase.IdentityUsecase
}

func NewAuthMiddleware(tokens jwt.Service, identity usecase.IdentityUsecase) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, identity: identity}
}

// Middleware resolves the bearer token to an active user and stores it in
// Locals for CurrentUser.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		usr, err := m.authenticate(c)
		if err != nil {
			return err
		}
		c.Locals(CtxUserIDKey, usr.ID)
		c.Locals(CtxUserKey, usr)
		return c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c fiber.Ctx) (user.User, error) {
	token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return user.User{}, NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	claims, err := m.tokens.ValidateAccessToken(token)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return user.User{}, NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
	}
	if err != nil {
		return user.User{}, NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	}

	usr, err := m.identity.Authenticate(c.Context(), claims.UserID)
	switch {
	case err == nil:
		return usr, nil
	case errors.Is(err, usecase.ErrInactiveAccount):
		return user.User{}, NewAppError(fiber.StatusForbidden, "Account is inactive", nil, err)
	case errors.Is(err, usecase.ErrUnauthenticated):
		return user.User{}, NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return user.User{}, err
	}
}

// CurrentUser returns the user stored by the auth middleware.
func CurrentUser(c fiber.Ctx) (user.User, bool) {
	usr, ok := c.Locals(CtxUserKey).(user.User)
	return usr, ok
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value. The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
