package handler

import (
	"hireflow/internal/delivery/http/dto"
	"hireflow/internal/delivery/http/middleware"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"
	ucauth "hireflow/internal/usecase/auth"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AuthHandler struct {
	uc usecase.AuthUsecase
}

type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"full_name"`
	IsEmployer bool   `json:"is_employer"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewAuthHandler(uc usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

func (h *AuthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/refresh", h.Refresh)
}

func (h *AuthHandler) Register(c fiber.Ctx) error {
	var req registerRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}
	sess, err := h.uc.Register(c.Context(), ucauth.RegisterInput(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, sessionResponse(sess))
}

func (h *AuthHandler) Login(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Bad request", err)
	}
	sess, err := h.uc.Login(c.Context(), ucauth.LoginInput(req))
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, sessionResponse(sess))
}

// Refresh accepts the refresh token as a bearer header or as refresh_token in
// the JSON body.
func (h *AuthHandler) Refresh(c fiber.Ctx) error {
	tok, ok := middleware.BearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok && len(c.Body()) > 0 {
		var req struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.Bind().Body(&req); err != nil {
			return badRequest("Bad request", err)
		}
		tok = req.RefreshToken
	}
	if tok == "" {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	sess, err := h.uc.Refresh(c.Context(), tok)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, sessionResponse(sess))
}

func sessionResponse(s usecase.Session) dto.AuthResponse {
	out := dto.AuthResponse{AccessToken: s.AccessToken, RefreshToken: s.RefreshToken, TokenType: "Bearer"}
	if s.User.ID != uuid.Nil {
		u := dto.NewUserResponse(s.User)
		out.User = &u
	}
	return out
}
