package handler

import (
	"hireflow/internal/delivery/http/dto"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"
	ucuser "hireflow/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

type UserHandler struct {
	uc usecase.UserUsecase
}

type updateMeRequest struct {
	FullName *string `json:"full_name"`
	Password *string `json:"password"`
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

func (h *UserHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Get("/", h.List)
	r.Put("/:id/active", h.SetActive)
}

func (h *UserHandler) GetMe(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	usr, err := h.uc.GetMe(c.Context(), caller)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) UpdateMe(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateMeRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	if req.FullName == nil && req.Password == nil {
		return badRequest("Invalid request payload", nil)
	}

	usr, err := h.uc.UpdateMe(c.Context(), caller, ucuser.UpdateMeInput{FullName: req.FullName, Password: req.Password})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}

func (h *UserHandler) List(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	limit, err := parseQueryIntStrict(c, "limit", 20)
	if err != nil {
		return err
	}
	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return err
	}

	users, err := h.uc.List(c.Context(), caller, limit, offset)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	return response.Page(c, out, limit, offset)
}

func (h *UserHandler) SetActive(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req setActiveRequest
	if err := c.Bind().Body(&req); err != nil || req.IsActive == nil {
		return badRequest("is_active is required", err)
	}

	usr, err := h.uc.SetActive(c.Context(), caller, id, *req.IsActive)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewUserResponse(usr))
}
