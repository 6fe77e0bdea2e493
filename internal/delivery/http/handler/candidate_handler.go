package handler

import (
	"hireflow/internal/delivery/http/dto"
	"hireflow/internal/domain/candidate"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type CandidateHandler struct {
	uc usecase.CandidateUsecase
}

type upsertCandidateRequest struct {
	Bio        string                 `json:"bio"`
	Skills     []string               `json:"skills"`
	Experience []candidate.Experience `json:"experience"`
	Education  []candidate.Education  `json:"education"`
}

func NewCandidateHandler(uc usecase.CandidateUsecase) *CandidateHandler {
	return &CandidateHandler{uc: uc}
}

func (h *CandidateHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMine)
	r.Put("/me", h.UpsertMine)
	r.Post("/me/generate-bio", h.GenerateBio)
}

func (h *CandidateHandler) GetMine(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	cand, err := h.uc.GetMine(c.Context(), caller)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateResponse(cand))
}

func (h *CandidateHandler) UpsertMine(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req upsertCandidateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	cand, err := h.uc.UpsertMine(c.Context(), caller, usecase.UpsertCandidateInput{
		Bio:        req.Bio,
		Skills:     req.Skills,
		Experience: req.Experience,
		Education:  req.Education,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateResponse(cand))
}

func (h *CandidateHandler) GenerateBio(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	bio, err := h.uc.GenerateBio(c.Context(), caller)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"bio": bio})
}
