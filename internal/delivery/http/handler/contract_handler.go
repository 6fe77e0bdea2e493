package handler

import (
	"fmt"

	"hireflow/internal/delivery/http/dto"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ContractHandler struct {
	uc usecase.ContractUsecase
}

func NewContractHandler(uc usecase.ContractUsecase) *ContractHandler {
	return &ContractHandler{uc: uc}
}

func (h *ContractHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/:id", h.Get)
	r.Put("/:id/status", h.SetStatus)
	r.Post("/:id/approve", h.Approve)
	r.Post("/:id/sign", h.Sign)
	r.Get("/:id/pdf", h.PDF)
}

func (h *ContractHandler) Get(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ct, err := h.uc.Get(c.Context(), caller, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewContractResponse(ct))
}

func (h *ContractHandler) SetStatus(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req statusRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	ct, err := h.uc.SetStatus(c.Context(), caller, id, req.Status)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewContractResponse(ct))
}

func (h *ContractHandler) Approve(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ct, err := h.uc.ApproveByEmployer(c.Context(), caller, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewContractResponse(ct))
}

func (h *ContractHandler) Sign(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ct, err := h.uc.SignByCandidate(c.Context(), caller, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewContractResponse(ct))
}

func (h *ContractHandler) PDF(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	doc, err := h.uc.RenderPDF(c.Context(), caller, id)
	if err != nil {
		return mapUsecaseError(err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="contract-%s.pdf"`, id))
	return c.Status(fiber.StatusOK).Send(doc)
}
