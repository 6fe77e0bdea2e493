package handler

import (
	"hireflow/internal/delivery/http/dto"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ApplicationHandler struct {
	apps      usecase.ApplicationUsecase
	workflow  usecase.WorkflowUsecase
	contracts usecase.ContractUsecase
}

type submitApplicationRequest struct {
	JobID string `json:"job_id"`
}

type statusRequest struct {
	Status string `json:"status"`
}

func NewApplicationHandler(apps usecase.ApplicationUsecase, workflow usecase.WorkflowUsecase, contracts usecase.ContractUsecase) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, workflow: workflow, contracts: contracts}
}

func (h *ApplicationHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.Submit)
	r.Get("/mine", h.ListMine)
	r.Get("/received", h.ListReceived)
	r.Get("/:id", h.Get)
	r.Put("/:id/status", h.SetStatus)
	r.Post("/:id/accept", h.Accept)
	r.Get("/:id/contract", h.GetContract)
	r.Post("/:id/contract", h.GenerateContract)
}

// RegisterJobRoutes mounts the per-job listing and match preview under the jobs group.
func (h *ApplicationHandler) RegisterJobRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}
	r.Get("/:id/applications", auth, h.ListForJob)
	r.Get("/:id/match", auth, h.PreviewMatch)
}

func (h *ApplicationHandler) Submit(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req submitApplicationRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return badRequest("Invalid job_id", err)
	}

	a, err := h.apps.Submit(c.Context(), caller, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewApplicationResponse(a))
}

// PreviewMatch scores the caller against a job. Nothing is stored.
func (h *ApplicationHandler) PreviewMatch(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	res, err := h.apps.PreviewMatch(c.Context(), caller, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMatchPreviewResponse(jobID, res))
}

func (h *ApplicationHandler) ListMine(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.apps.ListForCandidate(c.Context(), caller)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationListResponse(items))
}

func (h *ApplicationHandler) ListReceived(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.apps.ListForEmployer(c.Context(), caller)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationListResponse(items))
}

func (h *ApplicationHandler) ListForJob(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	jobID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	items, err := h.apps.ListForJob(c.Context(), caller, jobID)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationListResponse(items))
}

func (h *ApplicationHandler) Get(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	a, err := h.apps.Get(c.Context(), caller, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(a))
}

func (h *ApplicationHandler) SetStatus(c fiber.Ctx) error {
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

	a, err := h.apps.SetStatus(c.Context(), caller, id, req.Status)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationResponse(a))
}

func (h *ApplicationHandler) Accept(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	res, err := h.workflow.Accept(c.Context(), caller, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.AcceptResponse{
		Application: dto.NewApplicationResponse(res.Application),
		Contract:    dto.NewContractResponse(res.Contract),
	})
}

func (h *ApplicationHandler) GetContract(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ct, err := h.contracts.GetForApplication(c.Context(), caller, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewContractResponse(ct))
}

func (h *ApplicationHandler) GenerateContract(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ct, err := h.contracts.Generate(c.Context(), caller, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewContractResponse(ct))
}
