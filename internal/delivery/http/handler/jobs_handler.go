package handler

import (
	"strings"

	"hireflow/internal/delivery/http/dto"
	"hireflow/internal/domain/job"
	"hireflow/internal/pkg/response"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc usecase.JobUsecase
}

type salaryRequest struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

func (s *salaryRequest) toDomain() *job.SalaryRange {
	if s == nil {
		return nil
	}
	return &job.SalaryRange{Min: s.Min, Max: s.Max, Currency: s.Currency}
}

type createJobRequest struct {
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Requirements []string       `json:"requirements"`
	Location     string         `json:"location"`
	Salary       *salaryRequest `json:"salary"`
	CompanyInfo  string         `json:"company_info"`
	CompanyURL   string         `json:"company_url"`
}

type updateJobRequest struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	Requirements *[]string      `json:"requirements"`
	Location     *string        `json:"location"`
	Salary       *salaryRequest `json:"salary"`
}

type generateDescriptionRequest struct {
	Title        string   `json:"title"`
	Requirements []string `json:"requirements"`
	CompanyInfo  string   `json:"company_info"`
	CompanyURL   string   `json:"company_url"`
}

func NewJobsHandler(uc usecase.JobUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

// RegisterRoutes mounts public reads and authenticated writes. Static paths go before "/:id".
func (h *JobsHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil {
		return
	}

	r.Get("/", h.ListActive)
	r.Get("/mine", auth, h.ListMine)
	r.Post("/", auth, h.Create)
	r.Post("/generate-description", auth, h.GenerateDescription)
	r.Get("/:id", h.Get)
	r.Put("/:id", auth, h.Update)
	r.Put("/:id/deactivate", auth, h.Deactivate)
}

// ListActive serves the public listing. A non-empty q switches to ranked keyword search.
func (h *JobsHandler) ListActive(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", 20)
	if err != nil {
		return err
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		items, err := h.uc.Search(c.Context(), q, limit)
		if err != nil {
			return mapUsecaseError(err)
		}
		return response.Page(c, dto.NewJobListResponse(items), limit, 0)
	}

	offset, err := parseQueryIntStrict(c, "offset", 0)
	if err != nil {
		return err
	}

	items, err := h.uc.ListActive(c.Context(), limit, offset)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Page(c, dto.NewJobListResponse(items), limit, offset)
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	p, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(p))
}

func (h *JobsHandler) ListMine(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListMine(c.Context(), caller)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListResponse(items))
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	in := usecase.CreateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		CompanyInfo:  req.CompanyInfo,
		CompanyURL:   req.CompanyURL,
	}
	if s := req.Salary.toDomain(); s != nil {
		in.Salary = *s
	}

	p, err := h.uc.Create(c.Context(), caller, in)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Created(c, dto.NewJobResponse(p))
}

func (h *JobsHandler) Update(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	p, err := h.uc.Update(c.Context(), caller, id, usecase.UpdateJobInput{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		Salary:       req.Salary.toDomain(),
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(p))
}

func (h *JobsHandler) Deactivate(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	p, err := h.uc.Deactivate(c.Context(), caller, id)
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobResponse(p))
}

func (h *JobsHandler) GenerateDescription(c fiber.Ctx) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	var req generateDescriptionRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest("Invalid request payload", err)
	}

	text, err := h.uc.GenerateDescription(c.Context(), caller, usecase.GenerateDescriptionInput{
		Title:        req.Title,
		Requirements: req.Requirements,
		CompanyInfo:  req.CompanyInfo,
		CompanyURL:   req.CompanyURL,
	})
	if err != nil {
		return mapUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"description": text})
}
