package dto

import (
	"time"

	"hireflow/internal/domain/job"

	"github.com/google/uuid"
)

type SalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

type JobResponse struct {
	ID           uuid.UUID   `json:"id"`
	EmployerID   uuid.UUID   `json:"employer_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Requirements []string    `json:"requirements"`
	Location     string      `json:"location"`
	Salary       SalaryRange `json:"salary"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func NewJobResponse(p job.Posting) JobResponse {
	reqs := p.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return JobResponse{
		ID:           p.ID,
		EmployerID:   p.EmployerID,
		Title:        p.Title,
		Description:  p.Description,
		Requirements: reqs,
		Location:     p.Location,
		Salary:       SalaryRange{Min: p.Salary.Min, Max: p.Salary.Max, Currency: p.Salary.Currency},
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func NewJobListResponse(items []job.Posting) []JobResponse {
	out := make([]JobResponse, 0, len(items))
	for _, p := range items {
		out = append(out, NewJobResponse(p))
	}
	return out
}
