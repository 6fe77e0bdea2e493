package dto

import (
	"time"

	"hireflow/internal/domain/candidate"

	"github.com/google/uuid"
)

type CandidateResponse struct {
	ID         uuid.UUID              `json:"id"`
	UserID     uuid.UUID              `json:"user_id"`
	Bio        string                 `json:"bio"`
	Skills     []string               `json:"skills"`
	Experience []candidate.Experience `json:"experience"`
	Education  []candidate.Education  `json:"education"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

func NewCandidateResponse(c candidate.Candidate) CandidateResponse {
	out := CandidateResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		Bio:        c.Bio,
		Skills:     c.Skills,
		Experience: c.Experience,
		Education:  c.Education,
		UpdatedAt:  c.UpdatedAt,
	}
	if out.Skills == nil {
		out.Skills = []string{}
	}
	if out.Experience == nil {
		out.Experience = []candidate.Experience{}
	}
	if out.Education == nil {
		out.Education = []candidate.Education{}
	}
	return out
}
