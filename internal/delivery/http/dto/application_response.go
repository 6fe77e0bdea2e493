package dto

import (
	"time"

	"hireflow/internal/domain/application"
	"hireflow/internal/domain/match"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	ID               uuid.UUID `json:"id"`
	JobID            uuid.UUID `json:"job_id"`
	CandidateID      uuid.UUID `json:"candidate_id"`
	Status           string    `json:"status"`
	AIMatchScore     *int      `json:"ai_match_score"`
	AIMatchRationale string    `json:"ai_match_rationale,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:               a.ID,
		JobID:            a.JobID,
		CandidateID:      a.CandidateID,
		Status:           string(a.Status),
		AIMatchScore:     a.MatchScore,
		AIMatchRationale: a.MatchRationale,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

func NewApplicationListResponse(items []application.Application) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, a := range items {
		out = append(out, NewApplicationResponse(a))
	}
	return out
}

type AcceptResponse struct {
	Application ApplicationResponse `json:"application"`
	Contract    ContractResponse    `json:"contract"`
}

type MatchPreviewResponse struct {
	JobID            uuid.UUID `json:"job_id"`
	AIMatchScore     int       `json:"ai_match_score"`
	AIMatchRationale string    `json:"ai_match_rationale,omitempty"`
}

func NewMatchPreviewResponse(jobID uuid.UUID, r match.Result) MatchPreviewResponse {
	return MatchPreviewResponse{JobID: jobID, AIMatchScore: r.Score, AIMatchRationale: r.Rationale}
}
