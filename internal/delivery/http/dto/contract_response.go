package dto

import (
	"time"

	"hireflow/internal/domain/contract"

	"github.com/google/uuid"
)

type ContractResponse struct {
	ID                uuid.UUID `json:"id"`
	ApplicationID     uuid.UUID `json:"application_id"`
	Content           string    `json:"content"`
	Status            string    `json:"status"`
	SignedByEmployer  bool      `json:"signed_by_employer"`
	SignedByCandidate bool      `json:"signed_by_candidate"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func NewContractResponse(c contract.Contract) ContractResponse {
	return ContractResponse{
		ID:                c.ID,
		ApplicationID:     c.ApplicationID,
		Content:           c.Content,
		Status:            string(c.Status),
		SignedByEmployer:  c.SignedByEmployer,
		SignedByCandidate: c.SignedByCandidate,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}
