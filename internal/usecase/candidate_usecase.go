package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hireflow/internal/domain/access"
	"hireflow/internal/domain/candidate"
	"hireflow/internal/domain/user"
	"hireflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UpsertCandidateInput struct {
	Bio        string
	Skills     []string
	Experience []candidate.Experience
	Education  []candidate.Education
}

type CandidateUsecase interface {
	UpsertMine(ctx context.Context, caller user.User, in UpsertCandidateInput) (candidate.Candidate, error)
	GetMine(ctx context.Context, caller user.User) (candidate.Candidate, error)
	GenerateBio(ctx context.Context, caller user.User) (string, error)
}

type Candidates struct {
	candidates repository.CandidateRepository
	ai         TextGenerationService
	logger     *zap.Logger
}

func NewCandidateUsecase(candidates repository.CandidateRepository, ai TextGenerationService, logger *zap.Logger) *Candidates {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Candidates{candidates: candidates, ai: ai, logger: logger}
}

func (u *Candidates) UpsertMine(ctx context.Context, caller user.User, in UpsertCandidateInput) (candidate.Candidate, error) {
	if !access.IsActiveUser(caller) || caller.IsEmployer {
		return candidate.Candidate{}, ErrForbidden
	}
	for _, e := range in.Experience {
		if strings.TrimSpace(e.Company) == "" || strings.TrimSpace(e.Position) == "" {
			return candidate.Candidate{}, fmt.Errorf("%w: experience needs company and position", ErrInvalidInput)
		}
	}
	for _, e := range in.Education {
		if strings.TrimSpace(e.Institution) == "" {
			return candidate.Candidate{}, fmt.Errorf("%w: education needs an institution", ErrInvalidInput)
		}
		if e.Year < 0 {
			return candidate.Candidate{}, fmt.Errorf("%w: education year is invalid", ErrInvalidInput)
		}
	}

	c := candidate.Candidate{
		ID:         uuid.New(),
		UserID:     caller.ID,
		Bio:        strings.TrimSpace(in.Bio),
		Skills:     candidate.NormalizeSkills(in.Skills),
		Experience: in.Experience,
		Education:  in.Education,
	}
	saved, err := u.candidates.Upsert(ctx, c)
	if err != nil {
		return candidate.Candidate{}, internalErr(err)
	}
	return saved, nil
}

func (u *Candidates) GetMine(ctx context.Context, caller user.User) (candidate.Candidate, error) {
	c, err := u.candidates.GetByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return candidate.Candidate{}, fmt.Errorf("%w: candidate profile", ErrNotFound)
		}
		return candidate.Candidate{}, internalErr(err)
	}
	return c, nil
}

// GenerateBio drafts a bio from the stored profile. It does not save it.
func (u *Candidates) GenerateBio(ctx context.Context, caller user.User) (string, error) {
	c, err := u.GetMine(ctx, caller)
	if err != nil {
		return "", err
	}
	if len(c.Skills) == 0 || len(c.Experience) == 0 || len(c.Education) == 0 {
		return "", fmt.Errorf("%w: add skills, experience and education first", ErrInvalidInput)
	}

	bio, err := u.ai.GenerateCandidateBio(ctx, candidateSummary(c, caller))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return "", fmt.Errorf("%w: empty bio", ErrGenerationUnavailable)
	}
	return bio, nil
}
