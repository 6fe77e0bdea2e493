package usecase

import (
	"context"
	"errors"
	"fmt"

	"hireflow/internal/domain/access"
	"hireflow/internal/domain/application"
	"hireflow/internal/domain/candidate"
	"hireflow/internal/domain/event"
	"hireflow/internal/domain/job"
	"hireflow/internal/domain/match"
	"hireflow/internal/domain/user"
	"hireflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApplicationUsecase interface {
	Submit(ctx context.Context, caller user.User, jobID uuid.UUID) (application.Application, error)
	PreviewMatch(ctx context.Context, caller user.User, jobID uuid.UUID) (match.Result, error)
	ListForCandidate(ctx context.Context, caller user.User) ([]application.Application, error)
	ListForJob(ctx context.Context, caller user.User, jobID uuid.UUID) ([]application.Application, error)
	ListForEmployer(ctx context.Context, caller user.User) ([]application.Application, error)
	Get(ctx context.Context, caller user.User, id uuid.UUID) (application.Application, error)
	SetStatus(ctx context.Context, caller user.User, id uuid.UUID, status string) (application.Application, error)
}

type Applications struct {
	apps    repository.ApplicationRepository
	loader  partyLoader
	ai      TextGenerationService
	notices notices
	logger  *zap.Logger
}

func NewApplicationUsecase(
	apps repository.ApplicationRepository,
	jobs repository.JobRepository,
	candidates repository.CandidateRepository,
	users user.Repository,
	ai TextGenerationService,
	notifier Notifier,
	publisher EventPublisher,
	logger *zap.Logger,
) *Applications {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Applications{
		apps:    apps,
		loader:  partyLoader{jobs: jobs, candidates: candidates, users: users},
		ai:      ai,
		notices: newNotices(notifier, publisher, logger),
		logger:  logger,
	}
}

func (u *Applications) Submit(ctx context.Context, caller user.User, jobID uuid.UUID) (application.Application, error) {
	if !access.IsActiveUser(caller) {
		return application.Application{}, ErrForbidden
	}

	cand, err := u.loader.candidates.GetByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return application.Application{}, fmt.Errorf("%w: candidate profile", ErrNotFound)
		}
		return application.Application{}, internalErr(err)
	}

	j, err := u.loader.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return application.Application{}, fmt.Errorf("%w: job", ErrNotFound)
		}
		return application.Application{}, internalErr(err)
	}
	if !j.IsActive {
		return application.Application{}, fmt.Errorf("%w: job is no longer accepting applications", ErrInvalidState)
	}

	exists, err := u.apps.Exists(ctx, j.ID, cand.ID)
	if err != nil {
		return application.Application{}, internalErr(err)
	}
	if exists {
		return application.Application{}, ErrDuplicateApplication
	}

	result, err := u.score(ctx, j, cand, caller)
	if err != nil {
		return application.Application{}, err
	}

	score := result.Score
	a := application.Application{
		ID:             uuid.New(),
		JobID:          j.ID,
		CandidateID:    cand.ID,
		Status:         application.StatusPending,
		MatchScore:     &score,
		MatchRationale: result.Rationale,
	}
	if err := u.apps.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return application.Application{}, ErrDuplicateApplication
		}
		return application.Application{}, internalErr(err)
	}

	created, err := u.apps.GetByID(ctx, a.ID)
	if err != nil {
		return application.Application{}, internalErr(err)
	}

	u.logger.Info("application submitted",
		zap.String("application_id", created.ID.String()),
		zap.String("job_id", j.ID.String()),
		zap.Int("score", score),
	)

	ps := access.Parties{Job: j, Candidate: cand}
	employer, _ := u.loader.people(ctx, ps)
	u.notices.email(ctx, caller.Email, "Application submitted: "+j.Title, tmplApplicationSubmitted, mailData{
		RecipientName: caller.FullName,
		JobTitle:      j.Title,
		Score:         &score,
		Rationale:     result.Rationale,
	})
	u.notices.email(ctx, employer.Email, "New application: "+j.Title, tmplApplicationReceived, mailData{
		RecipientName: employer.FullName,
		CandidateName: caller.FullName,
		JobTitle:      j.Title,
		Score:         &score,
		Rationale:     result.Rationale,
	})
	u.notices.publish(ctx, event.New(event.ApplicationSubmitted, created.ID, string(created.Status), cand.UserID, j.EmployerID))

	return created, nil
}

// ListForCandidate returns the caller's applications, newest first. No profile means no applications.
// PreviewMatch scores the caller's profile against an open job without applying.
func (u *Applications) PreviewMatch(ctx context.Context, caller user.User, jobID uuid.UUID) (match.Result, error) {
	if !access.IsActiveUser(caller) {
		return match.Result{}, ErrForbidden
	}

	cand, err := u.loader.candidates.GetByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return match.Result{}, fmt.Errorf("%w: candidate profile", ErrNotFound)
		}
		return match.Result{}, internalErr(err)
	}

	j, err := u.loader.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return match.Result{}, fmt.Errorf("%w: job", ErrNotFound)
		}
		return match.Result{}, internalErr(err)
	}
	if !j.IsActive {
		return match.Result{}, fmt.Errorf("%w: job is no longer accepting applications", ErrInvalidState)
	}

	return u.score(ctx, j, cand, caller)
}

func (u *Applications) score(ctx context.Context, j job.Posting, cand candidate.Candidate, caller user.User) (match.Result, error) {
	result, err := u.ai.ScoreMatch(ctx, jobSummary(j), candidateSummary(cand, caller))
	if err != nil {
		return match.Result{}, fmt.Errorf("%w: %w", ErrMatchScoringFailed, err)
	}
	if !result.Valid() {
		return match.Result{}, fmt.Errorf("%w: score %d out of range", ErrMatchScoringFailed, result.Score)
	}
	return result, nil
}

func (u *Applications) ListForCandidate(ctx context.Context, caller user.User) ([]application.Application, error) {
	cand, err := u.loader.candidates.GetByUserID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return []application.Application{}, nil
		}
		return nil, internalErr(err)
	}
	items, err := u.apps.ListByCandidate(ctx, cand.ID)
	if err != nil {
		return nil, internalErr(err)
	}
	return items, nil
}

func (u *Applications) ListForJob(ctx context.Context, caller user.User, jobID uuid.UUID) ([]application.Application, error) {
	j, err := u.loader.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return nil, fmt.Errorf("%w: job", ErrNotFound)
		}
		return nil, internalErr(err)
	}
	if !access.IsEmployerOfJob(caller, j) && !caller.IsAdmin {
		return nil, ErrForbidden
	}
	items, err := u.apps.ListByJob(ctx, j.ID)
	if err != nil {
		return nil, internalErr(err)
	}
	return items, nil
}

func (u *Applications) ListForEmployer(ctx context.Context, caller user.User) ([]application.Application, error) {
	if !access.IsActiveUser(caller) || !caller.IsEmployer {
		return nil, ErrForbidden
	}
	items, err := u.apps.ListByEmployer(ctx, caller.ID)
	if err != nil {
		return nil, internalErr(err)
	}
	return items, nil
}

func (u *Applications) Get(ctx context.Context, caller user.User, id uuid.UUID) (application.Application, error) {
	a, ps, err := u.loader.application(ctx, u.apps, id)
	if err != nil {
		return application.Application{}, err
	}
	if !access.CanView(caller, ps) {
		return application.Application{}, ErrForbidden
	}
	return a, nil
}

func (u *Applications) SetStatus(ctx context.Context, caller user.User, id uuid.UUID, status string) (application.Application, error) {
	to, err := application.ParseStatus(status)
	if err != nil {
		return application.Application{}, ErrInvalidStatus
	}

	a, ps, err := u.loader.application(ctx, u.apps, id)
	if err != nil {
		return application.Application{}, err
	}
	if !access.IsEmployerOf(caller, ps) {
		return application.Application{}, ErrForbidden
	}
	if err := application.CanTransition(a.Status, to); err != nil {
		return application.Application{}, fmt.Errorf("%w: %s -> %s", ErrInvalidState, a.Status, to)
	}

	updated, err := u.apps.UpdateStatus(ctx, a.ID, a.Status, to)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return application.Application{}, fmt.Errorf("%w: application status changed concurrently", ErrInvalidState)
		}
		return application.Application{}, internalErr(err)
	}

	u.logger.Info("application status changed",
		zap.String("application_id", updated.ID.String()),
		zap.String("from", string(a.Status)),
		zap.String("to", string(updated.Status)),
	)
	u.notices.publish(ctx, event.New(event.ApplicationStatusChanged, updated.ID, string(updated.Status), ps.Candidate.UserID, ps.Job.EmployerID))

	return updated, nil
}
