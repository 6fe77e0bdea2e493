package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hireflow/internal/domain/access"
	"hireflow/internal/domain/application"
	"hireflow/internal/domain/contract"
	"hireflow/internal/domain/event"
	"hireflow/internal/domain/user"
	"hireflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const generationLockTTL = 2 * time.Minute

type ContractUsecase interface {
	Generate(ctx context.Context, caller user.User, applicationID uuid.UUID) (contract.Contract, error)
	Get(ctx context.Context, caller user.User, id uuid.UUID) (contract.Contract, error)
	GetForApplication(ctx context.Context, caller user.User, applicationID uuid.UUID) (contract.Contract, error)
	SetStatus(ctx context.Context, caller user.User, id uuid.UUID, status string) (contract.Contract, error)
	ApproveByEmployer(ctx context.Context, caller user.User, id uuid.UUID) (contract.Contract, error)
	SignByCandidate(ctx context.Context, caller user.User, id uuid.UUID) (contract.Contract, error)
	RenderPDF(ctx context.Context, caller user.User, id uuid.UUID) ([]byte, error)
}

type Contracts struct {
	contracts repository.ContractRepository
	apps      repository.ApplicationRepository
	loader    partyLoader
	ai        TextGenerationService
	lock      GenerationLock
	renderer  DocumentRenderer
	notices   notices
	logger    *zap.Logger
}

type ContractDeps struct {
	Contracts    repository.ContractRepository
	Applications repository.ApplicationRepository
	Jobs         repository.JobRepository
	Candidates   repository.CandidateRepository
	Users        user.Repository
	AI           TextGenerationService
	Lock         GenerationLock
	Renderer     DocumentRenderer
	Notifier     Notifier
	Publisher    EventPublisher
	Logger       *zap.Logger
}

func NewContractUsecase(d ContractDeps) *Contracts {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Contracts{
		contracts: d.Contracts,
		apps:      d.Applications,
		loader:    partyLoader{jobs: d.Jobs, candidates: d.Candidates, users: d.Users},
		ai:        d.AI,
		lock:      d.Lock,
		renderer:  d.Renderer,
		notices:   newNotices(d.Notifier, d.Publisher, logger),
		logger:    logger,
	}
}

func (u *Contracts) Generate(ctx context.Context, caller user.User, applicationID uuid.UUID) (contract.Contract, error) {
	a, ps, err := u.loader.application(ctx, u.apps, applicationID)
	if err != nil {
		return contract.Contract{}, err
	}
	if !access.IsEmployerOf(caller, ps) {
		return contract.Contract{}, ErrForbidden
	}
	if a.Status != application.StatusAccepted {
		return contract.Contract{}, fmt.Errorf("%w: application is %s, not accepted", ErrInvalidState, a.Status)
	}
	if err := ensureNoContract(ctx, u.contracts, a.ID); err != nil {
		return contract.Contract{}, err
	}

	release, err := u.acquire(ctx, a.ID)
	if err != nil {
		return contract.Contract{}, err
	}
	defer release()

	_, cand := u.loader.people(ctx, ps)
	content, err := draftContract(ctx, u.ai, ps, cand)
	if err != nil {
		return contract.Contract{}, err
	}

	c := contract.New(a.ID, content)
	if err := u.contracts.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return contract.Contract{}, ErrContractExists
		}
		return contract.Contract{}, internalErr(err)
	}

	created, err := u.contracts.GetByID(ctx, c.ID)
	if err != nil {
		return contract.Contract{}, internalErr(err)
	}

	u.logger.Info("contract generated",
		zap.String("contract_id", created.ID.String()),
		zap.String("application_id", a.ID.String()),
	)
	u.notices.email(ctx, cand.Email, "Contract ready: "+ps.Job.Title, tmplContractReady, mailData{
		RecipientName: cand.FullName,
		JobTitle:      ps.Job.Title,
	})
	u.notices.publish(ctx, event.New(event.ContractGenerated, a.ID, string(created.Status), ps.Candidate.UserID, ps.Job.EmployerID).WithContract(created.ID))

	return created, nil
}

// acquire takes the best-effort generation lock. A lock backend error is
// treated as a free lock; the unique constraint still rejects duplicates.
func (u *Contracts) acquire(ctx context.Context, applicationID uuid.UUID) (func(), error) {
	noop := func() {}
	if u.lock == nil {
		return noop, nil
	}
	key := ContractGenerationLockKey(applicationID.String())
	ok, err := u.lock.TryLock(ctx, key, generationLockTTL)
	if err != nil {
		u.logger.Warn("generation lock unavailable", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, fmt.Errorf("%w: contract generation already in progress", ErrConflict)
	}
	return func() {
		if err := u.lock.Unlock(context.WithoutCancel(ctx), key); err != nil {
			u.logger.Warn("release generation lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (u *Contracts) Get(ctx context.Context, caller user.User, id uuid.UUID) (contract.Contract, error) {
	c, _, err := u.loadAuthorized(ctx, caller, id, access.CanView)
	return c, err
}

func (u *Contracts) GetForApplication(ctx context.Context, caller user.User, applicationID uuid.UUID) (contract.Contract, error) {
	_, ps, err := u.loader.application(ctx, u.apps, applicationID)
	if err != nil {
		return contract.Contract{}, err
	}
	if !access.CanView(caller, ps) {
		return contract.Contract{}, ErrForbidden
	}
	c, err := u.contracts.GetByApplicationID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return contract.Contract{}, fmt.Errorf("%w: contract", ErrNotFound)
		}
		return contract.Contract{}, internalErr(err)
	}
	return c, nil
}

func (u *Contracts) SetStatus(ctx context.Context, caller user.User, id uuid.UUID, status string) (contract.Contract, error) {
	to, err := contract.ParseStatus(status)
	if err != nil {
		return contract.Contract{}, ErrInvalidStatus
	}

	c, ps, err := u.loadAuthorized(ctx, caller, id, isParty)
	if err != nil {
		return contract.Contract{}, err
	}
	if to == contract.StatusSent && !access.IsEmployerOf(caller, ps) {
		return contract.Contract{}, ErrForbidden
	}
	if err := contract.CanTransition(c.Status, to); err != nil {
		if errors.Is(err, contract.ErrDerivedStatus) {
			return contract.Contract{}, fmt.Errorf("%w: %v", ErrInvalidState, err)
		}
		return contract.Contract{}, fmt.Errorf("%w: %s -> %s", ErrInvalidState, c.Status, to)
	}

	updated, err := u.contracts.UpdateStatus(ctx, c.ID, c.Status, to)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return contract.Contract{}, fmt.Errorf("%w: contract status changed concurrently", ErrInvalidState)
		}
		return contract.Contract{}, internalErr(err)
	}

	u.notices.publish(ctx, event.New(event.ContractStatusChanged, updated.ApplicationID, string(updated.Status), ps.Candidate.UserID, ps.Job.EmployerID).WithContract(updated.ID))
	return updated, nil
}

func (u *Contracts) ApproveByEmployer(ctx context.Context, caller user.User, id uuid.UUID) (contract.Contract, error) {
	return u.sign(ctx, caller, id, contract.PartyEmployer, access.IsEmployerOf)
}

func (u *Contracts) SignByCandidate(ctx context.Context, caller user.User, id uuid.UUID) (contract.Contract, error) {
	return u.sign(ctx, caller, id, contract.PartyCandidate, access.IsCandidateOwnerOf)
}

// sign sets one party's flag. Repeating it returns the stored contract unchanged.
func (u *Contracts) sign(ctx context.Context, caller user.User, id uuid.UUID, party contract.Party, allowed func(user.User, access.Parties) bool) (contract.Contract, error) {
	c, ps, err := u.loadAuthorized(ctx, caller, id, allowed)
	if err != nil {
		return contract.Contract{}, err
	}
	if c.SignedBy(party) {
		return c, nil
	}

	updated, err := u.contracts.SetSignature(ctx, c.ID, party)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return contract.Contract{}, fmt.Errorf("%w: contract", ErrNotFound)
		}
		return contract.Contract{}, internalErr(err)
	}

	u.logger.Info("contract signature recorded",
		zap.String("contract_id", updated.ID.String()),
		zap.String("party", string(party)),
		zap.String("status", string(updated.Status)),
	)

	if updated.FullySigned() && !c.FullySigned() {
		employer, cand := u.loader.people(ctx, ps)
		for _, r := range []user.User{employer, cand} {
			u.notices.email(ctx, r.Email, "Contract signed: "+ps.Job.Title, tmplContractSigned, mailData{
				RecipientName: r.FullName,
				JobTitle:      ps.Job.Title,
			})
		}
		u.notices.publish(ctx, event.New(event.ContractSigned, updated.ApplicationID, string(updated.Status), ps.Candidate.UserID, ps.Job.EmployerID).WithContract(updated.ID))
	} else {
		u.notices.publish(ctx, event.New(event.ContractStatusChanged, updated.ApplicationID, string(updated.Status), ps.Candidate.UserID, ps.Job.EmployerID).WithContract(updated.ID))
	}

	return updated, nil
}

func (u *Contracts) RenderPDF(ctx context.Context, caller user.User, id uuid.UUID) ([]byte, error) {
	c, ps, err := u.loadAuthorized(ctx, caller, id, access.CanView)
	if err != nil {
		return nil, err
	}
	if u.renderer == nil {
		return nil, fmt.Errorf("%w: pdf rendering is disabled", ErrUnavailable)
	}
	out, err := u.renderer.RenderPDF(ctx, "Employment Contract: "+ps.Job.Title, c.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}

func (u *Contracts) loadAuthorized(ctx context.Context, caller user.User, id uuid.UUID, allowed func(user.User, access.Parties) bool) (contract.Contract, access.Parties, error) {
	c, err := u.contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return contract.Contract{}, access.Parties{}, fmt.Errorf("%w: contract", ErrNotFound)
		}
		return contract.Contract{}, access.Parties{}, internalErr(err)
	}
	_, ps, err := u.loader.application(ctx, u.apps, c.ApplicationID)
	if err != nil {
		return contract.Contract{}, access.Parties{}, err
	}
	if !allowed(caller, ps) {
		return contract.Contract{}, access.Parties{}, ErrForbidden
	}
	return c, ps, nil
}

func isParty(u user.User, ps access.Parties) bool {
	return access.IsEmployerOf(u, ps) || access.IsCandidateOwnerOf(u, ps)
}

func ensureNoContract(ctx context.Context, contracts repository.ContractRepository, applicationID uuid.UUID) error {
	exists, err := contracts.ExistsForApplication(ctx, applicationID)
	if err != nil {
		return internalErr(err)
	}
	if exists {
		return ErrContractExists
	}
	return nil
}

func draftContract(ctx context.Context, ai TextGenerationService, ps access.Parties, cand user.User) (string, error) {
	content, err := ai.GenerateContractText(ctx, jobSummary(ps.Job), candidateSummary(ps.Candidate, cand))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContractGenerationFailed, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: empty contract text", ErrContractGenerationFailed)
	}
	return content, nil
}
