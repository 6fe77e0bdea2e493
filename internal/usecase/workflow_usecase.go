package usecase

import (
	"context"
	"errors"
	"fmt"

	"hireflow/internal/domain/access"
	"hireflow/internal/domain/application"
	"hireflow/internal/domain/contract"
	"hireflow/internal/domain/event"
	"hireflow/internal/domain/user"
	"hireflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AcceptResult struct {
	Application application.Application
	Contract    contract.Contract
}

type WorkflowUsecase interface {
	Accept(ctx context.Context, caller user.User, applicationID uuid.UUID) (AcceptResult, error)
}

type Workflow struct {
	contracts *Contracts
}

func NewWorkflowUsecase(contracts *Contracts) *Workflow {
	return &Workflow{contracts: contracts}
}

// Accept moves a pending application to accepted and drafts its contract.
// The contract text is generated before any write; the status change and the
// contract insert commit together or not at all.
func (w *Workflow) Accept(ctx context.Context, caller user.User, applicationID uuid.UUID) (AcceptResult, error) {
	u := w.contracts

	a, ps, err := u.loader.application(ctx, u.apps, applicationID)
	if err != nil {
		return AcceptResult{}, err
	}
	if !access.IsEmployerOf(caller, ps) {
		return AcceptResult{}, ErrForbidden
	}
	if err := application.CanTransition(a.Status, application.StatusAccepted); err != nil {
		return AcceptResult{}, fmt.Errorf("%w: application is %s", ErrInvalidState, a.Status)
	}
	if err := ensureNoContract(ctx, u.contracts, a.ID); err != nil {
		return AcceptResult{}, err
	}

	release, err := u.acquire(ctx, a.ID)
	if err != nil {
		return AcceptResult{}, err
	}
	defer release()

	_, cand := u.loader.people(ctx, ps)
	content, err := draftContract(ctx, u.ai, ps, cand)
	if err != nil {
		return AcceptResult{}, err
	}

	c := contract.New(a.ID, content)
	accepted, err := u.contracts.CreateForAcceptance(ctx, c)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStaleStatus):
			return AcceptResult{}, fmt.Errorf("%w: application status changed concurrently", ErrInvalidState)
		case errors.Is(err, repository.ErrDuplicate):
			return AcceptResult{}, ErrContractExists
		default:
			return AcceptResult{}, internalErr(err)
		}
	}

	created, err := u.contracts.GetByID(ctx, c.ID)
	if err != nil {
		return AcceptResult{}, internalErr(err)
	}

	u.logger.Info("application accepted",
		zap.String("application_id", accepted.ID.String()),
		zap.String("contract_id", created.ID.String()),
	)

	u.notices.email(ctx, cand.Email, "Application accepted: "+ps.Job.Title, tmplApplicationAccepted, mailData{
		RecipientName: cand.FullName,
		JobTitle:      ps.Job.Title,
	})
	u.notices.publish(ctx, event.New(event.ApplicationStatusChanged, accepted.ID, string(accepted.Status), ps.Candidate.UserID, ps.Job.EmployerID))
	u.notices.publish(ctx, event.New(event.ContractGenerated, accepted.ID, string(created.Status), ps.Candidate.UserID, ps.Job.EmployerID).WithContract(created.ID))

	return AcceptResult{Application: accepted, Contract: created}, nil
}
