package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hireflow/internal/domain/application"
	"hireflow/internal/domain/contract"
	"hireflow/internal/domain/event"
)

func acceptedApplication(t *testing.T, f *fixture) application.Application {
	t.Helper()
	return acceptPending(t, f, f.submit())
}

func acceptPending(t *testing.T, f *fixture, a application.Application) application.Application {
	t.Helper()
	updated, err := f.apps.SetStatus(context.Background(), f.employer, a.ID, "accepted")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	return updated
}

// Employer posts, candidate applies, employer accepts and drafts a contract,
// and both parties sign in turn.
func TestContractLifecycle_EndToEnd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.submit()
	if a.Status != application.StatusPending || a.MatchScore == nil || *a.MatchScore < 0 || *a.MatchScore > 100 {
		t.Fatalf("unexpected application: %+v", a)
	}

	a, err := f.apps.SetStatus(ctx, f.employer, a.ID, "accepted")
	if err != nil || a.Status != application.StatusAccepted {
		t.Fatalf("set accepted: %v, %s", err, a.Status)
	}

	c, err := f.contract.Generate(ctx, f.employer, a.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if c.Status != contract.StatusDraft {
		t.Fatalf("expected draft, got %s", c.Status)
	}

	if _, err := f.contract.Generate(ctx, f.employer, a.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict on second generate, got %v", err)
	}

	c, err = f.contract.SignByCandidate(ctx, f.candUser, c.ID)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if !c.SignedByCandidate || c.Status != contract.StatusDraft {
		t.Fatalf("expected candidate flag and draft status, got %+v", c)
	}

	c, err = f.contract.ApproveByEmployer(ctx, f.employer, c.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !c.SignedByEmployer || !c.SignedByCandidate || c.Status != contract.StatusSigned {
		t.Fatalf("expected signed contract, got %+v", c)
	}

	var signedEvents int
	for _, tp := range f.publisher.types() {
		if tp == event.ContractSigned {
			signedEvents++
		}
	}
	if signedEvents != 1 {
		t.Fatalf("expected one contract.signed event, got %d", signedEvents)
	}
}

func TestContracts_SignaturesIdempotentEitherOrder(t *testing.T) {
	orders := map[string][]string{
		"employer first":  {"employer", "candidate"},
		"candidate first": {"candidate", "employer"},
	}
	for name, order := range orders {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			a := acceptedApplication(t, f)
			c, err := f.contract.Generate(ctx, f.employer, a.ID)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}

			var last contract.Contract
			for _, who := range order {
				for i := 0; i < 2; i++ {
					if who == "employer" {
						last, err = f.contract.ApproveByEmployer(ctx, f.employer, c.ID)
					} else {
						last, err = f.contract.SignByCandidate(ctx, f.candUser, c.ID)
					}
					if err != nil {
						t.Fatalf("%s sign: %v", who, err)
					}
				}
			}
			if last.Status != contract.StatusSigned || !last.FullySigned() {
				t.Fatalf("expected signed, got %+v", last)
			}

			again, err := f.contract.ApproveByEmployer(ctx, f.employer, c.ID)
			if err != nil || again != last {
				t.Fatalf("expected identical state on repeat, got %+v (%v)", again, err)
			}
		})
	}
}

func TestContracts_ConcurrentSignaturesDeriveSigned(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := acceptedApplication(t, f)
	c, err := f.contract.Generate(ctx, f.employer, a.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if _, err := f.contract.ApproveByEmployer(ctx, f.employer, c.ID); err != nil {
			t.Errorf("approve: %v", err)
		}
	}()
	go func() {
		defer wg.Done()
		if _, err := f.contract.SignByCandidate(ctx, f.candUser, c.ID); err != nil {
			t.Errorf("sign: %v", err)
		}
	}()
	wg.Wait()

	got, err := f.contract.Get(ctx, f.employer, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != contract.StatusSigned {
		t.Fatalf("expected signed, got %+v", got)
	}
}

func TestContracts_SignatureAuthorization(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := acceptedApplication(t, f)
	c, err := f.contract.Generate(ctx, f.employer, a.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := f.contract.ApproveByEmployer(ctx, f.candUser, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("candidate approving: expected ErrForbidden, got %v", err)
	}
	if _, err := f.contract.SignByCandidate(ctx, f.employer, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("employer signing: expected ErrForbidden, got %v", err)
	}
	if _, err := f.contract.ApproveByEmployer(ctx, f.outsider, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider approving: expected ErrForbidden, got %v", err)
	}
	if _, err := f.contract.SignByCandidate(ctx, f.admin, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("admin signing: expected ErrForbidden, got %v", err)
	}
	if _, err := f.contract.Get(ctx, f.admin, c.ID); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if _, err := f.contract.Get(ctx, f.outsider, c.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider read: expected ErrForbidden, got %v", err)
	}
}

func TestContracts_SetStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := acceptedApplication(t, f)
	c, err := f.contract.Generate(ctx, f.employer, a.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := f.contract.SetStatus(ctx, f.employer, c.ID, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := f.contract.SetStatus(ctx, f.candUser, c.ID, "sent"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("candidate sending: expected ErrForbidden, got %v", err)
	}
	if _, err := f.contract.SetStatus(ctx, f.outsider, c.ID, "sent"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider sending: expected ErrForbidden, got %v", err)
	}
	if _, err := f.contract.SetStatus(ctx, f.candUser, c.ID, "signed"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("direct signed: expected ErrInvalidState, got %v", err)
	}

	sent, err := f.contract.SetStatus(ctx, f.employer, c.ID, "sent")
	if err != nil || sent.Status != contract.StatusSent {
		t.Fatalf("expected sent, got %v, %+v", err, sent)
	}
	if _, err := f.contract.SetStatus(ctx, f.employer, c.ID, "draft"); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("backward: expected ErrInvalidState, got %v", err)
	}

	if _, err := f.contract.SignByCandidate(ctx, f.candUser, c.ID); err != nil {
		t.Fatalf("sign: %v", err)
	}
	done, err := f.contract.ApproveByEmployer(ctx, f.employer, c.ID)
	if err != nil || done.Status != contract.StatusSigned {
		t.Fatalf("expected signed after both signatures, got %v, %+v", err, done)
	}
}

func TestContracts_Generate_Preconditions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.submit()

	if _, err := f.contract.Generate(ctx, f.employer, a.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("pending application: expected ErrInvalidState, got %v", err)
	}

	a = acceptPending(t, f, a)
	if _, err := f.contract.Generate(ctx, f.outsider, a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider: expected ErrForbidden, got %v", err)
	}
	if _, err := f.contract.Generate(ctx, f.candUser, a.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("candidate: expected ErrForbidden, got %v", err)
	}
}

func TestContracts_Generate_RetryAfterFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := acceptedApplication(t, f)

	f.ai.contractErr = errAIDown
	if _, err := f.contract.Generate(ctx, f.employer, a.ID); !errors.Is(err, ErrContractGenerationFailed) {
		t.Fatalf("expected ErrContractGenerationFailed, got %v", err)
	}
	if len(f.s.contracts) != 0 {
		t.Fatalf("expected no contract after failure")
	}
	if len(f.lock.held) != 0 {
		t.Fatalf("expected lock released after failure")
	}

	f.ai.contractErr = nil
	if _, err := f.contract.Generate(ctx, f.employer, a.ID); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if _, err := f.contract.Generate(ctx, f.employer, a.ID); !errors.Is(err, ErrContractExists) {
		t.Fatalf("expected ErrContractExists, got %v", err)
	}
}

func TestContracts_Generate_LockHeld(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := acceptedApplication(t, f)

	if ok, _ := f.lock.TryLock(ctx, ContractGenerationLockKey(a.ID.String()), generationLockTTL); !ok {
		t.Fatalf("expected to take lock")
	}
	calls := f.ai.calls
	if _, err := f.contract.Generate(ctx, f.employer, a.ID); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict while locked, got %v", err)
	}
	if f.ai.calls != calls {
		t.Fatalf("expected no generation call while locked")
	}
}

func TestContracts_Generate_LockBackendDown(t *testing.T) {
	f := newFixture()
	f.lock.err = errors.New("redis down")
	a := acceptedApplication(t, f)

	if _, err := f.contract.Generate(context.Background(), f.employer, a.ID); err != nil {
		t.Fatalf("expected generation to proceed without the lock, got %v", err)
	}
}

func TestContracts_RenderPDF_Disabled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := acceptedApplication(t, f)
	c, err := f.contract.Generate(ctx, f.employer, a.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := f.contract.RenderPDF(ctx, f.candUser, c.ID); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
