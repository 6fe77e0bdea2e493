package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"hireflow/internal/domain/application"
	"hireflow/internal/domain/candidate"
	"hireflow/internal/domain/contract"
	"hireflow/internal/domain/event"
	"hireflow/internal/domain/job"
	"hireflow/internal/domain/match"
	"hireflow/internal/domain/user"
	"hireflow/internal/repository"

	"github.com/google/uuid"
)

// store is an in-memory stand-in for Postgres. One mutex plays the role of row locks
// and the unique constraints.
type store struct {
	mu         sync.Mutex
	users      map[uuid.UUID]user.User
	jobs       map[uuid.UUID]job.Posting
	candidates map[uuid.UUID]candidate.Candidate
	apps       map[uuid.UUID]application.Application
	contracts  map[uuid.UUID]contract.Contract
}

func newStore() *store {
	return &store{
		users:      map[uuid.UUID]user.User{},
		jobs:       map[uuid.UUID]job.Posting{},
		candidates: map[uuid.UUID]candidate.Candidate{},
		apps:       map[uuid.UUID]application.Application{},
		contracts:  map[uuid.UUID]contract.Contract{},
	}
}

type memUsers struct{ s *store }

func (m memUsers) CreateUser(_ context.Context, u user.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.CreatedAt = time.Now()
	m.s.users[u.ID] = u
	return nil
}

func (m memUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func (m memUsers) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (m memUsers) UpdateUser(_ context.Context, u user.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.users[u.ID]; !ok {
		return user.ErrNotFound
	}
	m.s.users[u.ID] = u
	return nil
}

func (m memUsers) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return user.ErrNotFound
	}
	u.IsActive = active
	m.s.users[id] = u
	return nil
}

func (m memUsers) ListUsers(_ context.Context, _, _ int) ([]user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]user.User, 0, len(m.s.users))
	for _, u := range m.s.users {
		out = append(out, u)
	}
	return out, nil
}

type memJobs struct{ s *store }

func (m memJobs) Create(_ context.Context, p job.Posting) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p.CreatedAt = time.Now()
	m.s.jobs[p.ID] = p
	return nil
}

func (m memJobs) GetByID(_ context.Context, id uuid.UUID) (job.Posting, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.jobs[id]
	if !ok {
		return job.Posting{}, job.ErrNotFound
	}
	return p, nil
}

func (m memJobs) Update(_ context.Context, p job.Posting) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.jobs[p.ID]; !ok {
		return job.ErrNotFound
	}
	m.s.jobs[p.ID] = p
	return nil
}

func (m memJobs) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	p, ok := m.s.jobs[id]
	if !ok {
		return job.ErrNotFound
	}
	p.IsActive = active
	m.s.jobs[id] = p
	return nil
}

func (m memJobs) ListActive(_ context.Context, _, _ int) ([]job.Posting, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]job.Posting, 0)
	for _, p := range m.s.jobs {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m memJobs) SearchActive(ctx context.Context, terms []string, _ int) ([]job.Posting, error) {
	active, _ := m.ListActive(ctx, 0, 0)
	out := make([]job.Posting, 0)
	for _, p := range active {
		text := strings.ToLower(p.Title + " " + p.Description + " " + strings.Join(p.Requirements, " ") + " " + p.Location)
		for _, t := range terms {
			if strings.Contains(text, t) {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (m memJobs) ListByEmployer(_ context.Context, employerID uuid.UUID) ([]job.Posting, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]job.Posting, 0)
	for _, p := range m.s.jobs {
		if p.EmployerID == employerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memCandidates struct{ s *store }

func (m memCandidates) GetByID(_ context.Context, id uuid.UUID) (candidate.Candidate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.candidates[id]
	if !ok {
		return candidate.Candidate{}, candidate.ErrNotFound
	}
	return c, nil
}

func (m memCandidates) GetByUserID(_ context.Context, userID uuid.UUID) (candidate.Candidate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.candidates {
		if c.UserID == userID {
			return c, nil
		}
	}
	return candidate.Candidate{}, candidate.ErrNotFound
}

func (m memCandidates) Upsert(_ context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for id, existing := range m.s.candidates {
		if existing.UserID == c.UserID {
			c.ID = id
		}
	}
	m.s.candidates[c.ID] = c
	return c, nil
}

type memApps struct{ s *store }

func (m memApps) Create(_ context.Context, a application.Application) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.apps {
		if existing.JobID == a.JobID && existing.CandidateID == a.CandidateID {
			return repository.ErrDuplicate
		}
	}
	a.CreatedAt = time.Now()
	m.s.apps[a.ID] = a
	return nil
}

func (m memApps) GetByID(_ context.Context, id uuid.UUID) (application.Application, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.apps[id]
	if !ok {
		return application.Application{}, application.ErrNotFound
	}
	return a, nil
}

func (m memApps) Exists(_ context.Context, jobID, candidateID uuid.UUID) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

func (m memApps) filter(keep func(application.Application) bool) []application.Application {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]application.Application, 0)
	for _, a := range m.s.apps {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m memApps) ListByCandidate(_ context.Context, candidateID uuid.UUID) ([]application.Application, error) {
	return m.filter(func(a application.Application) bool { return a.CandidateID == candidateID }), nil
}

func (m memApps) ListByJob(_ context.Context, jobID uuid.UUID) ([]application.Application, error) {
	return m.filter(func(a application.Application) bool { return a.JobID == jobID }), nil
}

func (m memApps) ListByEmployer(_ context.Context, employerID uuid.UUID) ([]application.Application, error) {
	m.s.mu.Lock()
	owned := map[uuid.UUID]bool{}
	for id, p := range m.s.jobs {
		owned[id] = p.EmployerID == employerID
	}
	m.s.mu.Unlock()
	return m.filter(func(a application.Application) bool { return owned[a.JobID] }), nil
}

func (m memApps) UpdateStatus(_ context.Context, id uuid.UUID, from, to application.Status) (application.Application, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.casLocked(id, from, to)
}

func (m memApps) casLocked(id uuid.UUID, from, to application.Status) (application.Application, error) {
	a, ok := m.s.apps[id]
	if !ok || a.Status != from {
		return application.Application{}, repository.ErrStaleStatus
	}
	a.Status = to
	m.s.apps[id] = a
	return a, nil
}

type memContracts struct {
	s       *store
	failTx  error
	inserts int
}

func (m *memContracts) Create(_ context.Context, c contract.Contract) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.insertLocked(c)
}

func (m *memContracts) insertLocked(c contract.Contract) error {
	for _, existing := range m.s.contracts {
		if existing.ApplicationID == c.ApplicationID {
			return repository.ErrDuplicate
		}
	}
	c.CreatedAt = time.Now()
	m.s.contracts[c.ID] = c
	m.inserts++
	return nil
}

func (m *memContracts) CreateForAcceptance(_ context.Context, c contract.Contract) (application.Application, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.failTx != nil {
		return application.Application{}, m.failTx
	}
	prev, ok := m.s.apps[c.ApplicationID]
	a, err := memApps{s: m.s}.casLocked(c.ApplicationID, application.StatusPending, application.StatusAccepted)
	if err != nil {
		return application.Application{}, err
	}
	if err := m.insertLocked(c); err != nil {
		if ok {
			m.s.apps[c.ApplicationID] = prev
		}
		return application.Application{}, err
	}
	return a, nil
}

func (m *memContracts) GetByID(_ context.Context, id uuid.UUID) (contract.Contract, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.contracts[id]
	if !ok {
		return contract.Contract{}, contract.ErrNotFound
	}
	return c, nil
}

func (m *memContracts) GetByApplicationID(_ context.Context, applicationID uuid.UUID) (contract.Contract, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, c := range m.s.contracts {
		if c.ApplicationID == applicationID {
			return c, nil
		}
	}
	return contract.Contract{}, contract.ErrNotFound
}

func (m *memContracts) ExistsForApplication(ctx context.Context, applicationID uuid.UUID) (bool, error) {
	_, err := m.GetByApplicationID(ctx, applicationID)
	return err == nil, nil
}

func (m *memContracts) UpdateStatus(_ context.Context, id uuid.UUID, from, to contract.Status) (contract.Contract, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.contracts[id]
	if !ok || c.Status != from {
		return contract.Contract{}, repository.ErrStaleStatus
	}
	c.Status = to
	m.s.contracts[id] = c
	return c, nil
}

func (m *memContracts) SetSignature(_ context.Context, id uuid.UUID, party contract.Party) (contract.Contract, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.contracts[id]
	if !ok {
		return contract.Contract{}, contract.ErrNotFound
	}
	// Same derivation as the signature UPDATE in the postgres repository.
	switch party {
	case contract.PartyEmployer:
		c.SignedByEmployer = true
		if c.SignedByCandidate {
			c.Status = contract.StatusSigned
		}
	case contract.PartyCandidate:
		c.SignedByCandidate = true
		if c.SignedByEmployer {
			c.Status = contract.StatusSigned
		}
	default:
		return contract.Contract{}, fmt.Errorf("unknown contract party %q", party)
	}
	m.s.contracts[id] = c
	return c, nil
}

// fakeAI returns canned results; the err fields switch individual calls to failure.
type fakeAI struct {
	mu          sync.Mutex
	score       int
	scoreErr    error
	contractErr error
	contract    string
	review      *match.PostingReview
	reviewErr   error
	calls       int
}

func (f *fakeAI) ScoreMatch(context.Context, match.JobSummary, match.CandidateSummary) (match.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.scoreErr != nil {
		return match.Result{}, f.scoreErr
	}
	return match.Result{Score: f.score, Rationale: "good fit"}, nil
}

func (f *fakeAI) GenerateContractText(_ context.Context, j match.JobSummary, c match.CandidateSummary) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.contractErr != nil {
		return "", f.contractErr
	}
	if f.contract != "" {
		return f.contract, nil
	}
	return "Employment agreement for " + j.Title + " with " + c.FullName, nil
}

func (f *fakeAI) GenerateJobDescription(_ context.Context, req match.JobDescriptionRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return "About the role: " + req.Title + ". " + req.CompanyInfo, nil
}

func (f *fakeAI) GenerateCandidateBio(_ context.Context, c match.CandidateSummary) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return c.FullName + " works with " + strings.Join(c.Skills, ", "), nil
}

func (f *fakeAI) ReviewJobPosting(context.Context, match.JobSummary) (match.PostingReview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.reviewErr != nil {
		return match.PostingReview{}, f.reviewErr
	}
	if f.review != nil {
		return *f.review, nil
	}
	return match.PostingReview{Compliant: true}, nil
}

type sentMail struct {
	to, subject, body string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []event.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, e event.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) types() []event.Type {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]event.Type, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeLock struct {
	mu   sync.Mutex
	held map[string]bool
	err  error
}

func (f *fakeLock) TryLock(_ context.Context, key string, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	if f.held == nil {
		f.held = map[string]bool{}
	}
	if f.held[key] {
		return false, nil
	}
	f.held[key] = true
	return true, nil
}

func (f *fakeLock) Unlock(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, key)
	return nil
}

var errAIDown = errors.New("model unavailable")

// fixture wires every usecase over one store with an employer E, a candidate C,
// and an active job J owned by E.
type fixture struct {
	s         *store
	ai        *fakeAI
	notifier  *fakeNotifier
	publisher *fakePublisher
	lock      *fakeLock
	contracts *memContracts

	apps     *Applications
	contract *Contracts
	workflow *Workflow

	employer  user.User
	candUser  user.User
	outsider  user.User
	admin     user.User
	job       job.Posting
	candidate candidate.Candidate
}

func newFixture() *fixture {
	s := newStore()
	f := &fixture{
		s:         s,
		ai:        &fakeAI{score: 82},
		notifier:  &fakeNotifier{},
		publisher: &fakePublisher{},
		lock:      &fakeLock{},
		contracts: &memContracts{s: s},
	}

	f.employer = user.User{ID: uuid.New(), Email: "e@example.com", FullName: "Erin Employer", IsEmployer: true, IsActive: true}
	f.candUser = user.User{ID: uuid.New(), Email: "c@example.com", FullName: "Casey Candidate", IsActive: true}
	f.outsider = user.User{ID: uuid.New(), Email: "o@example.com", FullName: "Other Employer", IsEmployer: true, IsActive: true}
	f.admin = user.User{ID: uuid.New(), Email: "a@example.com", FullName: "Admin", IsAdmin: true, IsActive: true}
	for _, u := range []user.User{f.employer, f.candUser, f.outsider, f.admin} {
		s.users[u.ID] = u
	}

	f.job = job.Posting{
		ID:           uuid.New(),
		EmployerID:   f.employer.ID,
		Title:        "Backend Engineer",
		Description:  "Build APIs",
		Requirements: []string{"Go", "PostgreSQL"},
		Salary:       job.SalaryRange{Min: 1000, Max: 2000, Currency: "USD"},
		IsActive:     true,
	}
	s.jobs[f.job.ID] = f.job

	f.candidate = candidate.Candidate{
		ID:     uuid.New(),
		UserID: f.candUser.ID,
		Skills: []string{"Go"},
	}
	s.candidates[f.candidate.ID] = f.candidate

	users := memUsers{s: s}
	jobs := memJobs{s: s}
	cands := memCandidates{s: s}
	apps := memApps{s: s}

	f.apps = NewApplicationUsecase(apps, jobs, cands, users, f.ai, f.notifier, f.publisher, nil)
	f.contract = NewContractUsecase(ContractDeps{
		Contracts:    f.contracts,
		Applications: apps,
		Jobs:         jobs,
		Candidates:   cands,
		Users:        users,
		AI:           f.ai,
		Lock:         f.lock,
		Notifier:     f.notifier,
		Publisher:    f.publisher,
	})
	f.workflow = NewWorkflowUsecase(f.contract)
	return f
}

func (f *fixture) submit() application.Application {
	a, err := f.apps.Submit(context.Background(), f.candUser, f.job.ID)
	if err != nil {
		panic(err)
	}
	return a
}
