package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hireflow/internal/domain/access"
	"hireflow/internal/domain/job"
	"hireflow/internal/domain/match"
	"hireflow/internal/domain/user"
	"hireflow/internal/repository"
	"hireflow/internal/search"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const searchPoolSize = 200

type CreateJobInput struct {
	Title        string
	Description  string
	Requirements []string
	Location     string
	Salary       job.SalaryRange
	CompanyInfo  string
	CompanyURL   string
}

type UpdateJobInput struct {
	Title        *string
	Description  *string
	Requirements *[]string
	Location     *string
	Salary       *job.SalaryRange
}

type GenerateDescriptionInput struct {
	Title        string
	Requirements []string
	CompanyInfo  string
	CompanyURL   string
}

type JobUsecase interface {
	Create(ctx context.Context, caller user.User, in CreateJobInput) (job.Posting, error)
	Update(ctx context.Context, caller user.User, id uuid.UUID, in UpdateJobInput) (job.Posting, error)
	Deactivate(ctx context.Context, caller user.User, id uuid.UUID) (job.Posting, error)
	Get(ctx context.Context, id uuid.UUID) (job.Posting, error)
	ListActive(ctx context.Context, limit, offset int) ([]job.Posting, error)
	Search(ctx context.Context, query string, limit int) ([]job.Posting, error)
	ListMine(ctx context.Context, caller user.User) ([]job.Posting, error)
	GenerateDescription(ctx context.Context, caller user.User, in GenerateDescriptionInput) (string, error)
}

type Jobs struct {
	jobs     repository.JobRepository
	ai       TextGenerationService
	company  CompanyInfoFetcher
	cache    JobListCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewJobUsecase(jobs repository.JobRepository, ai TextGenerationService, company CompanyInfoFetcher, cache JobListCache, cacheTTL time.Duration, logger *zap.Logger) *Jobs {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Jobs{jobs: jobs, ai: ai, company: company, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (u *Jobs) Create(ctx context.Context, caller user.User, in CreateJobInput) (job.Posting, error) {
	if !access.IsActiveUser(caller) || !caller.IsEmployer {
		return job.Posting{}, ErrForbidden
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return job.Posting{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	salary := in.Salary.Normalize()
	if !salary.Valid() {
		return job.Posting{}, fmt.Errorf("%w: salary range is invalid", ErrInvalidInput)
	}
	reqs := cleanList(in.Requirements)

	description := strings.TrimSpace(in.Description)
	if description == "" {
		generated, err := u.describe(ctx, GenerateDescriptionInput{
			Title:        title,
			Requirements: reqs,
			CompanyInfo:  in.CompanyInfo,
			CompanyURL:   in.CompanyURL,
		})
		if err != nil {
			return job.Posting{}, err
		}
		description = generated
	}

	p := job.Posting{
		ID:           uuid.New(),
		EmployerID:   caller.ID,
		Title:        title,
		Description:  description,
		Requirements: reqs,
		Location:     strings.TrimSpace(in.Location),
		Salary:       salary,
		IsActive:     true,
	}
	if err := u.review(ctx, &p); err != nil {
		return job.Posting{}, err
	}
	if err := u.jobs.Create(ctx, p); err != nil {
		return job.Posting{}, internalErr(err)
	}
	u.invalidate(ctx)

	u.logger.Info("job created", zap.String("job_id", p.ID.String()), zap.String("employer_id", caller.ID.String()))
	return u.Get(ctx, p.ID)
}

// review runs the compliance check on a new posting. An unavailable reviewer
// lets the posting through unchanged. A flagged posting takes the suggested
// description, or is rejected when no rewrite came back.
func (u *Jobs) review(ctx context.Context, p *job.Posting) error {
	rev, err := u.ai.ReviewJobPosting(ctx, jobSummary(*p))
	if err != nil {
		u.logger.Warn("job posting review unavailable, publishing as submitted",
			zap.String("employer_id", p.EmployerID.String()),
			zap.Error(err),
		)
		return nil
	}
	if rev.Compliant {
		return nil
	}
	if rev.RevisedDescription == "" {
		return fmt.Errorf("%w: job posting was flagged: %s", ErrInvalidInput, strings.Join(rev.Issues, "; "))
	}

	u.logger.Info("job posting description revised after review",
		zap.String("employer_id", p.EmployerID.String()),
		zap.Strings("issues", rev.Issues),
	)
	p.Description = rev.RevisedDescription
	return nil
}

func (u *Jobs) Update(ctx context.Context, caller user.User, id uuid.UUID, in UpdateJobInput) (job.Posting, error) {
	p, err := u.owned(ctx, caller, id)
	if err != nil {
		return job.Posting{}, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return job.Posting{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
		}
		p.Title = title
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Requirements != nil {
		p.Requirements = cleanList(*in.Requirements)
	}
	if in.Location != nil {
		p.Location = strings.TrimSpace(*in.Location)
	}
	if in.Salary != nil {
		salary := in.Salary.Normalize()
		if !salary.Valid() {
			return job.Posting{}, fmt.Errorf("%w: salary range is invalid", ErrInvalidInput)
		}
		p.Salary = salary
	}

	if err := u.jobs.Update(ctx, p); err != nil {
		return job.Posting{}, internalErr(err)
	}
	u.invalidate(ctx)
	return u.Get(ctx, p.ID)
}

// Deactivate closes the posting to new applications. Existing applications are untouched.
func (u *Jobs) Deactivate(ctx context.Context, caller user.User, id uuid.UUID) (job.Posting, error) {
	p, err := u.owned(ctx, caller, id)
	if err != nil {
		return job.Posting{}, err
	}
	if p.IsActive {
		if err := u.jobs.SetActive(ctx, p.ID, false); err != nil {
			return job.Posting{}, internalErr(err)
		}
		u.invalidate(ctx)
	}
	return u.Get(ctx, p.ID)
}

func (u *Jobs) Get(ctx context.Context, id uuid.UUID) (job.Posting, error) {
	p, err := u.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return job.Posting{}, fmt.Errorf("%w: job", ErrNotFound)
		}
		return job.Posting{}, internalErr(err)
	}
	return p, nil
}

func (u *Jobs) ListActive(ctx context.Context, limit, offset int) ([]job.Posting, error) {
	if limit == 0 {
		limit = 20
	}
	if limit < 0 || limit > 50 || offset < 0 {
		return nil, ErrInvalidInput
	}

	key := JobListCacheKey(limit, offset)
	if u.cache != nil {
		var cached []job.Posting
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			u.logger.Debug("job list cache hit", zap.String("key", key))
			return cached, nil
		}
		u.logger.Debug("job list cache miss", zap.String("key", key))
	}

	items, err := u.jobs.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, internalErr(err)
	}

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, items, u.cacheTTL); err != nil {
			u.logger.Warn("job list cache write", zap.String("key", key), zap.Error(err))
		}
	}
	return items, nil
}

// Search expands the query with synonyms, loads matching active postings and
// ranks them by relevance and freshness.
func (u *Jobs) Search(ctx context.Context, query string, limit int) ([]job.Posting, error) {
	if limit == 0 {
		limit = 20
	}
	if limit < 0 || limit > 50 {
		return nil, ErrInvalidInput
	}
	q := search.ProcessQuery(query)
	if q.Empty() {
		return nil, fmt.Errorf("%w: search query is empty", ErrInvalidInput)
	}

	candidates, err := u.jobs.SearchActive(ctx, q.Variants, searchPoolSize)
	if err != nil {
		return nil, internalErr(err)
	}
	ranked := search.Rank(candidates, q.Variants, time.Now().UTC())
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	u.logger.Debug("job search",
		zap.String("query", q.Normalized),
		zap.Strings("variants", q.Variants),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(ranked)),
	)
	return ranked, nil
}

func (u *Jobs) ListMine(ctx context.Context, caller user.User) ([]job.Posting, error) {
	if !access.IsActiveUser(caller) || !caller.IsEmployer {
		return nil, ErrForbidden
	}
	items, err := u.jobs.ListByEmployer(ctx, caller.ID)
	if err != nil {
		return nil, internalErr(err)
	}
	return items, nil
}

func (u *Jobs) GenerateDescription(ctx context.Context, caller user.User, in GenerateDescriptionInput) (string, error) {
	if !access.IsActiveUser(caller) || !caller.IsEmployer {
		return "", ErrForbidden
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return "", fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	in.Requirements = cleanList(in.Requirements)
	return u.describe(ctx, in)
}

func (u *Jobs) describe(ctx context.Context, in GenerateDescriptionInput) (string, error) {
	info := strings.TrimSpace(in.CompanyInfo)
	if url := strings.TrimSpace(in.CompanyURL); url != "" && u.company != nil {
		about, err := u.company.FetchAbout(ctx, url)
		if err != nil {
			u.logger.Warn("fetch company info", zap.String("url", url), zap.Error(err))
		} else if about != "" {
			info = strings.TrimSpace(info + "\n\n" + about)
		}
	}

	text, err := u.ai.GenerateJobDescription(ctx, match.JobDescriptionRequest{
		Title:        in.Title,
		Requirements: in.Requirements,
		CompanyInfo:  info,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty job description", ErrGenerationUnavailable)
	}
	return text, nil
}

func (u *Jobs) owned(ctx context.Context, caller user.User, id uuid.UUID) (job.Posting, error) {
	p, err := u.Get(ctx, id)
	if err != nil {
		return job.Posting{}, err
	}
	if !access.IsEmployerOfJob(caller, p) {
		return job.Posting{}, ErrForbidden
	}
	return p, nil
}

func (u *Jobs) invalidate(ctx context.Context) {
	if u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, jobListCachePrefix+"*"); err != nil {
		u.logger.Warn("job list cache invalidation", zap.Error(err))
	}
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
