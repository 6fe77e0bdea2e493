package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hireflow/internal/domain/access"
	"hireflow/internal/domain/application"
	"hireflow/internal/domain/candidate"
	"hireflow/internal/domain/job"
	"hireflow/internal/domain/match"
	"hireflow/internal/domain/user"
	"hireflow/internal/repository"

	"github.com/google/uuid"
)

// partyLoader resolves the job and candidate profile behind an application.
type partyLoader struct {
	jobs       repository.JobRepository
	candidates repository.CandidateRepository
	users      user.Repository
}

func (l partyLoader) application(ctx context.Context, apps repository.ApplicationRepository, id uuid.UUID) (application.Application, access.Parties, error) {
	a, err := apps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, access.Parties{}, fmt.Errorf("%w: application", ErrNotFound)
		}
		return application.Application{}, access.Parties{}, internalErr(err)
	}
	ps, err := l.parties(ctx, a)
	if err != nil {
		return application.Application{}, access.Parties{}, err
	}
	return a, ps, nil
}

func (l partyLoader) parties(ctx context.Context, a application.Application) (access.Parties, error) {
	j, err := l.jobs.GetByID(ctx, a.JobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return access.Parties{}, fmt.Errorf("%w: job", ErrNotFound)
		}
		return access.Parties{}, internalErr(err)
	}
	c, err := l.candidates.GetByID(ctx, a.CandidateID)
	if err != nil {
		if errors.Is(err, candidate.ErrNotFound) {
			return access.Parties{}, fmt.Errorf("%w: candidate profile", ErrNotFound)
		}
		return access.Parties{}, internalErr(err)
	}
	return access.Parties{Job: j, Candidate: c}, nil
}

// people loads the employer and candidate users. Missing users come back zero-valued.
func (l partyLoader) people(ctx context.Context, ps access.Parties) (employer, cand user.User) {
	if u, err := l.users.GetUserByID(ctx, ps.Job.EmployerID); err == nil {
		employer = u
	}
	if u, err := l.users.GetUserByID(ctx, ps.Candidate.UserID); err == nil {
		cand = u
	}
	return employer, cand
}

func jobSummary(j job.Posting) match.JobSummary {
	return match.JobSummary{
		Title:        j.Title,
		Description:  j.Description,
		Requirements: j.Requirements,
		Location:     j.Location,
		SalaryMin:    j.Salary.Min,
		SalaryMax:    j.Salary.Max,
		Currency:     j.Salary.Currency,
	}
}

func candidateSummary(c candidate.Candidate, u user.User) match.CandidateSummary {
	exp := make([]string, 0, len(c.Experience))
	for _, e := range c.Experience {
		line := strings.TrimSpace(fmt.Sprintf("%s at %s (%s)", e.Position, e.Company, e.Duration))
		if e.Description != "" {
			line += ": " + e.Description
		}
		exp = append(exp, line)
	}
	edu := make([]string, 0, len(c.Education))
	for _, e := range c.Education {
		line := fmt.Sprintf("%s in %s, %s", e.Degree, e.Field, e.Institution)
		if e.Year > 0 {
			line += fmt.Sprintf(" (%d)", e.Year)
		}
		edu = append(edu, line)
	}
	return match.CandidateSummary{
		FullName:   u.FullName,
		Email:      u.Email,
		Bio:        c.Bio,
		Skills:     c.Skills,
		Experience: exp,
		Education:  edu,
	}
}
