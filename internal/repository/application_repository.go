package repository

import (
	"context"
	"errors"

	"hireflow/internal/database"
	"hireflow/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a application.Application) error
	GetByID(ctx context.Context, id uuid.UUID) (application.Application, error)
	Exists(ctx context.Context, jobID, candidateID uuid.UUID) (bool, error)
	ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]application.Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]application.Application, error)
	// UpdateStatus writes to only when the stored status still equals from.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.Status) (application.Application, error)
}

const applicationColumns = `a.id, a.job_id, a.candidate_id, a.status, a.ai_match_score, a.ai_match_rationale, a.created_at, a.updated_at`

type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (id, job_id, candidate_id, status, ai_match_score, ai_match_rationale)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.JobID, a.CandidateID, string(a.Status), a.MatchScore, a.MatchRationale,
	)
	return mapWriteErr(err)
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id)
	return scanApplication(row)
}

func (r *PostgresApplicationRepository) Exists(ctx context.Context, jobID, candidateID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2)`,
		jobID, candidateID,
	)
	if err := row.Scan(&exists); err != nil {
		if database.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) ListByCandidate(ctx context.Context, candidateID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications a
		 WHERE a.candidate_id = $1
		 ORDER BY a.created_at DESC`,
		candidateID,
	)
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications a
		 WHERE a.job_id = $1
		 ORDER BY a.ai_match_score DESC NULLS LAST, a.created_at ASC`,
		jobID,
	)
}

func (r *PostgresApplicationRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications a
		 JOIN job_postings j ON j.id = a.job_id
		 WHERE j.employer_id = $1
		 ORDER BY a.created_at DESC`,
		employerID,
	)
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to application.Status) (application.Application, error) {
	return updateApplicationStatus(ctx, r.db, id, from, to)
}

func updateApplicationStatus(ctx context.Context, q database.Querier, id uuid.UUID, from, to application.Status) (application.Application, error) {
	row := q.QueryRow(ctx,
		`UPDATE applications a
		 SET status = $3, updated_at = now()
		 WHERE a.id = $1 AND a.status = $2
		 RETURNING `+applicationColumns,
		id, string(from), string(to),
	)
	a, err := scanApplication(row)
	if errors.Is(err, application.ErrNotFound) {
		// Either the row is gone or its status moved on; callers re-read to tell which.
		return application.Application{}, ErrStaleStatus
	}
	return a, err
}

func (r *PostgresApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var (
		a      application.Application
		status string
	)
	err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &status, &a.MatchScore, &a.MatchRationale, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}
