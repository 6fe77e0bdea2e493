package repository

import (
	"context"

	"hireflow/internal/database"
	"hireflow/internal/domain/candidate"

	"github.com/google/uuid"
)

type CandidateRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (candidate.Candidate, error)
	Upsert(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error)
}

const candidateColumns = `id, user_id, bio, skills, experience, education, created_at, updated_at`

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (candidate.Candidate, error) {
	row := r.db.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)
	return scanCandidate(row)
}

func (r *PostgresCandidateRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (candidate.Candidate, error) {
	row := r.db.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE user_id = $1`, userID)
	return scanCandidate(row)
}

// Upsert keys on user_id; the id of an existing profile is kept.
func (r *PostgresCandidateRepository) Upsert(ctx context.Context, c candidate.Candidate) (candidate.Candidate, error) {
	skills, err := marshalList(c.Skills)
	if err != nil {
		return candidate.Candidate{}, err
	}
	experience, err := marshalList(c.Experience)
	if err != nil {
		return candidate.Candidate{}, err
	}
	education, err := marshalList(c.Education)
	if err != nil {
		return candidate.Candidate{}, err
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO candidates (id, user_id, bio, skills, experience, education)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE
		 SET bio = EXCLUDED.bio,
			skills = EXCLUDED.skills,
			experience = EXCLUDED.experience,
			education = EXCLUDED.education,
			updated_at = now()
		 RETURNING `+candidateColumns,
		c.ID, c.UserID, c.Bio, skills, experience, education,
	)
	return scanCandidate(row)
}

func scanCandidate(row database.Row) (candidate.Candidate, error) {
	var (
		c                             candidate.Candidate
		skills, experience, education []byte
	)
	err := row.Scan(&c.ID, &c.UserID, &c.Bio, &skills, &experience, &education, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return candidate.Candidate{}, candidate.ErrNotFound
		}
		return candidate.Candidate{}, err
	}
	if err := unmarshalList(skills, &c.Skills); err != nil {
		return candidate.Candidate{}, err
	}
	if err := unmarshalList(experience, &c.Experience); err != nil {
		return candidate.Candidate{}, err
	}
	if err := unmarshalList(education, &c.Education); err != nil {
		return candidate.Candidate{}, err
	}
	return c, nil
}
