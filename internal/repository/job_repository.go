package repository

import (
	"context"
	"encoding/json"
	"strings"

	"hireflow/internal/database"
	"hireflow/internal/domain/job"

	"github.com/google/uuid"
)

type JobRepository interface {
	Create(ctx context.Context, p job.Posting) error
	GetByID(ctx context.Context, id uuid.UUID) (job.Posting, error)
	Update(ctx context.Context, p job.Posting) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	ListActive(ctx context.Context, limit, offset int) ([]job.Posting, error)
	// SearchActive returns active postings where any term occurs in the title,
	// description, requirements or location.
	SearchActive(ctx context.Context, terms []string, limit int) ([]job.Posting, error)
	ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Posting, error)
}

const jobColumns = `id, employer_id, title, description, requirements, location,
	salary_min, salary_max, salary_currency, is_active, created_at, updated_at`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

func (r *PostgresJobRepository) Create(ctx context.Context, p job.Posting) error {
	reqs, err := marshalList(p.Requirements)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO job_postings (id, employer_id, title, description, requirements, location,
			salary_min, salary_max, salary_currency, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.EmployerID, p.Title, p.Description, reqs, p.Location,
		p.Salary.Min, p.Salary.Max, p.Salary.Currency, p.IsActive,
	)
	return mapWriteErr(err)
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Posting, error) {
	row := r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id)
	return scanJob(row)
}

func (r *PostgresJobRepository) Update(ctx context.Context, p job.Posting) error {
	reqs, err := marshalList(p.Requirements)
	if err != nil {
		return err
	}
	affected, err := r.db.Exec(ctx,
		`UPDATE job_postings
		 SET title = $2, description = $3, requirements = $4, location = $5,
			salary_min = $6, salary_max = $7, salary_currency = $8, updated_at = now()
		 WHERE id = $1`,
		p.ID, p.Title, p.Description, reqs, p.Location,
		p.Salary.Min, p.Salary.Max, p.Salary.Currency,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	if affected == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE job_postings SET is_active = $2, updated_at = now() WHERE id = $1`,
		id, active,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) ListActive(ctx context.Context, limit, offset int) ([]job.Posting, error) {
	limit, offset = clampPage(limit, offset, 20, 50)
	return r.list(ctx,
		`SELECT `+jobColumns+`
		 FROM job_postings
		 WHERE is_active
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
}

func (r *PostgresJobRepository) SearchActive(ctx context.Context, terms []string, limit int) ([]job.Posting, error) {
	if len(terms) == 0 {
		return []job.Posting{}, nil
	}
	patterns := make([]string, 0, len(terms))
	for _, t := range terms {
		patterns = append(patterns, "%"+likeEscaper.Replace(t)+"%")
	}
	limit, _ = clampPage(limit, 0, 200, 500)
	return r.list(ctx,
		`SELECT `+jobColumns+`
		 FROM job_postings
		 WHERE is_active
		   AND (title ILIKE ANY($1)
		     OR description ILIKE ANY($1)
		     OR requirements::text ILIKE ANY($1)
		     OR location ILIKE ANY($1))
		 ORDER BY updated_at DESC
		 LIMIT $2`,
		patterns, limit,
	)
}

func (r *PostgresJobRepository) ListByEmployer(ctx context.Context, employerID uuid.UUID) ([]job.Posting, error) {
	return r.list(ctx,
		`SELECT `+jobColumns+`
		 FROM job_postings
		 WHERE employer_id = $1
		 ORDER BY created_at DESC`,
		employerID,
	)
}

func (r *PostgresJobRepository) list(ctx context.Context, query string, args ...any) ([]job.Posting, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]job.Posting, 0)
	for rows.Next() {
		p, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanJob(row database.Row) (job.Posting, error) {
	var (
		p    job.Posting
		reqs []byte
	)
	err := row.Scan(
		&p.ID,
		&p.EmployerID,
		&p.Title,
		&p.Description,
		&reqs,
		&p.Location,
		&p.Salary.Min,
		&p.Salary.Max,
		&p.Salary.Currency,
		&p.IsActive,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if database.IsNoRows(err) {
			return job.Posting{}, job.ErrNotFound
		}
		return job.Posting{}, err
	}
	if err := unmarshalList(reqs, &p.Requirements); err != nil {
		return job.Posting{}, err
	}
	return p, nil
}

func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}
	return json.Marshal(items)
}

func unmarshalList[T any](raw []byte, out *[]T) error {
	if len(raw) == 0 {
		*out = []T{}
		return nil
	}
	return json.Unmarshal(raw, out)
}
