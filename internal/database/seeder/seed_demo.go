package seeder

import (
	"context"
	"encoding/json"

	"hireflow/internal/database"

	"github.com/google/uuid"
)

const (
	DemoEmployerEmail  = "employer@demo.hireflow.local"
	DemoCandidateEmail = "candidate@demo.hireflow.local"
	DemoPassword       = "hireflow-demo"
)

type demoJob struct {
	Title        string
	Description  string
	Requirements []string
	Location     string
	SalaryMin    float64
	SalaryMax    float64
}

var demoJobs = []demoJob{
	{
		Title:        "Backend Engineer (Go)",
		Description:  "Own the hiring workflow services: HTTP APIs, Postgres schemas and event delivery.",
		Requirements: []string{"Go", "PostgreSQL", "Redis"},
		Location:     "Remote",
		SalaryMin:    4000,
		SalaryMax:    6000,
	},
	{
		Title:        "Frontend Developer",
		Description:  "Build the candidate and employer dashboards.",
		Requirements: []string{"TypeScript", "React"},
		Location:     "Jakarta",
		SalaryMin:    3000,
		SalaryMax:    4500,
	},
}

// DemoSeeder creates one employer with open postings and one candidate with a profile.
// It is meant for local development only.
type DemoSeeder struct{}

func (DemoSeeder) Name() string { return "demo_data" }

func (DemoSeeder) Seed(ctx context.Context, q database.Querier) (int64, error) {
	if err := requireColumns(ctx, q, "job_postings", "employer_id", "title", "requirements", "salary_min", "salary_max"); err != nil {
		return 0, err
	}

	var total int64
	n, err := insertUser(ctx, q, DemoEmployerEmail, DemoPassword, "Demo Employer", true, false)
	if err != nil {
		return total, err
	}
	total += n
	if n, err = insertUser(ctx, q, DemoCandidateEmail, DemoPassword, "Demo Candidate", false, false); err != nil {
		return total, err
	}
	total += n

	employerID, err := userID(ctx, q, DemoEmployerEmail)
	if err != nil {
		return total, err
	}
	candidateUserID, err := userID(ctx, q, DemoCandidateEmail)
	if err != nil {
		return total, err
	}

	skills, _ := json.Marshal([]string{"Go", "PostgreSQL", "Docker"})
	n, err = q.Exec(ctx,
		`INSERT INTO candidates (id, user_id, bio, skills)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO NOTHING`,
		uuid.New(), candidateUserID, "Backend developer with four years of Go.", skills,
	)
	if err != nil {
		return total, err
	}
	total += n

	var existing int
	if err := q.QueryRow(ctx, `SELECT count(*) FROM job_postings WHERE employer_id = $1`, employerID).Scan(&existing); err != nil {
		return total, err
	}
	if existing > 0 {
		return total, nil
	}
	for _, j := range demoJobs {
		reqs, _ := json.Marshal(j.Requirements)
		n, err := q.Exec(ctx,
			`INSERT INTO job_postings (id, employer_id, title, description, requirements, location, salary_min, salary_max)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), employerID, j.Title, j.Description, reqs, j.Location, j.SalaryMin, j.SalaryMax,
		)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func userID(ctx context.Context, q database.Querier, email string) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id)
	return id, err
}
