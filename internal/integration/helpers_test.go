package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"hireflow/internal/config"
	"hireflow/internal/database"
	"hireflow/internal/database/migration"
	dbpostgres "hireflow/internal/database/postgres"
	"hireflow/internal/delivery/http/handler"
	"hireflow/internal/delivery/http/middleware"
	"hireflow/internal/delivery/http/routes"
	v1 "hireflow/internal/delivery/http/routes/v1"
	"hireflow/internal/domain/event"
	"hireflow/internal/domain/match"
	"hireflow/internal/pkg/jwt"
	"hireflow/internal/repository"
	"hireflow/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type stubAI struct{}

func (stubAI) ScoreMatch(context.Context, match.JobSummary, match.CandidateSummary) (match.Result, error) {
	return match.Result{Score: 77, Rationale: "solid overlap"}, nil
}

func (stubAI) GenerateContractText(_ context.Context, j match.JobSummary, c match.CandidateSummary) (string, error) {
	return "Employment contract for " + c.FullName + " as " + j.Title, nil
}

func (stubAI) GenerateJobDescription(context.Context, match.JobDescriptionRequest) (string, error) {
	return "Generated description", nil
}

func (stubAI) GenerateCandidateBio(context.Context, match.CandidateSummary) (string, error) {
	return "Generated bio", nil
}

func (stubAI) ReviewJobPosting(context.Context, match.JobSummary) (match.PostingReview, error) {
	return match.PostingReview{Compliant: true}, nil
}

type mailbox struct {
	mu   sync.Mutex
	sent []string
}

func (m *mailbox) Send(_ context.Context, to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to+"|"+subject)
	return nil
}

type eventLog struct {
	mu   sync.Mutex
	seen []event.Type
}

func (l *eventLog) Publish(_ context.Context, e event.Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seen = append(l.seen, e.Type)
	return nil
}

func env(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func connectTestDB(t *testing.T, ctx context.Context) database.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		DBHost:     env("HIREFLOW_TEST_DB_HOST", "DB_HOST"),
		DBPort:     env("HIREFLOW_TEST_DB_PORT", "DB_PORT"),
		DBName:     env("HIREFLOW_TEST_DB_NAME", "DB_NAME"),
		DBUser:     env("HIREFLOW_TEST_DB_USER", "DB_USER"),
		DBPassword: env("HIREFLOW_TEST_DB_PASSWORD", "DB_PASSWORD"),
		DBSSLMode:  env("HIREFLOW_TEST_DB_SSL_MODE", "DB_SSL_MODE"),
	}
	if cfg.DBHost == "" || cfg.DBPort == "" || cfg.DBName == "" || cfg.DBUser == "" {
		t.Skip("missing test DB env vars: set HIREFLOW_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}
	if cfg.DBSSLMode == "" {
		cfg.DBSSLMode = "disable"
	}

	db, err := dbpostgres.Connect(ctx, cfg)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := (migration.Runner{}).Run(ctx, db.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return db
}

type testEnv struct {
	app    *fiber.App
	mail   *mailbox
	events *eventLog
}

func newTestApp(t *testing.T, db database.DB) testEnv {
	t.Helper()

	log := zap.NewNop()
	mail := &mailbox{}
	events := &eventLog{}
	ai := stubAI{}

	users := repository.NewPostgresUserRepository(db)
	jobs := repository.NewPostgresJobRepository(db)
	cands := repository.NewPostgresCandidateRepository(db)
	apps := repository.NewPostgresApplicationRepository(db)
	contracts := repository.NewPostgresContractRepository(db)

	jwtSvc := jwt.NewHMACService("it-access", "it-refresh", 15*time.Minute, time.Hour)
	identity := usecase.NewIdentityUsecase(users)

	contractUC := usecase.NewContractUsecase(usecase.ContractDeps{
		Contracts:    contracts,
		Applications: apps,
		Jobs:         jobs,
		Candidates:   cands,
		Users:        users,
		AI:           ai,
		Notifier:     mail,
		Publisher:    events,
		Logger:       log,
	})

	handlers := v1.Handlers{
		Auth:         handler.NewAuthHandler(usecase.NewAuthUsecase(users, jwtSvc)),
		Users:        handler.NewUserHandler(usecase.NewUserUsecase(users)),
		Candidates:   handler.NewCandidateHandler(usecase.NewCandidateUsecase(cands, ai, log)),
		Jobs:         handler.NewJobsHandler(usecase.NewJobUsecase(jobs, ai, nil, nil, 0, log)),
		Applications: handler.NewApplicationHandler(usecase.NewApplicationUsecase(apps, jobs, cands, users, ai, mail, events, log), usecase.NewWorkflowUsecase(contractUC), contractUC),
		Contracts:    handler.NewContractHandler(contractUC),
	}

	app := fiber.New(fiber.Config{})
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	routes.NewRegistry(handler.NewHealthHandler(db, nil), nil, handlers, middleware.NewAuthMiddleware(jwtSvc, identity).Middleware()).Register(app)

	return testEnv{app: app, mail: mail, events: events}
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) semanticResponse {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode: %v", method, path, err)
	}
	if sr.Status != resp.StatusCode {
		t.Fatalf("%s %s: envelope status %d != http status %d", method, path, sr.Status, resp.StatusCode)
	}
	return sr
}

func decode[T any](t *testing.T, sr semanticResponse) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(sr.Data, &out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, sr.Data)
	}
	return out
}

func expectStatus(t *testing.T, what string, sr semanticResponse, want int) {
	t.Helper()
	if sr.Status != want {
		t.Fatalf("%s: expected %d, got %d (%s)", what, want, sr.Status, sr.Message)
	}
}
