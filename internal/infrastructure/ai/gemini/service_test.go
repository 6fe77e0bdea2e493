package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hireflow/internal/domain/match"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
	lastOpts   Options
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string, opts Options) (string, error) {
	s.lastPrompt = prompt
	s.lastOpts = opts
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

var (
	testJob = match.JobSummary{
		Title:        "Backend Engineer",
		Requirements: []string{"Go", "PostgreSQL"},
		Location:     "Remote",
		SalaryMin:    4000,
		SalaryMax:    6000,
		Currency:     "USD",
	}
	testCandidate = match.CandidateSummary{
		FullName:   "Rina Putri",
		Skills:     []string{"go", "sql"},
		Experience: []string{"4 years backend at Acme"},
		Education:  []string{"BSc Computer Science"},
	}
)

func TestScoreMatch_JSON(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"score\": 82, \"rationale\": \"Strong Go background\"}\n```"}
	svc := NewService(stub, zap.NewNop(), 0, 0)

	res, err := svc.ScoreMatch(context.Background(), testJob, testCandidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 82 || res.Rationale != "Strong Go background" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !stub.lastOpts.JSON {
		t.Fatalf("expected JSON response mode")
	}
	if !strings.Contains(stub.lastPrompt, "Backend Engineer") || !strings.Contains(stub.lastPrompt, "Rina Putri") {
		t.Fatalf("expected job and candidate in prompt")
	}
	if strings.Contains(stub.lastPrompt, "{{") {
		t.Fatalf("unfilled placeholder in prompt: %s", stub.lastPrompt)
	}
}

func TestScoreMatch_ScoreLineFallback(t *testing.T) {
	stub := &stubGenerator{response: "Analysis: good overlap on Go.\nScore: 67"}
	svc := NewService(stub, zap.NewNop(), 0, 0)

	res, err := svc.ScoreMatch(context.Background(), testJob, testCandidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Score != 67 {
		t.Fatalf("expected 67, got %d", res.Score)
	}
	if res.Rationale == "" {
		t.Fatalf("expected raw text as rationale")
	}
}

func TestScoreMatch_NoScoreIsError(t *testing.T) {
	stub := &stubGenerator{response: "I cannot evaluate this candidate."}
	svc := NewService(stub, zap.NewNop(), 0, 0)

	_, err := svc.ScoreMatch(context.Background(), testJob, testCandidate)
	if !errors.Is(err, ErrScoreNotFound) {
		t.Fatalf("expected ErrScoreNotFound, got %v", err)
	}
}

func TestScoreMatch_FractionalScoreIsError(t *testing.T) {
	stub := &stubGenerator{response: `{"score": 71.5, "rationale": "ok"}`}
	svc := NewService(stub, zap.NewNop(), 0, 0)

	if _, err := svc.ScoreMatch(context.Background(), testJob, testCandidate); err == nil {
		t.Fatalf("expected error for fractional score")
	}
}

func TestScoreMatch_OutOfRangePassedThrough(t *testing.T) {
	stub := &stubGenerator{response: `{"score": 140}`}
	svc := NewService(stub, zap.NewNop(), 0, 0)

	res, err := svc.ScoreMatch(context.Background(), testJob, testCandidate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Valid() {
		t.Fatalf("expected invalid result for score %d", res.Score)
	}
}

func TestGenerate_PropagatesError(t *testing.T) {
	boom := errors.New("quota exceeded")
	svc := NewService(&stubGenerator{err: boom}, zap.NewNop(), 0, 0)

	_, err := svc.GenerateContractText(context.Background(), testJob, testCandidate)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped generator error, got %v", err)
	}
}

func TestGenerate_EmptyOutput(t *testing.T) {
	svc := NewService(&stubGenerator{response: "   "}, zap.NewNop(), 0, 0)

	_, err := svc.GenerateCandidateBio(context.Background(), testCandidate)
	if !errors.Is(err, ErrEmptyOutput) {
		t.Fatalf("expected ErrEmptyOutput, got %v", err)
	}
}

func TestGenerateJobDescription_Prompt(t *testing.T) {
	stub := &stubGenerator{response: "We are hiring."}
	svc := NewService(stub, zap.NewNop(), 0, 0)

	out, err := svc.GenerateJobDescription(context.Background(), match.JobDescriptionRequest{
		Title:        "Data Engineer",
		Requirements: []string{"Spark"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "We are hiring." {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(stub.lastPrompt, "- Spark") {
		t.Fatalf("expected requirements bullet list in prompt")
	}
	if !strings.Contains(stub.lastPrompt, "Company information:\n-") {
		t.Fatalf("expected placeholder for missing company info")
	}
}

func TestGenerator_RejectsEmptyKey(t *testing.T) {
	if _, err := NewGenerator(context.Background(), " ", ""); err == nil {
		t.Fatalf("expected error for empty api key")
	}
}

func TestReviewJobPosting_JSON(t *testing.T) {
	stub := &stubGenerator{response: `{"compliant": false, "issues": ["age limit", " "], "revised_description": " Build APIs in Go. "}`}
	svc := NewService(stub, zap.NewNop(), 0, 0)

	rev, err := svc.ReviewJobPosting(context.Background(), testJob)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rev.Compliant {
		t.Fatalf("expected non-compliant review")
	}
	if len(rev.Issues) != 1 || rev.Issues[0] != "age limit" {
		t.Fatalf("unexpected issues: %v", rev.Issues)
	}
	if rev.RevisedDescription != "Build APIs in Go." {
		t.Fatalf("unexpected revision: %q", rev.RevisedDescription)
	}
	if !stub.lastOpts.JSON || !strings.Contains(stub.lastPrompt, `"title": "Backend Engineer"`) {
		t.Fatalf("expected JSON mode and job payload in prompt")
	}
}

func TestReviewJobPosting_FreeTextFallback(t *testing.T) {
	cases := []struct {
		name      string
		response  string
		compliant bool
	}{
		{name: "clean", response: "The posting reads well.", compliant: true},
		{name: "flagged", response: "The age requirement is Discriminatory.", compliant: false},
		{name: "json without verdict", response: `{"issues": ["illegal clause"]}`, compliant: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&stubGenerator{response: tc.response}, zap.NewNop(), 0, 0)
			rev, err := svc.ReviewJobPosting(context.Background(), testJob)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rev.Compliant != tc.compliant {
				t.Fatalf("expected compliant=%v, got %+v", tc.compliant, rev)
			}
			if !rev.Compliant && len(rev.Issues) != 1 {
				t.Fatalf("expected the response text as the issue, got %v", rev.Issues)
			}
		})
	}
}
