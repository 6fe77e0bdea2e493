package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"hireflow/internal/domain/match"
	"hireflow/internal/logger"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, opts Options) (string, error)
}

var (
	//go:embed prompts/match.md
	matchPrompt string
	//go:embed prompts/contract.md
	contractPrompt string
	//go:embed prompts/job_description.md
	jobDescriptionPrompt string
	//go:embed prompts/bio.md
	bioPrompt string
	//go:embed prompts/review.md
	reviewPrompt string
)

const (
	defaultMaxLogLength = 200
	defaultTimeout      = 60 * time.Second
)

var (
	ErrEmptyOutput   = errors.New("text generator returned no usable output")
	ErrScoreNotFound = errors.New("match score not found in response")
)

var scorePattern = regexp.MustCompile(`(?i)score"?\s*[:=]\s*"?(\d+(?:\.\d+)?)`)

// flaggedTerms mark a free-text review as non-compliant.
var flaggedTerms = []string{"discriminatory", "illegal"}

// Service implements text generation for matching, contracts, job descriptions and bios.
type Service struct {
	generator contentGenerator
	logger    *zap.Logger
	timeout   time.Duration
	maxLogLen int
}

func NewService(generator contentGenerator, log *zap.Logger, timeout time.Duration, maxLogLength int) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Service{generator: generator, logger: log, timeout: timeout, maxLogLen: maxLogLength}
}

func (s *Service) ScoreMatch(ctx context.Context, job match.JobSummary, cand match.CandidateSummary) (match.Result, error) {
	jobJSON, err := json.MarshalIndent(jobPayload(job), "", "  ")
	if err != nil {
		return match.Result{}, fmt.Errorf("marshal job payload: %w", err)
	}
	candJSON, err := json.MarshalIndent(candidatePayload(cand), "", "  ")
	if err != nil {
		return match.Result{}, fmt.Errorf("marshal candidate payload: %w", err)
	}

	prompt := fill(matchPrompt, map[string]string{
		"JOB_JSON":       string(jobJSON),
		"CANDIDATE_JSON": string(candJSON),
	})

	raw, err := s.generate(ctx, "match", prompt, Options{Temperature: 0.2, JSON: true})
	if err != nil {
		return match.Result{}, err
	}
	return parseMatch(raw)
}

func (s *Service) GenerateContractText(ctx context.Context, job match.JobSummary, cand match.CandidateSummary) (string, error) {
	prompt := fill(contractPrompt, map[string]string{
		"TITLE":          job.Title,
		"LOCATION":       orDash(job.Location),
		"SALARY":         salaryRange(job),
		"CANDIDATE_NAME": cand.FullName,
	})
	return s.generate(ctx, "contract", prompt, Options{Temperature: 0.4})
}

func (s *Service) GenerateJobDescription(ctx context.Context, req match.JobDescriptionRequest) (string, error) {
	prompt := fill(jobDescriptionPrompt, map[string]string{
		"TITLE":        req.Title,
		"COMPANY_INFO": orDash(req.CompanyInfo),
		"REQUIREMENTS": bullets(req.Requirements),
	})
	return s.generate(ctx, "job_description", prompt, Options{Temperature: 0.7})
}

func (s *Service) GenerateCandidateBio(ctx context.Context, cand match.CandidateSummary) (string, error) {
	prompt := fill(bioPrompt, map[string]string{
		"EXPERIENCE": bullets(cand.Experience),
		"EDUCATION":  bullets(cand.Education),
		"SKILLS":     strings.Join(cand.Skills, ", "),
	})
	return s.generate(ctx, "candidate_bio", prompt, Options{Temperature: 0.7})
}

func (s *Service) ReviewJobPosting(ctx context.Context, job match.JobSummary) (match.PostingReview, error) {
	jobJSON, err := json.MarshalIndent(jobPayload(job), "", "  ")
	if err != nil {
		return match.PostingReview{}, fmt.Errorf("marshal job payload: %w", err)
	}

	prompt := fill(reviewPrompt, map[string]string{"JOB_JSON": string(jobJSON)})
	raw, err := s.generate(ctx, "job_review", prompt, Options{Temperature: 0.2, JSON: true})
	if err != nil {
		return match.PostingReview{}, err
	}
	return parseReview(raw), nil
}

func (s *Service) generate(ctx context.Context, kind, prompt string, opts Options) (string, error) {
	if s == nil || s.generator == nil {
		return "", errors.New("text generator is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Debug("gemini generate content request",
		zap.String("kind", kind),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.Truncate(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt, opts)
	if err != nil {
		return "", fmt.Errorf("%s generation: %w", kind, err)
	}

	s.logger.Debug("gemini generate content response",
		zap.String("kind", kind),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.Truncate(raw, s.maxLogLen)),
	)

	out := strings.TrimSpace(raw)
	if out == "" {
		return "", ErrEmptyOutput
	}
	return out, nil
}

// parseMatch reads {"score", "rationale"} JSON and falls back to a "Score: N" line.
// A response without a score is an error, never a zero score.
func parseMatch(raw string) (match.Result, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err == nil {
		score := coerceFloat(data["score"])
		if !math.IsNaN(score) {
			n, err := wholeScore(score)
			if err != nil {
				return match.Result{}, err
			}
			rationale := coerceString(data["rationale"])
			if rationale == "" {
				rationale = coerceString(data["reason"])
			}
			return match.Result{Score: n, Rationale: rationale}, nil
		}
	}

	m := scorePattern.FindStringSubmatch(raw)
	if m == nil {
		return match.Result{}, ErrScoreNotFound
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return match.Result{}, ErrScoreNotFound
	}
	n, err := wholeScore(f)
	if err != nil {
		return match.Result{}, err
	}
	return match.Result{Score: n, Rationale: strings.TrimSpace(raw)}, nil
}

// parseReview reads the review JSON. Free text counts as compliant unless it
// uses one of flaggedTerms, in which case the text becomes the only issue.
func parseReview(raw string) match.PostingReview {
	var data struct {
		Compliant          *bool    `json:"compliant"`
		Issues             []string `json:"issues"`
		RevisedDescription string   `json:"revised_description"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err == nil && data.Compliant != nil {
		issues := make([]string, 0, len(data.Issues))
		for _, it := range data.Issues {
			if it = strings.TrimSpace(it); it != "" {
				issues = append(issues, it)
			}
		}
		return match.PostingReview{
			Compliant:          *data.Compliant,
			Issues:             issues,
			RevisedDescription: strings.TrimSpace(data.RevisedDescription),
		}
	}

	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)
	for _, term := range flaggedTerms {
		if strings.Contains(lower, term) {
			return match.PostingReview{Compliant: false, Issues: []string{text}}
		}
	}
	return match.PostingReview{Compliant: true}
}

func wholeScore(f float64) (int, error) {
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("match score %v is not a whole number", f)
	}
	return int(f), nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", val))
	}
}

func fill(template string, values map[string]string) string {
	out := template
	for k, v := range values {
		out = strings.ReplaceAll(out, "{{"+k+"}}", v)
	}
	return out
}

func jobPayload(j match.JobSummary) map[string]any {
	return map[string]any{
		"title":        j.Title,
		"description":  j.Description,
		"requirements": j.Requirements,
		"location":     j.Location,
		"salary":       salaryRange(j),
	}
}

func candidatePayload(c match.CandidateSummary) map[string]any {
	return map[string]any{
		"name":       c.FullName,
		"bio":        c.Bio,
		"skills":     c.Skills,
		"experience": c.Experience,
		"education":  c.Education,
	}
}

func salaryRange(j match.JobSummary) string {
	if j.SalaryMin == 0 && j.SalaryMax == 0 {
		return "negotiable"
	}
	cur := strings.TrimSpace(j.Currency)
	if cur == "" {
		cur = "USD"
	}
	return fmt.Sprintf("%.0f - %.0f %s", j.SalaryMin, j.SalaryMax, cur)
}

func bullets(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(strings.TrimSpace(it))
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
