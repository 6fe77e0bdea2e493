package usecase

import (
	"context"

	"hireflow/internal/domain/event"
	"hireflow/internal/domain/match"
)

// TextGenerationService is the external language model. Any call may fail.
type TextGenerationService interface {
	ScoreMatch(ctx context.Context, job match.JobSummary, cand match.CandidateSummary) (match.Result, error)
	GenerateContractText(ctx context.Context, job match.JobSummary, cand match.CandidateSummary) (string, error)
	GenerateJobDescription(ctx context.Context, req match.JobDescriptionRequest) (string, error)
	GenerateCandidateBio(ctx context.Context, cand match.CandidateSummary) (string, error)
	ReviewJobPosting(ctx context.Context, job match.JobSummary) (match.PostingReview, error)
}

// Notifier delivers a message on a best-effort basis.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, e event.Event) error
}

type DocumentRenderer interface {
	RenderPDF(ctx context.Context, title, body string) ([]byte, error)
}

type CompanyInfoFetcher interface {
	FetchAbout(ctx context.Context, url string) (string, error)
}
