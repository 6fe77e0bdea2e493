package search

import (
	"sort"
	"strings"
	"time"

	"hireflow/internal/domain/job"
)

type Score struct {
	Relevance    float64
	Freshness    float64
	Completeness float64
	Final        float64
}

// Relevance weighs hits in the title over requirements, description and location. Capped at 10.
func Relevance(p job.Posting, variants []string) float64 {
	if len(variants) == 0 {
		return 0
	}

	title := strings.ToLower(p.Title)
	desc := strings.ToLower(p.Description)
	loc := strings.ToLower(p.Location)
	reqs := strings.ToLower(strings.Join(p.Requirements, "\n"))

	score := 0.0
	for _, v := range variants {
		if v == "" {
			continue
		}
		if strings.Contains(title, v) {
			score += 3
		}
		if strings.Contains(reqs, v) {
			score += 2
		}
		if strings.Contains(desc, v) {
			score++
		}
		if strings.Contains(loc, v) {
			score++
		}
		if score >= 10 {
			return 10
		}
	}
	return score
}

func Freshness(p job.Posting, now time.Time) float64 {
	t := p.UpdatedAt
	if t.IsZero() {
		t = p.CreatedAt
	}
	if t.IsZero() {
		return 0
	}

	age := now.Sub(t)
	switch {
	case age <= 24*time.Hour:
		return 5
	case age <= 3*24*time.Hour:
		return 4
	case age <= 7*24*time.Hour:
		return 3
	case age <= 14*24*time.Hour:
		return 2
	case age <= 30*24*time.Hour:
		return 1
	default:
		return 0
	}
}

func Completeness(p job.Posting) float64 {
	score := 0.0
	if len(strings.TrimSpace(p.Description)) > 100 {
		score++
	}
	if strings.TrimSpace(p.Location) != "" {
		score++
	}
	if len(p.Requirements) > 0 {
		score++
	}
	if p.Salary.Max > 0 {
		score++
	}
	return score
}

func ScorePosting(p job.Posting, variants []string, now time.Time) Score {
	s := Score{
		Relevance:    Relevance(p, variants),
		Freshness:    Freshness(p, now),
		Completeness: Completeness(p),
	}
	s.Final = s.Relevance*2 + s.Freshness*1.5 + s.Completeness*0.5
	return s
}

// Rank drops postings with no relevance and orders the rest by final score.
// Ties keep the input order.
func Rank(postings []job.Posting, variants []string, now time.Time) []job.Posting {
	type scored struct {
		p     job.Posting
		score float64
	}

	kept := make([]scored, 0, len(postings))
	for _, p := range postings {
		s := ScorePosting(p, variants, now)
		if s.Relevance == 0 {
			continue
		}
		kept = append(kept, scored{p: p, score: s.Final})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].score > kept[j].score
	})

	out := make([]job.Posting, 0, len(kept))
	for _, k := range kept {
		out = append(out, k.p)
	}
	return out
}
