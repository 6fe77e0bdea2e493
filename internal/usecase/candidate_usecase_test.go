package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hireflow/internal/domain/candidate"
)

func TestCandidates_UpsertMine(t *testing.T) {
	f := newFixture()
	uc := NewCandidateUsecase(memCandidates{s: f.s}, f.ai, nil)
	ctx := context.Background()

	c, err := uc.UpsertMine(ctx, f.candUser, UpsertCandidateInput{
		Bio:    "Engineer",
		Skills: []string{"Go", "go", " SQL ", ""},
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if c.ID != f.candidate.ID {
		t.Fatalf("expected existing profile id kept")
	}
	if strings.Join(c.Skills, ",") != "Go,SQL" {
		t.Fatalf("unexpected skills: %v", c.Skills)
	}

	if _, err := uc.UpsertMine(ctx, f.employer, UpsertCandidateInput{}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("employer: expected ErrForbidden, got %v", err)
	}
	bad := UpsertCandidateInput{Experience: []candidate.Experience{{Company: "Acme"}}}
	if _, err := uc.UpsertMine(ctx, f.candUser, bad); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCandidates_GenerateBio(t *testing.T) {
	f := newFixture()
	uc := NewCandidateUsecase(memCandidates{s: f.s}, f.ai, nil)
	ctx := context.Background()

	if _, err := uc.GenerateBio(ctx, f.candUser); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("incomplete profile: expected ErrInvalidInput, got %v", err)
	}

	_, err := uc.UpsertMine(ctx, f.candUser, UpsertCandidateInput{
		Skills:     []string{"Go"},
		Experience: []candidate.Experience{{Company: "Acme", Position: "Engineer", Duration: "2y"}},
		Education:  []candidate.Education{{Institution: "State U", Degree: "BSc", Field: "CS", Year: 2019}},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	bio, err := uc.GenerateBio(ctx, f.candUser)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !strings.Contains(bio, "Casey Candidate") {
		t.Fatalf("unexpected bio: %q", bio)
	}

	if _, err := uc.GetMine(ctx, f.outsider); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
