package candidate

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("candidate profile not found")

type Experience struct {
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Year        int    `json:"year"`
}

type Candidate struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Bio        string
	Skills     []string
	Experience []Experience
	Education  []Education
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c Candidate) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && c.UserID == userID
}

// NormalizeSkills trims entries and drops case-insensitive duplicates, keeping first-seen order.
func NormalizeSkills(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
