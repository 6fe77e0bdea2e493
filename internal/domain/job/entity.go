package job

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultCurrency = "USD"

var ErrNotFound = errors.New("job posting not found")

type SalaryRange struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// Valid reports whether the range is non-negative and ordered.
func (s SalaryRange) Valid() bool {
	if s.Min < 0 || s.Max < 0 {
		return false
	}
	return s.Min <= s.Max
}

func (s SalaryRange) Normalize() SalaryRange {
	s.Currency = strings.ToUpper(strings.TrimSpace(s.Currency))
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	return s
}

type Posting struct {
	ID           uuid.UUID
	EmployerID   uuid.UUID
	Title        string
	Description  string
	Requirements []string
	Location     string
	Salary       SalaryRange
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Posting) OwnedBy(userID uuid.UUID) bool {
	return userID != uuid.Nil && p.EmployerID == userID
}
