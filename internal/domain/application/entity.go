package application

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

var (
	ErrNotFound          = errors.New("application not found")
	ErrUnknownStatus     = errors.New("unknown application status")
	ErrIllegalTransition = errors.New("illegal application status transition")
)

// transitions lists every allowed status change. Terminal states have no entry.
var transitions = map[Status][]Status{
	StatusPending: {StatusAccepted, StatusRejected},
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return s, nil
	default:
		return "", ErrUnknownStatus
	}
}

func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// CanTransition is the single transition check shared by every entry point.
func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrIllegalTransition
}

type Application struct {
	ID             uuid.UUID
	JobID          uuid.UUID
	CandidateID    uuid.UUID
	Status         Status
	MatchScore     *int
	MatchRationale string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
