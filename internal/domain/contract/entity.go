package contract

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft  Status = "draft"
	StatusSent   Status = "sent"
	StatusSigned Status = "signed"
)

type Party string

const (
	PartyEmployer  Party = "employer"
	PartyCandidate Party = "candidate"
)

var (
	ErrNotFound          = errors.New("contract not found")
	ErrUnknownStatus     = errors.New("unknown contract status")
	ErrIllegalTransition = errors.New("illegal contract status transition")
	// ErrDerivedStatus is returned for direct writes of the signed status.
	ErrDerivedStatus = errors.New("signed status is derived from both signatures")
)

// directTransitions are the status changes a party may request explicitly.
// Signed is reachable only through signatures.
var directTransitions = map[Status][]Status{
	StatusDraft: {StatusSent},
}

func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusDraft, StatusSent, StatusSigned:
		return s, nil
	default:
		return "", ErrUnknownStatus
	}
}

func CanTransition(from, to Status) error {
	if to == StatusSigned {
		return ErrDerivedStatus
	}
	for _, next := range directTransitions[from] {
		if next == to {
			return nil
		}
	}
	return ErrIllegalTransition
}

type Contract struct {
	ID                uuid.UUID
	ApplicationID     uuid.UUID
	Content           string
	Status            Status
	SignedByEmployer  bool
	SignedByCandidate bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func New(applicationID uuid.UUID, content string) Contract {
	return Contract{
		ID:            uuid.New(),
		ApplicationID: applicationID,
		Content:       content,
		Status:        StatusDraft,
	}
}

func (c Contract) SignedBy(p Party) bool {
	switch p {
	case PartyEmployer:
		return c.SignedByEmployer
	case PartyCandidate:
		return c.SignedByCandidate
	default:
		return false
	}
}

// FullySigned reports whether both parties have signed. Storage derives
// StatusSigned from the same condition when a signature is recorded.
func (c Contract) FullySigned() bool {
	return c.SignedByEmployer && c.SignedByCandidate
}
