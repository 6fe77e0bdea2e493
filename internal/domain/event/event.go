package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	ApplicationSubmitted     Type = "application.submitted"
	ApplicationStatusChanged Type = "application.status_changed"
	ContractGenerated        Type = "contract.generated"
	ContractStatusChanged    Type = "contract.status_changed"
	ContractSigned           Type = "contract.signed"
)

type Event struct {
	Type          Type        `json:"type"`
	ApplicationID uuid.UUID   `json:"application_id"`
	ContractID    *uuid.UUID  `json:"contract_id,omitempty"`
	Status        string      `json:"status"`
	Recipients    []uuid.UUID `json:"-"`
	Timestamp     time.Time   `json:"timestamp"`
}

func New(t Type, applicationID uuid.UUID, status string, recipients ...uuid.UUID) Event {
	return Event{
		Type:          t,
		ApplicationID: applicationID,
		Status:        status,
		Recipients:    recipients,
		Timestamp:     time.Now().UTC(),
	}
}

func (e Event) WithContract(id uuid.UUID) Event {
	e.ContractID = &id
	return e
}
