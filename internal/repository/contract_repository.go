package repository

import (
	"context"
	"errors"
	"fmt"

	"hireflow/internal/database"
	"hireflow/internal/domain/application"
	"hireflow/internal/domain/contract"

	"github.com/google/uuid"
)

type ContractRepository interface {
	Create(ctx context.Context, c contract.Contract) error
	// CreateForAcceptance moves the application from pending to accepted and
	// inserts its draft contract in one transaction.
	CreateForAcceptance(ctx context.Context, c contract.Contract) (application.Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (contract.Contract, error)
	GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (contract.Contract, error)
	ExistsForApplication(ctx context.Context, applicationID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to contract.Status) (contract.Contract, error)
	// SetSignature sets the party's flag and derives signed in the same statement.
	SetSignature(ctx context.Context, id uuid.UUID, party contract.Party) (contract.Contract, error)
}

const contractColumns = `id, application_id, content, status, signed_by_employer, signed_by_candidate, created_at, updated_at`

// Column names are fixed per party, never taken from input.
var signatureQueries = map[contract.Party]string{
	contract.PartyEmployer: `UPDATE contracts
		 SET signed_by_employer = TRUE,
			status = CASE WHEN signed_by_candidate THEN 'signed' ELSE status END,
			updated_at = now()
		 WHERE id = $1
		 RETURNING ` + contractColumns,
	contract.PartyCandidate: `UPDATE contracts
		 SET signed_by_candidate = TRUE,
			status = CASE WHEN signed_by_employer THEN 'signed' ELSE status END,
			updated_at = now()
		 WHERE id = $1
		 RETURNING ` + contractColumns,
}

type PostgresContractRepository struct {
	db database.DB
}

func NewPostgresContractRepository(db database.DB) *PostgresContractRepository {
	return &PostgresContractRepository{db: db}
}

func (r *PostgresContractRepository) Create(ctx context.Context, c contract.Contract) error {
	return insertContract(ctx, r.db, c)
}

func (r *PostgresContractRepository) CreateForAcceptance(ctx context.Context, c contract.Contract) (application.Application, error) {
	var accepted application.Application
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		a, err := updateApplicationStatus(ctx, tx, c.ApplicationID, application.StatusPending, application.StatusAccepted)
		if err != nil {
			return err
		}
		if err := insertContract(ctx, tx, c); err != nil {
			return err
		}
		accepted = a
		return nil
	})
	if err != nil {
		return application.Application{}, err
	}
	return accepted, nil
}

func (r *PostgresContractRepository) GetByID(ctx context.Context, id uuid.UUID) (contract.Contract, error) {
	row := r.db.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id)
	return scanContract(row)
}

func (r *PostgresContractRepository) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (contract.Contract, error) {
	row := r.db.QueryRow(ctx, `SELECT `+contractColumns+` FROM contracts WHERE application_id = $1`, applicationID)
	return scanContract(row)
}

func (r *PostgresContractRepository) ExistsForApplication(ctx context.Context, applicationID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM contracts WHERE application_id = $1)`, applicationID)
	if err := row.Scan(&exists); err != nil {
		if database.IsNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

func (r *PostgresContractRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to contract.Status) (contract.Contract, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE contracts
		 SET status = $3, updated_at = now()
		 WHERE id = $1 AND status = $2
		 RETURNING `+contractColumns,
		id, string(from), string(to),
	)
	c, err := scanContract(row)
	if errors.Is(err, contract.ErrNotFound) {
		return contract.Contract{}, ErrStaleStatus
	}
	return c, err
}

func (r *PostgresContractRepository) SetSignature(ctx context.Context, id uuid.UUID, party contract.Party) (contract.Contract, error) {
	query, ok := signatureQueries[party]
	if !ok {
		return contract.Contract{}, fmt.Errorf("unknown contract party %q", party)
	}
	return scanContract(r.db.QueryRow(ctx, query, id))
}

func insertContract(ctx context.Context, q database.Querier, c contract.Contract) error {
	_, err := q.Exec(ctx,
		`INSERT INTO contracts (id, application_id, content, status, signed_by_employer, signed_by_candidate)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, c.ApplicationID, c.Content, string(c.Status), c.SignedByEmployer, c.SignedByCandidate,
	)
	return mapWriteErr(err)
}

func scanContract(row database.Row) (contract.Contract, error) {
	var (
		c      contract.Contract
		status string
	)
	err := row.Scan(&c.ID, &c.ApplicationID, &c.Content, &status, &c.SignedByEmployer, &c.SignedByCandidate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if database.IsNoRows(err) {
			return contract.Contract{}, contract.ErrNotFound
		}
		return contract.Contract{}, err
	}
	c.Status = contract.Status(status)
	return c, nil
}
