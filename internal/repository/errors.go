package repository

import (
	"errors"
	"fmt"

	"hireflow/internal/database"
)

var (
	// ErrDuplicate wraps unique-constraint violations.
	ErrDuplicate = errors.New("duplicate record")
	// ErrStaleStatus is returned when a conditional status write finds a different current status.
	ErrStaleStatus = errors.New("status changed concurrently")
)

func clampPage(limit, offset, def, max int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicate, database.ConstraintName(err))
	}
	return err
}
