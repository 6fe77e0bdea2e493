package seeder

import (
	"context"

	"hireflow/internal/database"
)

// Seeder writes reference data. Seed reports how many rows it inserted and must be idempotent.
type Seeder interface {
	Name() string
	Seed(ctx context.Context, q database.Querier) (int64, error)
}
