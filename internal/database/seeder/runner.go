package seeder

import (
	"context"
	"errors"
	"fmt"

	"hireflow/internal/database"

	"go.uber.org/zap"
)

var errNilDB = errors.New("seeder: nil db")

// Runner applies seeders in order, each in its own transaction.
type Runner struct {
	Seeders []Seeder
	Logger  *zap.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) (int64, error) {
	if db == nil {
		return 0, errNilDB
	}
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var total int64
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		var inserted int64
		err := database.WithTx(ctx, db, func(tx database.Tx) error {
			n, err := s.Seed(ctx, tx)
			inserted = n
			return err
		})
		if err != nil {
			return total, fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		log.Info("seeder applied", zap.String("seeder", s.Name()), zap.Int64("inserted", inserted))
		total += inserted
	}
	return total, nil
}
