package main

import (
	"context"
	"time"

	"hireflow/internal/database/migration"
	dbpostgres "hireflow/internal/database/postgres"
	"hireflow/internal/database/seeder"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply embedded database migrations",
	RunE:  migrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().Bool("seed", false, "create the configured admin user after migrating")
	migrateCmd.Flags().Bool("demo", false, "with --seed, also insert demo employer, candidate and job postings")
	migrateCmd.Flags().Bool("status", false, "list migrations and whether they are applied, without running them")
}

func migrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	runner := migration.Runner{Logger: log.Named("migration")}
	if status, _ := cmd.Flags().GetBool("status"); status {
		states, err := runner.Status(ctx, db.SQLDB())
		if err != nil {
			return err
		}
		for _, s := range states {
			if s.AppliedAt == nil {
				log.Info("pending", zap.Int64("version", s.Version), zap.String("name", s.Name))
				continue
			}
			log.Info("applied", zap.Int64("version", s.Version), zap.String("name", s.Name), zap.Time("at", *s.AppliedAt))
		}
		return nil
	}

	applied, err := runner.Run(ctx, db.SQLDB())
	if err != nil {
		return err
	}
	log.Info("migrations complete", zap.Int("applied", applied))

	if seed, _ := cmd.Flags().GetBool("seed"); seed {
		demo, _ := cmd.Flags().GetBool("demo")
		inserted, err := seeder.Runner{Seeders: seeder.Defaults(cfg.Admin, demo), Logger: log.Named("seeder")}.Run(ctx, db)
		if err != nil {
			return err
		}
		log.Info("seeding complete", zap.Int64("inserted", inserted))
	}
	return nil
}
