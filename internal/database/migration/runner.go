package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"go.uber.org/zap"
)

// lockKey serialises concurrent runners through a postgres advisory lock.
const lockKey int64 = 582019374

var ErrChecksumMismatch = errors.New("migration checksum mismatch")

const createTableSQL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type Runner struct {
	FS     fs.FS
	Logger *zap.Logger
}

// State reports whether a known migration has been applied.
type State struct {
	Migration
	AppliedAt *time.Time
}

// Run applies pending migrations in version order and returns how many ran.
// Applied migrations whose file content changed abort the run.
func (r Runner) Run(ctx context.Context, db *sql.DB) (int, error) {
	migs, err := r.load()
	if err != nil || len(migs) == 0 {
		return 0, err
	}

	ran := 0
	err = withLockedConn(ctx, db, func(conn *sql.Conn) error {
		applied, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		for _, m := range migs {
			if prev, ok := applied[m.Version]; ok {
				if prev.checksum != m.Checksum {
					return fmt.Errorf("%w: %s", ErrChecksumMismatch, m.Filename)
				}
				continue
			}
			if err := apply(ctx, conn, m); err != nil {
				return err
			}
			r.logger().Info("migration applied", zap.Int64("version", m.Version), zap.String("name", m.Name))
			ran++
		}
		return nil
	})
	return ran, err
}

// Status lists every known migration with its applied time, nil when pending.
func (r Runner) Status(ctx context.Context, db *sql.DB) ([]State, error) {
	migs, err := r.load()
	if err != nil {
		return nil, err
	}
	if db == nil {
		return nil, errors.New("migration: nil db")
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return nil, err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	applied, err := appliedVersions(ctx, conn)
	if err != nil {
		return nil, err
	}
	out := make([]State, 0, len(migs))
	for _, m := range migs {
		s := State{Migration: m}
		if prev, ok := applied[m.Version]; ok {
			at := prev.at
			s.AppliedAt = &at
		}
		out = append(out, s)
	}
	return out, nil
}

func (r Runner) load() ([]Migration, error) {
	src := r.FS
	if src == nil {
		src = Embedded()
	}
	return Load(src)
}

func (r Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

// withLockedConn pins one connection, since session advisory locks are held per
// connection, and runs fn while holding the lock.
func withLockedConn(ctx context.Context, db *sql.DB, fn func(*sql.Conn) error) error {
	if db == nil {
		return errors.New("migration: nil db")
	}
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return err
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, lockKey); err != nil {
		return err
	}
	defer func() {
		_, _ = conn.ExecContext(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, lockKey)
	}()

	return fn(conn)
}

type appliedRow struct {
	checksum string
	at       time.Time
}

func appliedVersions(ctx context.Context, conn *sql.Conn) (map[int64]appliedRow, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version, checksum, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]appliedRow)
	for rows.Next() {
		var v int64
		var row appliedRow
		if err := rows.Scan(&v, &row.checksum, &row.at); err != nil {
			return nil, err
		}
		out[v] = row
	}
	return out, rows.Err()
}

func apply(ctx context.Context, conn *sql.Conn, m Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return fmt.Errorf("migration %s: %w", m.Filename, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version, name, checksum) VALUES ($1, $2, $3)`,
		m.Version, m.Name, m.Checksum,
	); err != nil {
		return err
	}
	return tx.Commit()
}
