package seeder

import (
	"context"
	"fmt"
	"strings"

	"hireflow/internal/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AdminSeeder creates the configured administrator once. Empty credentials skip it.
type AdminSeeder struct {
	Email    string
	Password string
	FullName string
}

func (AdminSeeder) Name() string { return "admin_user" }

func (s AdminSeeder) Seed(ctx context.Context, q database.Querier) (int64, error) {
	email := strings.ToLower(strings.TrimSpace(s.Email))
	if email == "" || s.Password == "" {
		return 0, nil
	}
	if err := requireColumns(ctx, q, "users", "id", "email", "password_hash", "full_name", "is_admin", "is_active"); err != nil {
		return 0, err
	}

	fullName := strings.TrimSpace(s.FullName)
	if fullName == "" {
		fullName = "Administrator"
	}
	return insertUser(ctx, q, email, s.Password, fullName, false, true)
}

func insertUser(ctx context.Context, q database.Querier, email, password, fullName string, employer, admin bool) (int64, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}
	return q.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, full_name, is_employer, is_admin, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.New(), email, string(hash), fullName, employer, admin,
	)
}
