package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"hireflow/internal/domain/user"
	"hireflow/internal/pkg/jwt"
	ucauth "hireflow/internal/usecase/auth"

	"github.com/google/uuid"
)

func TestIdentity_Authenticate(t *testing.T) {
	f := newFixture()
	uc := NewIdentityUsecase(memUsers{s: f.s})
	ctx := context.Background()

	u, err := uc.Authenticate(ctx, f.employer.ID)
	if err != nil || u.ID != f.employer.ID {
		t.Fatalf("unexpected result: %v, %+v", err, u)
	}

	inactive := f.candUser
	inactive.IsActive = false
	f.s.users[inactive.ID] = inactive
	if _, err := uc.Authenticate(ctx, inactive.ID); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
	if _, err := uc.Authenticate(ctx, f.job.ID); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestUsers_AdminOperations(t *testing.T) {
	f := newFixture()
	uc := NewUserUsecase(memUsers{s: f.s})
	ctx := context.Background()

	if _, err := uc.List(ctx, f.employer, 10, 0); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	all, err := uc.List(ctx, f.admin, 10, 0)
	if err != nil || len(all) != 4 {
		t.Fatalf("unexpected list: %v, %d", err, len(all))
	}

	if _, err := uc.SetActive(ctx, f.employer, f.candUser.ID, false); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := uc.SetActive(ctx, f.admin, f.admin.ID, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-deactivation, got %v", err)
	}
	u, err := uc.SetActive(ctx, f.admin, f.candUser.ID, false)
	if err != nil || u.IsActive {
		t.Fatalf("expected deactivated user, got %v, %+v", err, u)
	}
}

func TestAuth_LoginInactive(t *testing.T) {
	f := newFixture()
	users := memUsers{s: f.s}
	tokens := jwt.NewHMACService("a", "r", time.Minute, time.Hour)
	uc := NewAuthUsecase(users, tokens)
	ctx := context.Background()

	sess, err := uc.Register(ctx, ucauth.RegisterInput{
		Email:      "New@Example.com",
		Password:   "password123",
		FullName:   "New Person",
		IsEmployer: true,
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	usr, access, refresh := sess.User, sess.AccessToken, sess.RefreshToken
	if usr.Email != "new@example.com" || usr.PasswordHash != "" || access == "" || refresh == "" {
		t.Fatalf("unexpected register result: %+v", usr)
	}
	claims, err := tokens.ValidateAccessToken(access)
	if err != nil || claims.Role != string(user.RoleEmployer) {
		t.Fatalf("unexpected claims: %v, %+v", err, claims)
	}

	renewed, err := uc.Refresh(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if renewed.AccessToken == "" || renewed.User.ID != uuid.Nil {
		t.Fatalf("unexpected refreshed session: %+v", renewed)
	}

	if err := users.SetActive(ctx, usr.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err = uc.Login(ctx, ucauth.LoginInput{Email: "new@example.com", Password: "password123"})
	if !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount, got %v", err)
	}
	if _, err := uc.Refresh(ctx, refresh); !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("expected ErrInactiveAccount on refresh, got %v", err)
	}
	if _, err := uc.Refresh(ctx, access); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for access token, got %v", err)
	}
}
