package usecase

import (
	"context"
	"errors"

	"hireflow/internal/domain/user"

	"github.com/google/uuid"
)

type IdentityUsecase interface {
	Authenticate(ctx context.Context, userID uuid.UUID) (user.User, error)
}

type Identity struct {
	users user.Repository
}

func NewIdentityUsecase(users user.Repository) *Identity {
	return &Identity{users: users}
}

// Authenticate resolves a token subject to a live, active user.
func (u *Identity) Authenticate(ctx context.Context, userID uuid.UUID) (user.User, error) {
	if userID == uuid.Nil {
		return user.User{}, ErrUnauthenticated
	}
	usr, err := u.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrUnauthenticated
		}
		return user.User{}, internalErr(err)
	}
	if !usr.IsActive {
		return user.User{}, ErrInactiveAccount
	}
	usr.PasswordHash = ""
	return usr, nil
}
