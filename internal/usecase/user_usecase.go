package usecase

import (
	"context"

	"hireflow/internal/domain/user"
	ucuser "hireflow/internal/usecase/user"

	"github.com/google/uuid"
)

type UserUsecase interface {
	GetMe(ctx context.Context, caller user.User) (user.User, error)
	UpdateMe(ctx context.Context, caller user.User, in ucuser.UpdateMeInput) (user.User, error)
	List(ctx context.Context, caller user.User, limit, offset int) ([]user.User, error)
	SetActive(ctx context.Context, caller user.User, userID uuid.UUID, active bool) (user.User, error)
}

type User struct {
	svc *ucuser.Service
}

func NewUserUsecase(users user.Repository) *User {
	return &User{svc: ucuser.NewService(users)}
}

func (u *User) GetMe(ctx context.Context, caller user.User) (user.User, error) {
	return u.svc.GetMe(ctx, caller.ID)
}

func (u *User) UpdateMe(ctx context.Context, caller user.User, in ucuser.UpdateMeInput) (user.User, error) {
	return u.svc.UpdateMe(ctx, caller.ID, in)
}

func (u *User) List(ctx context.Context, caller user.User, limit, offset int) ([]user.User, error) {
	if !caller.IsAdmin {
		return nil, ErrForbidden
	}
	return u.svc.List(ctx, limit, offset)
}

// SetActive is admin-only; admins cannot deactivate themselves.
func (u *User) SetActive(ctx context.Context, caller user.User, userID uuid.UUID, active bool) (user.User, error) {
	if !caller.IsAdmin {
		return user.User{}, ErrForbidden
	}
	if caller.ID == userID && !active {
		return user.User{}, ErrInvalidInput
	}
	return u.svc.SetActive(ctx, userID, active)
}
