package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hireflow/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("user not found")
	ErrInternal     = errors.New("internal error")
)

// UpdateMeInput is a partial update; nil fields are left alone.
type UpdateMeInput struct {
	FullName *string
	Password *string
}

type Service struct {
	users  user.Repository
	hasher user.Hasher
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) GetMe(ctx context.Context, userID uuid.UUID) (user.User, error) {
	u, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	return u.Public(), nil
}

func (s *Service) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateMeInput) (user.User, error) {
	if in.FullName == nil && in.Password == nil {
		return user.User{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	u, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if in.FullName != nil {
		name := strings.Join(strings.Fields(*in.FullName), " ")
		if name == "" {
			return user.User{}, fmt.Errorf("%w: full name is required", ErrInvalidInput)
		}
		u.FullName = name
	}
	if in.Password != nil {
		if err := user.ValidatePassword(*in.Password); err != nil {
			return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return user.User{}, fmt.Errorf("%w: hash password: %v", ErrInternal, err)
		}
		u.PasswordHash = hash
	}

	if err := s.users.UpdateUser(ctx, u); err != nil {
		return user.User{}, s.mapErr(err)
	}
	return s.GetMe(ctx, userID)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]user.User, error) {
	if limit < 0 || offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", ErrInvalidInput)
	}
	items, err := s.users.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, s.mapErr(err)
	}
	out := make([]user.User, 0, len(items))
	for _, u := range items {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *Service) SetActive(ctx context.Context, userID uuid.UUID, active bool) (user.User, error) {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return user.User{}, s.mapErr(err)
	}
	return s.GetMe(ctx, userID)
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (user.User, error) {
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return user.User{}, s.mapErr(err)
	}
	return u, nil
}

func (s *Service) mapErr(err error) error {
	if errors.Is(err, user.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
