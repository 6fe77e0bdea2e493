package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hireflow/internal/domain/user"
	"hireflow/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInactiveAccount        = errors.New("account is inactive")
	ErrInvalidInput           = errors.New("invalid input")
	ErrInternal               = errors.New("internal error")
)

// dummyHash is checked for unknown emails so every login costs one bcrypt comparison.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z5hTj0p6lG5wW2N8Xn3q6mXK"

type RegisterInput struct {
	Email      string
	Password   string
	FullName   string
	IsEmployer bool
}

type LoginInput struct {
	Email    string
	Password string
}

type Service struct {
	users  user.Repository
	hasher user.Hasher
}

func NewService(users user.Repository) *Service {
	return &Service{users: users}
}

// WithHasher overrides the bcrypt cost, mainly for tests.
func (s *Service) WithHasher(h user.Hasher) *Service {
	s.hasher = h
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	email, err := user.NormalizeEmail(in.Email)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := user.ValidatePassword(in.Password); err != nil {
		return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	fullName := strings.Join(strings.Fields(in.FullName), " ")
	if fullName == "" {
		return user.User{}, fmt.Errorf("%w: full name is required", ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: hash password: %v", ErrInternal, err)
	}

	u := user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		IsEmployer:   in.IsEmployer,
		IsActive:     true,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return user.User{}, ErrEmailAlreadyRegistered
		}
		return user.User{}, fmt.Errorf("%w: create user: %v", ErrInternal, err)
	}

	created, err := s.users.GetUserByID(ctx, u.ID)
	if err != nil {
		return user.User{}, fmt.Errorf("%w: reload user: %v", ErrInternal, err)
	}
	return created.Public(), nil
}

// Login never reveals whether the email exists. The active check follows the password check.
func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	email, err := user.NormalizeEmail(in.Email)
	if err != nil || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case errors.Is(err, user.ErrNotFound):
		s.hasher.Matches(dummyHash, in.Password)
		return user.User{}, ErrInvalidCredentials
	case err != nil:
		return user.User{}, fmt.Errorf("%w: load user: %v", ErrInternal, err)
	}

	if !s.hasher.Matches(u.PasswordHash, in.Password) {
		return user.User{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		return user.User{}, ErrInactiveAccount
	}
	return u.Public(), nil
}
