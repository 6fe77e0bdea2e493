package usecase

import (
	"context"
	"errors"

	"hireflow/internal/domain/user"
	"hireflow/internal/pkg/jwt"
	ucauth "hireflow/internal/usecase/auth"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// Session is the token pair handed to a client. User is set on register and
// login only.
type Session struct {
	User         user.User
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (Session, error)
	Login(ctx context.Context, in ucauth.LoginInput) (Session, error)
	Refresh(ctx context.Context, refreshToken string) (Session, error)
}

type Auth struct {
	creds  *ucauth.Service
	users  user.Repository
	tokens jwt.Service
}

func NewAuthUsecase(users user.Repository, tokens jwt.Service) *Auth {
	return &Auth{creds: ucauth.NewService(users), users: users, tokens: tokens}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (Session, error) {
	usr, err := u.creds.Register(ctx, in)
	if err != nil {
		return Session{}, err
	}
	return u.session(usr, true)
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (Session, error) {
	usr, err := u.creds.Login(ctx, in)
	if errors.Is(err, ucauth.ErrInactiveAccount) {
		return Session{}, ErrInactiveAccount
	}
	if err != nil {
		return Session{}, err
	}
	return u.session(usr, true)
}

// Refresh exchanges a refresh token for a new pair. The user is reloaded so a
// deactivated account or changed role takes effect immediately.
func (u *Auth) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrUnauthenticated
	}

	claims, err := u.tokens.ValidateRefreshToken(refreshToken)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Session{}, ErrRefreshTokenExpired
	case err != nil:
		return Session{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetUserByID(ctx, claims.UserID)
	switch {
	case errors.Is(err, user.ErrNotFound):
		return Session{}, ErrInvalidRefreshToken
	case err != nil:
		return Session{}, internalErr(err)
	case !usr.IsActive:
		return Session{}, ErrInactiveAccount
	}
	return u.session(usr, false)
}

func (u *Auth) session(usr user.User, withUser bool) (Session, error) {
	access, err := u.tokens.GenerateAccessToken(usr.ID, usr.Email, string(usr.Role()))
	if err != nil {
		return Session{}, internalErr(err)
	}
	refresh, err := u.tokens.GenerateRefreshToken(usr.ID)
	if err != nil {
		return Session{}, internalErr(err)
	}
	s := Session{AccessToken: access, RefreshToken: refresh}
	if withUser {
		s.User = usr
	}
	return s, nil
}
