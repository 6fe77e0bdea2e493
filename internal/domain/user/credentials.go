package user

import (
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// MaxPasswordLength is the bcrypt input limit in bytes.
	MaxPasswordLength = 72
)

var (
	ErrInvalidEmail = errors.New("email address is malformed")
	ErrWeakPassword = errors.New("password must be between 8 and 72 bytes")
)

// NormalizeEmail trims and lowercases a bare address. Display names are rejected.
func NormalizeEmail(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", ErrInvalidEmail
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return s, nil
}

func ValidatePassword(pw string) error {
	n := len(strings.TrimSpace(pw))
	if n < MinPasswordLength || len(pw) > MaxPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

type Hasher struct {
	Cost int
}

func (h Hasher) Hash(pw string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (Hasher) Matches(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Public strips secrets before a user leaves the usecase layer.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}
