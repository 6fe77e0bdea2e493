package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

const Issuer = "hireflow"

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrNotConfigured  = errors.New("token signing not configured")
)

// Claims carries the identity of the token holder. Refresh tokens leave Email
// and Role empty; the role is reloaded from storage when they are exchanged.
type Claims struct {
	UserID    uuid.UUID `json:"uid"`
	Email     string    `json:"email,omitempty"`
	Role      string    `json:"role,omitempty"`
	TokenType string    `json:"typ"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateAccessToken(userID uuid.UUID, email, role string) (string, error)
	GenerateRefreshToken(userID uuid.UUID) (string, error)
	ValidateAccessToken(token string) (Claims, error)
	ValidateRefreshToken(token string) (Claims, error)
}

// signingKey pairs a secret with the lifetime of the tokens it signs.
type signingKey struct {
	secret []byte
	ttl    time.Duration
}

func (k signingKey) usable() bool { return len(k.secret) > 0 && k.ttl > 0 }

// HMACService signs HS256 tokens. Access and refresh tokens use separate
// secrets so one kind can never be replayed as the other.
type HMACService struct {
	keys map[string]signingKey
	now  func() time.Time
}

func NewHMACService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *HMACService {
	return &HMACService{
		keys: map[string]signingKey{
			TokenTypeAccess:  {secret: []byte(accessSecret), ttl: accessTTL},
			TokenTypeRefresh: {secret: []byte(refreshSecret), ttl: refreshTTL},
		},
		now: time.Now,
	}
}

func (s *HMACService) GenerateAccessToken(userID uuid.UUID, email, role string) (string, error) {
	return s.sign(Claims{UserID: userID, Email: email, Role: role, TokenType: TokenTypeAccess})
}

func (s *HMACService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.sign(Claims{UserID: userID, TokenType: TokenTypeRefresh})
}

func (s *HMACService) ValidateAccessToken(token string) (Claims, error) {
	return s.verify(token, TokenTypeAccess)
}

func (s *HMACService) ValidateRefreshToken(token string) (Claims, error) {
	return s.verify(token, TokenTypeRefresh)
}

func (s *HMACService) sign(c Claims) (string, error) {
	key, ok := s.keys[c.TokenType]
	if !ok || !key.usable() {
		return "", ErrNotConfigured
	}

	now := s.now().UTC()
	c.RegisteredClaims = jwtlib.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    Issuer,
		Subject:   c.UserID.String(),
		IssuedAt:  jwtlib.NewNumericDate(now),
		ExpiresAt: jwtlib.NewNumericDate(now.Add(key.ttl)),
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(key.secret)
}

// verify checks the signature with the key of the expected kind. A token of the
// other kind fails the signature check, and is reported as ErrWrongTokenType
// when it verifies under the other key.
func (s *HMACService) verify(token, kind string) (Claims, error) {
	c, err := s.parse(token, kind)
	if err == nil {
		if c.TokenType != kind {
			return Claims{}, ErrWrongTokenType
		}
		return c, nil
	}
	if errors.Is(err, ErrTokenExpired) {
		return Claims{}, err
	}

	other := TokenTypeRefresh
	if kind == TokenTypeRefresh {
		other = TokenTypeAccess
	}
	if _, otherErr := s.parse(token, other); otherErr == nil {
		return Claims{}, ErrWrongTokenType
	}
	return Claims{}, err
}

func (s *HMACService) parse(token, kind string) (Claims, error) {
	key, ok := s.keys[kind]
	if !ok || len(key.secret) == 0 {
		return Claims{}, ErrNotConfigured
	}

	parser := jwtlib.NewParser(
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
		jwtlib.WithIssuer(Issuer),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(s.now),
	)

	var c Claims
	_, err := parser.ParseWithClaims(token, &c, func(*jwtlib.Token) (any, error) {
		return key.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwtlib.ErrTokenExpired):
		return Claims{}, ErrTokenExpired
	default:
		return Claims{}, ErrTokenInvalid
	}
	if c.UserID == uuid.Nil {
		return Claims{}, ErrTokenInvalid
	}
	return c, nil
}
