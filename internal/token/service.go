// Package token mints and validates the signed access/refresh token pair.
//
// Tokens are stateless HS256 JWTs carrying the user id, the role and a kind
// discriminator. There is no server-side revocation list: a signed token
// stays valid until its own expiry.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/gazette-news/gazette/internal/authz"
)

// Kind discriminates the two token flavours. It travels as a claim so a
// refresh token can never be replayed through the access-token slot.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Typed decode failures. Callers must collapse these to a single generic
// outcome before anything leaves the process; the kind is for logs only.
var (
	ErrExpired          = errors.New("token: expired")
	ErrInvalidSignature = errors.New("token: invalid signature")
	ErrMalformed        = errors.New("token: malformed")
	ErrMissingClaim     = errors.New("token: missing claim")
)

// Claims is the payload carried by both token kinds.
type Claims struct {
	jwt.RegisteredClaims

	UserID    string `json:"uid"`
	RoleName  string `json:"rol"`
	TokenKind Kind   `json:"knd"`
}

// Role parses the role claim against the closed role set.
func (c *Claims) Role() (authz.Role, error) {
	return authz.ParseRole(c.RoleName)
}

// Config holds the signing material and lifetimes for a Service. It is
// constructed explicitly and injected, never read from ambient state, so
// tests can run with distinct keys.
type Config struct {
	Secret     []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Service signs and verifies token pairs.
type Service struct {
	cfg Config
}

// NewService validates the configuration and returns a Service.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: signing secret required")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token: token lifetimes must be positive")
	}
	if cfg.AccessTTL >= cfg.RefreshTTL {
		return nil, errors.New("token: access lifetime must be shorter than refresh lifetime")
	}
	return &Service{cfg: cfg}, nil
}

// Pair bundles a freshly issued access/refresh token couple.
type Pair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// Issue mints a brand new access+refresh pair for the user. Both tokens
// carry a unique jti, so two pairs for the same user are never identical.
func (s *Service) Issue(userID string, role authz.Role) (Pair, error) {
	if !role.Valid() {
		return Pair{}, fmt.Errorf("token: refusing to sign unknown role %q", role)
	}
	now := time.Now()

	access, accessExp, err := s.sign(userID, role, KindAccess, now, s.cfg.AccessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, refreshExp, err := s.sign(userID, role, KindRefresh, now, s.cfg.RefreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *Service) sign(userID string, role authz.Role, kind Kind, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:    userID,
		RoleName:  string(role),
		TokenKind: kind,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token: sign: %w", err)
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature and expiry of a token string and checks it
// is of the expected kind. Failures come back as one of the typed errors
// above.
func (s *Service) Decode(tokenString string, kind Kind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
			return nil, ErrMissingClaim
		default:
			return nil, ErrMalformed
		}
	}

	if claims.UserID == "" || claims.RoleName == "" {
		return nil, ErrMissingClaim
	}
	if _, err := claims.Role(); err != nil {
		return nil, ErrMissingClaim
	}
	if claims.TokenKind != kind {
		return nil, ErrMalformed
	}
	return claims, nil
}
