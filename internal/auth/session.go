package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the result of a successful credential or token verification.
// It carries a reference to the user only, never the credential.
type Identity struct {
	UserID string
	Email  string
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// SessionIssuer mints and validates signed session tokens. Validation is
// stateless: validity is determined solely by signature and expiry.
type SessionIssuer struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	now    func() time.Time
}

// NewSessionIssuer fails when the signing secret is empty. That check runs
// once at startup; issuance itself has no per-request failure mode short of
// a broken signer.
func NewSessionIssuer(secret []byte, ttl time.Duration) (*SessionIssuer, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionIssuer{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// WithLeeway sets the clock-skew allowance applied during validation.
// The default is zero.
func (s *SessionIssuer) WithLeeway(leeway time.Duration) *SessionIssuer {
	s.leeway = leeway
	return s
}

func (s *SessionIssuer) Issue(id Identity) (string, error) {
	return s.IssueWithTTL(id, s.ttl)
}

func (s *SessionIssuer) IssueWithTTL(id Identity, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: id.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Validate checks signature and expiry and returns the embedded identity.
// Failures are reported as ErrInvalidSignature, ErrTokenExpired, or
// ErrTokenMalformed.
func (s *SessionIssuer) Validate(tokenString string) (Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(s.leeway),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
			return Identity{}, ErrInvalidSignature
		default:
			return Identity{}, ErrTokenMalformed
		}
	}
	if !token.Valid || claims.Subject == "" {
		return Identity{}, ErrTokenMalformed
	}
	return Identity{UserID: claims.Subject, Email: claims.Email}, nil
}
