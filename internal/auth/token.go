package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
)

// TokenTTL is the lifetime of a session token.
const TokenTTL = 24 * time.Hour

const msgInvalidToken = "invalid or expired token"

// Failure reasons attached to token verification errors. They are logged,
// never sent to the caller.
const (
	ReasonMalformed      = "malformed"
	ReasonBadSignature   = "bad signature"
	ReasonExpired        = "expired"
	ReasonInvalidSubject = "invalid subject"
	ReasonInvalid        = "invalid"
)

// Claims is the decoded session token payload.
type Claims struct {
	Subject   uuid.UUID
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 session tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a token service signing with secret.
func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: TokenTTL, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.now = now
	return &clone
}

// Issue signs a token for subject that expires TokenTTL from now.
func (s *TokenService) Issue(subject uuid.UUID) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(s.ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperror.Internal("sign session token", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its claims.
func (s *TokenService) Verify(token string) (Claims, error) {
	var registered jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &registered,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return Claims{}, apperror.Unauthorized(msgInvalidToken, reasonFor(err))
	}

	subject, err := uuid.Parse(registered.Subject)
	if err != nil {
		return Claims{}, apperror.Unauthorized(msgInvalidToken, ReasonInvalidSubject)
	}

	return Claims{Subject: subject, ExpiresAt: registered.ExpiresAt.Time}, nil
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ReasonMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ReasonBadSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ReasonExpired
	default:
		return ReasonInvalid
	}
}
