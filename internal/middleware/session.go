package middleware

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
	"github.com/tiny-bank/tiny_bank/internal/auth"
	"github.com/tiny-bank/tiny_bank/internal/identity"
)

const bearerPrefix = "Bearer "

// TokenVerifier decodes a session token.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// IdentityLookup resolves a token subject to a stored identity.
type IdentityLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (identity.Identity, error)
}

// IdentityHandler is a protected handler that receives the caller's identity.
type IdentityHandler func(c *fiber.Ctx, caller identity.Identity) error

// SessionGuard gates protected routes on a valid bearer token whose subject
// still exists.
type SessionGuard struct {
	tokens     TokenVerifier
	identities IdentityLookup
	logger     *slog.Logger
}

func NewSessionGuard(tokens TokenVerifier, identities IdentityLookup, logger *slog.Logger) *SessionGuard {
	return &SessionGuard{tokens: tokens, identities: identities, logger: logger}
}

// Resolve turns an Authorization header value into the identity it names.
// The header shape is checked before the token is decoded.
func (g *SessionGuard) Resolve(ctx context.Context, header string) (identity.Identity, error) {
	if header == "" {
		return identity.Identity{}, apperror.Unauthorized("Missing Authorization header", "no header")
	}
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" {
		return identity.Identity{}, apperror.Unauthorized("Invalid Authorization header format", "not a bearer header")
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return identity.Identity{}, err
	}

	caller, err := g.identities.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return identity.Identity{}, apperror.Unauthorized("User from token not found", "referent not found")
		}
		return identity.Identity{}, apperror.Storage("find identity by id", err)
	}
	return caller, nil
}

// Protect wraps next so it only runs for an authenticated caller, who is
// passed in explicitly. The request body is left untouched.
func (g *SessionGuard) Protect(next IdentityHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		caller, err := g.Resolve(c.UserContext(), c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return err
		}
		g.logger.Debug("session resolved", slog.String("user_id", caller.ID.String()))
		return next(c, caller)
	}
}
