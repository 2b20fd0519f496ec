package auth

import (
	"context"
	"log/slog"

	"github.com/tiny-bank/tiny_bank/internal/identity"
)

// Service logs identities in and hands out session tokens.
type Service struct {
	identities *identity.Service
	tokens     *TokenService
	logger     *slog.Logger
}

func NewService(identities *identity.Service, tokens *TokenService, logger *slog.Logger) *Service {
	return &Service{identities: identities, tokens: tokens, logger: logger}
}

// Login validates credentials (by delegating to identity.Service) and issues a token.
func (s *Service) Login(ctx context.Context, creds identity.Credentials) (string, error) {
	user, err := s.identities.Authenticate(ctx, creds)
	if err != nil {
		return "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info("auth.login succeeded", slog.String("user_id", user.ID.String()))
	return token, nil
}
