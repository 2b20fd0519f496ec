package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
	"github.com/tiny-bank/tiny_bank/internal/bankverify"
	"github.com/tiny-bank/tiny_bank/internal/identity"
	"github.com/tiny-bank/tiny_bank/internal/logging"
	"github.com/tiny-bank/tiny_bank/internal/metrics"
)

type fixedVerifier struct{}

func (fixedVerifier) Verify(context.Context, string) (bankverify.BankMetadata, error) {
	return bankverify.BankMetadata{BankName: "HDFC Bank", BankBranchName: "Fort"}, nil
}

func newLoginService(t *testing.T) (*Service, *TokenService, identity.Identity) {
	t.Helper()
	logger := logging.Discard()
	ids := identity.NewService(identity.NewMemoryRepository(), fixedVerifier{}, logger, metrics.Noop{})
	registered, err := ids.Register(context.Background(), identity.Credentials{AccountNumber: "123456789012", IFSC: "HDFC0001234"})
	require.NoError(t, err)

	tokens := NewTokenService(testSecret)
	return NewService(ids, tokens, logger), tokens, registered
}

func TestLoginIssuesTokenForSubject(t *testing.T) {
	svc, tokens, registered := newLoginService(t)

	token, err := svc.Login(context.Background(), identity.Credentials{AccountNumber: "123456789012", IFSC: "HDFC0001234"})
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.Subject)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newLoginService(t)

	cases := map[string]identity.Credentials{
		"wrong ifsc":      {AccountNumber: "123456789012", IFSC: "ICIC0001234"},
		"unknown account": {AccountNumber: "999999999999", IFSC: "HDFC0001234"},
	}
	for name, creds := range cases {
		t.Run(name, func(t *testing.T) {
			token, err := svc.Login(context.Background(), creds)
			assert.Empty(t, token)
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.KindAuth, appErr.Kind)
			assert.Equal(t, "Invalid credentials", appErr.Message)
		})
	}
}
