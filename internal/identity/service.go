package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/tiny-bank/tiny_bank/internal/apperror"
	"github.com/tiny-bank/tiny_bank/internal/bankverify"
	"github.com/tiny-bank/tiny_bank/internal/metrics"
)

const (
	msgAccountTaken       = "Account number already registered."
	msgInvalidCredentials = "Invalid credentials"
)

// Service manages the identity lifecycle.
type Service struct {
	repo     Repository
	verifier bankverify.Verifier
	logger   *slog.Logger
	metrics  metrics.Recorder
}

// NewService creates a new identity service.
func NewService(repo Repository, verifier bankverify.Verifier, logger *slog.Logger, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.Noop{}
	}
	return &Service{repo: repo, verifier: verifier, logger: logger, metrics: rec}
}

// Register validates the payload, rejects known account numbers early,
// verifies the IFSC code with the bank API and only then stores the
// identity. The insert-time uniqueness check is the one that counts under
// concurrency; the pre-check just answers the common case sooner.
func (s *Service) Register(ctx context.Context, creds Credentials) (Identity, error) {
	identity, err := s.register(ctx, creds)
	s.metrics.RecordRegistration(outcome(err))
	return identity, err
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	switch apperror.KindOf(err) {
	case apperror.KindValidation, apperror.KindAuth:
		return metrics.OutcomeRejected
	case apperror.KindConflict:
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeError
	}
}

func (s *Service) register(ctx context.Context, creds Credentials) (Identity, error) {
	if violations := Validate(creds); len(violations) > 0 {
		return Identity{}, apperror.Validation(violations...)
	}

	exists, err := s.repo.ExistsByAccountNumber(ctx, creds.AccountNumber)
	if err != nil {
		return Identity{}, apperror.Storage("check account number", err)
	}
	if exists {
		return Identity{}, apperror.Conflict(msgAccountTaken)
	}

	bank, err := s.verifier.Verify(ctx, creds.IFSC)
	if err != nil {
		return Identity{}, err
	}

	stored, err := s.repo.Insert(ctx, Identity{
		ID:            uuid.New(),
		AccountNumber: creds.AccountNumber,
		IFSC:          creds.IFSC,
		BankName:      bank.BankName,
		Branch:        bank.BankBranchName,
		Address:       optional(bank.Address),
		City:          optional(bank.CityAndPincode),
		StateCode:     optional(bank.StateCode),
		RoutingNo:     optional(bank.RoutingNo),
	})
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return Identity{}, apperror.Conflict(msgAccountTaken)
		}
		return Identity{}, apperror.Storage("insert identity", err)
	}

	s.logger.Info("identity.register completed",
		slog.String("user_id", stored.ID.String()),
		slog.String("account_number", MaskAccountNumber(stored.AccountNumber)),
		slog.String("bank_name", stored.BankName),
	)
	return stored, nil
}

// Authenticate checks an {accountNumber, ifsc} pair. An unknown account and
// a wrong IFSC code fail with the same error so callers cannot probe which
// accounts exist.
func (s *Service) Authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	identity, err := s.authenticate(ctx, creds)
	s.metrics.RecordLogin(outcome(err))
	return identity, err
}

func (s *Service) authenticate(ctx context.Context, creds Credentials) (Identity, error) {
	identity, err := s.repo.FindByAccountNumber(ctx, creds.AccountNumber)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Identity{}, apperror.Unauthorized(msgInvalidCredentials, "account not found")
		}
		return Identity{}, apperror.Storage("find identity by account number", err)
	}

	if subtle.ConstantTimeCompare([]byte(identity.IFSC), []byte(creds.IFSC)) != 1 {
		return Identity{}, apperror.Unauthorized(msgInvalidCredentials, "ifsc mismatch")
	}

	return identity, nil
}

// FindByID resolves an identity by id for the session guard. A missing
// identity is reported as ErrNotFound.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (Identity, error) {
	return s.repo.FindByID(ctx, id)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
