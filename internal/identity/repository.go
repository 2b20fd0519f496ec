package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

var (
	// ErrNotFound is returned by lookups that match no identity.
	ErrNotFound = errors.New("identity not found")

	// ErrAccountExists is returned by Insert when the account number is taken.
	ErrAccountExists = errors.New("account number already registered")
)

// Repository persists identities. Insert is the authoritative uniqueness
// check; ExistsByAccountNumber is advisory only.
type Repository interface {
	ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error)
	Insert(ctx context.Context, identity Identity) (Identity, error)
	FindByID(ctx context.Context, id uuid.UUID) (Identity, error)
	FindByAccountNumber(ctx context.Context, accountNumber string) (Identity, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, account_number, ifsc_code, bank_name, branch, address, city, state_code, routing_no, created_at`

// ExistsByAccountNumber probes for an existing registration.
func (r *PostgresRepository) ExistsByAccountNumber(ctx context.Context, accountNumber string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE account_number = $1)`, accountNumber).Scan(&exists)
	return exists, err
}

// Insert stores a new identity in a single statement and returns the stored row.
func (r *PostgresRepository) Insert(ctx context.Context, identity Identity) (Identity, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO users (id, account_number, ifsc_code, bank_name, branch, address, city, state_code, routing_no)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING `+selectColumns,
		identity.ID, identity.AccountNumber, identity.IFSC, identity.BankName, identity.Branch,
		identity.Address, identity.City, identity.StateCode, identity.RoutingNo)
	stored, err := scanIdentity(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Identity{}, ErrAccountExists
		}
		return Identity{}, err
	}
	return stored, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// FindByID fetches an identity by its identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (Identity, error) {
	return r.findOne(ctx, `SELECT `+selectColumns+` FROM users WHERE id = $1`, id)
}

// FindByAccountNumber fetches an identity by account number.
func (r *PostgresRepository) FindByAccountNumber(ctx context.Context, accountNumber string) (Identity, error) {
	return r.findOne(ctx, `SELECT `+selectColumns+` FROM users WHERE account_number = $1`, accountNumber)
}

func (r *PostgresRepository) findOne(ctx context.Context, query string, arg any) (Identity, error) {
	identity, err := scanIdentity(r.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return Identity{}, ErrNotFound
	}
	return identity, err
}

func scanIdentity(row pgx.Row) (Identity, error) {
	var (
		identity  Identity
		createdAt time.Time
	)
	if err := row.Scan(
		&identity.ID,
		&identity.AccountNumber,
		&identity.IFSC,
		&identity.BankName,
		&identity.Branch,
		&identity.Address,
		&identity.City,
		&identity.StateCode,
		&identity.RoutingNo,
		&createdAt,
	); err != nil {
		return Identity{}, err
	}
	identity.CreatedAt = createdAt.UTC()
	return identity, nil
}
