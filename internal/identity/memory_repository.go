package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]Identity
	byAccount map[string]uuid.UUID
}

// NewMemoryRepository builds an in-memory identity store for tests and
// database-less development.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		byID:      make(map[uuid.UUID]Identity),
		byAccount: make(map[string]uuid.UUID),
	}
}

func (r *memoryRepository) ExistsByAccountNumber(_ context.Context, accountNumber string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.byAccount[accountNumber]
	return exists, nil
}

func (r *memoryRepository) Insert(_ context.Context, identity Identity) (Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byAccount[identity.AccountNumber]; exists {
		return Identity{}, ErrAccountExists
	}
	if identity.CreatedAt.IsZero() {
		identity.CreatedAt = time.Now().UTC()
	}
	r.byID[identity.ID] = identity
	r.byAccount[identity.AccountNumber] = identity.ID
	return identity, nil
}

func (r *memoryRepository) FindByID(_ context.Context, id uuid.UUID) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	identity, ok := r.byID[id]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return identity, nil
}

func (r *memoryRepository) FindByAccountNumber(_ context.Context, accountNumber string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byAccount[accountNumber]
	if !ok {
		return Identity{}, ErrNotFound
	}
	return r.byID[id], nil
}
