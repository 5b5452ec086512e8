// Package memory provides a simple in-memory implementation used for
// development and tests. It keeps code paths easy to follow while allowing us
// to plug in a real DB later.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/errs"
)

// Store is an in-memory implementation of the account store and operation
// log. It is guarded by an RWMutex for concurrent reads/writes; per-account
// operation slices keep append order, which is the required chronological
// order.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]bank.Account
	ops      map[string][]bank.Operation
}

// New constructs an empty in-memory store.
func New() *Store {
	return &Store{
		accounts: make(map[string]bank.Account),
		ops:      make(map[string][]bank.Operation),
	}
}

// SeedAccount inserts an account for local dev/tests.
func (s *Store) SeedAccount(a bank.Account) {
	s.mu.Lock()
	s.accounts[a.ID] = a
	s.mu.Unlock()
}

// Reset clears all state.
func (s *Store) Reset() {
	s.mu.Lock()
	s.accounts = map[string]bank.Account{}
	s.ops = map[string][]bank.Operation{}
	s.mu.Unlock()
}

// Account implements bank.AccountStore.
func (s *Store) Account(_ context.Context, accountID string) (bank.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[accountID]
	if !ok {
		return bank.Account{}, errs.ErrAccountNotFound
	}
	return a, nil
}

// ListAccounts returns all accounts ordered by creation time, then id.
func (s *Store) ListAccounts(_ context.Context) ([]bank.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]bank.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// CreateAccount persists a new account record.
func (s *Store) CreateAccount(_ context.Context, a bank.Account) (bank.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[a.ID] = a
	return a, nil
}

// AllOperations returns every operation for the account, oldest first.
func (s *Store) AllOperations(_ context.Context, accountID string) ([]bank.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.ops[accountID]
	out := make([]bank.Operation, len(src))
	copy(out, src)
	return out, nil
}

// OperationsByAccount returns at most limit operations starting at offset.
func (s *Store) OperationsByAccount(_ context.Context, accountID string, offset, limit int) ([]bank.Operation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.ops[accountID]
	if offset < 0 || offset >= len(src) || limit <= 0 {
		return []bank.Operation{}, nil
	}
	end := offset + limit
	if end > len(src) {
		end = len(src)
	}
	out := make([]bank.Operation, end-offset)
	copy(out, src[offset:end])
	return out, nil
}

// CountOperations returns the number of operations for the account.
func (s *Store) CountOperations(_ context.Context, accountID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ops[accountID]), nil
}
