package memory

import (
	"context"
	"errors"

	"github.com/govalues/money"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/errs"
)

var errTxDone = errors.New("transaction already finished")

// Tx stages balance updates and operation appends in memory and applies them
// under the store's write lock on Commit. Nothing is visible to readers until
// then, which gives the all-or-nothing guarantee the engine relies on.
type Tx struct {
	store    *Store
	done     bool
	balances map[string]money.Amount
	ops      []bank.Operation
}

// BeginTx implements bank.TxBeginner.
func (s *Store) BeginTx(_ context.Context) (bank.Tx, error) {
	return &Tx{store: s, balances: make(map[string]money.Amount)}, nil
}

// UpdateBalance stages a balance write for an account.
func (t *Tx) UpdateBalance(_ context.Context, accountID string, balance money.Amount) error {
	if t.done {
		return errTxDone
	}
	t.balances[accountID] = balance
	return nil
}

// AppendOperation stages an operation append.
func (t *Tx) AppendOperation(_ context.Context, op bank.Operation) error {
	if t.done {
		return errTxDone
	}
	t.ops = append(t.ops, op)
	return nil
}

// Commit applies all staged writes atomically. If any touched account is
// missing nothing is applied.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return errTxDone
	}
	t.done = true
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id := range t.balances {
		if _, ok := t.store.accounts[id]; !ok {
			return errs.ErrAccountNotFound
		}
	}
	for id, b := range t.balances {
		a := t.store.accounts[id]
		a.Balance = b
		t.store.accounts[id] = a
	}
	for _, op := range t.ops {
		t.store.ops[op.AccountID] = append(t.store.ops[op.AccountID], op)
	}
	return nil
}

// Rollback discards all staged writes.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.balances = nil
	t.ops = nil
	return nil
}
