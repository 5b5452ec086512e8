// Package history implements read-only, chronologically ordered views over an
// account's operation log, whole or paginated.
package history

import (
	"context"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/errs"
)

// DefaultPageSize is applied by the HTTP layer when no size is requested.
const DefaultPageSize = 5

// Service exposes the read-only history operations.
type Service interface {
	// FullHistory returns every operation for the account, oldest first.
	// The returned slice is a committed snapshot: re-reading it never
	// changes, and re-calling yields the state at that call.
	FullHistory(ctx context.Context, accountID string) ([]bank.Operation, error)
	// PagedHistory returns the zero-based page of the account's operations,
	// oldest first, with totals. A page past the end is empty, not an error.
	PagedHistory(ctx context.Context, accountID string, page, size int) (bank.Page, error)
}

type service struct {
	accounts bank.AccountStore
	log      bank.OperationLog
}

// New constructs a history reader over the given store.
func New(accounts bank.AccountStore, log bank.OperationLog) Service {
	return &service{accounts: accounts, log: log}
}

func (s *service) FullHistory(ctx context.Context, accountID string) ([]bank.Operation, error) {
	if _, err := s.accounts.Account(ctx, accountID); err != nil {
		return nil, err
	}
	return s.log.AllOperations(ctx, accountID)
}

func (s *service) PagedHistory(ctx context.Context, accountID string, page, size int) (bank.Page, error) {
	if size < 1 || page < 0 {
		return bank.Page{}, errs.ErrInvalidPageParams
	}
	if _, err := s.accounts.Account(ctx, accountID); err != nil {
		return bank.Page{}, err
	}
	total, err := s.log.CountOperations(ctx, accountID)
	if err != nil {
		return bank.Page{}, err
	}
	totalPages := (total + size - 1) / size
	// A page past the end is empty, never an error. Answering it here also
	// keeps page*size from overflowing on absurd page indexes: below this
	// point the offset is bounded by total.
	if page >= totalPages {
		return bank.Page{
			Operations:    []bank.Operation{},
			Page:          page,
			Size:          size,
			TotalElements: total,
			TotalPages:    totalPages,
		}, nil
	}
	ops, err := s.log.OperationsByAccount(ctx, accountID, page*size, size)
	if err != nil {
		return bank.Page{}, err
	}
	return bank.Page{
		Operations:    ops,
		Page:          page,
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
	}, nil
}
