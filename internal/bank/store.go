package bank

import (
	"context"

	"github.com/govalues/money"
)

// AccountStore is the persistence contract for account records.
type AccountStore interface {
	// Account returns the account by id, or errs.ErrAccountNotFound.
	Account(ctx context.Context, accountID string) (Account, error)
	// ListAccounts returns all accounts ordered by creation time.
	ListAccounts(ctx context.Context) ([]Account, error)
	// CreateAccount persists a new account record.
	CreateAccount(ctx context.Context, a Account) (Account, error)
}

// OperationLog is the append-only persistence contract for operations.
// Records are never updated or deleted; per-account order is append order.
type OperationLog interface {
	// AllOperations returns every operation for the account, oldest first.
	AllOperations(ctx context.Context, accountID string) ([]Operation, error)
	// OperationsByAccount returns at most limit operations starting at
	// offset, oldest first.
	OperationsByAccount(ctx context.Context, accountID string, offset, limit int) ([]Operation, error)
	// CountOperations returns the number of operations for the account.
	CountOperations(ctx context.Context, accountID string) (int, error)
}

// Tx stages balance updates and operation appends and commits them as one
// atomic unit. After Commit or Rollback the Tx is spent.
type Tx interface {
	UpdateBalance(ctx context.Context, accountID string, balance money.Amount) error
	AppendOperation(ctx context.Context, op Operation) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxBeginner opens a transaction against the store.
type TxBeginner interface {
	BeginTx(ctx context.Context) (Tx, error)
}

// Store is the full persistence surface the services consume.
type Store interface {
	AccountStore
	OperationLog
	TxBeginner
}
