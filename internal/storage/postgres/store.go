package postgres

// Package postgres provides a pgx-backed storage implementation that
// satisfies the account store and operation log contracts.
//
// It is intentionally small and explicit. Migrations that create the expected
// schema live under db/migrations. This package focuses on mapping between
// the domain entities and SQL rows and running the necessary statements and
// transactions.

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/errs"
)

// Store holds a pgx connection pool and implements bank.Store. All methods
// are safe for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// Open establishes a pgx pool using the provided connection string.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Ready pings the pool to verify connectivity.
func (s *Store) Ready(ctx context.Context) error { return s.pool.Ping(ctx) }

// SeedDev inserts a saving and a current account for quick local testing.
// Fresh ids each run, so it is safe to call repeatedly.
func (s *Store) SeedDev(ctx context.Context) (bank.Account, bank.Account, error) {
	now := time.Now().UTC()
	savingBalance, _ := money.NewAmountFromMinorUnits("USD", 100_000)
	zero, _ := money.NewAmountFromMinorUnits("USD", 0)
	saving := bank.Account{
		ID:             uuid.New().String(),
		Name:           "Rainy Day",
		Currency:       "USD",
		Type:           bank.AccountTypeSaving,
		Status:         bank.AccountStatusActivated,
		Balance:        savingBalance,
		OverdraftLimit: zero,
		InterestRate:   decimal.RequireFromString("0.035"),
		CreatedAt:      now,
	}
	currentBalance, _ := money.NewAmountFromMinorUnits("USD", 20_000)
	overdraft, _ := money.NewAmountFromMinorUnits("USD", 50_000)
	current := bank.Account{
		ID:             uuid.New().String(),
		Name:           "Everyday",
		Currency:       "USD",
		Type:           bank.AccountTypeCurrent,
		Status:         bank.AccountStatusActivated,
		Balance:        currentBalance,
		OverdraftLimit: overdraft,
		InterestRate:   decimal.Zero,
		CreatedAt:      now,
	}
	for _, a := range []bank.Account{saving, current} {
		if _, err := s.CreateAccount(ctx, a); err != nil {
			return bank.Account{}, bank.Account{}, err
		}
	}
	return saving, current, nil
}

const accountColumns = `id, name, currency, type, status, balance_minor, overdraft_limit_minor, interest_rate::text, created_at`

func scanAccount(row pgx.Row) (bank.Account, error) {
	var a bank.Account
	var balanceMinor, overdraftMinor int64
	var rate string
	err := row.Scan(&a.ID, &a.Name, &a.Currency, &a.Type, &a.Status, &balanceMinor, &overdraftMinor, &rate, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return bank.Account{}, errs.ErrAccountNotFound
	}
	if err != nil {
		return bank.Account{}, err
	}
	if a.Balance, err = money.NewAmountFromMinorUnits(a.Currency, balanceMinor); err != nil {
		return bank.Account{}, err
	}
	if a.OverdraftLimit, err = money.NewAmountFromMinorUnits(a.Currency, overdraftMinor); err != nil {
		return bank.Account{}, err
	}
	if a.InterestRate, err = decimal.NewFromString(rate); err != nil {
		return bank.Account{}, err
	}
	return a, nil
}

// Account fetches a single account by id.
func (s *Store) Account(ctx context.Context, accountID string) (bank.Account, error) {
	row := s.pool.QueryRow(ctx, `
		select `+accountColumns+`
		from accounts
		where id = $1
	`, accountID)
	return scanAccount(row)
}

// ListAccounts returns all accounts ordered by creation time.
func (s *Store) ListAccounts(ctx context.Context) ([]bank.Account, error) {
	rows, err := s.pool.Query(ctx, `
		select `+accountColumns+`
		from accounts
		order by created_at asc, id asc
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]bank.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CreateAccount inserts an account row.
func (s *Store) CreateAccount(ctx context.Context, a bank.Account) (bank.Account, error) {
	balanceMinor, _ := a.Balance.MinorUnits()
	overdraftMinor, _ := a.OverdraftLimit.MinorUnits()
	_, err := s.pool.Exec(ctx, `
		insert into accounts (id, name, currency, type, status, balance_minor, overdraft_limit_minor, interest_rate, created_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, a.ID, a.Name, a.Currency, a.Type, a.Status, balanceMinor, overdraftMinor, a.InterestRate.String(), a.CreatedAt)
	if err != nil {
		return bank.Account{}, err
	}
	return a, nil
}

// AllOperations returns every operation for an account, oldest first.
func (s *Store) AllOperations(ctx context.Context, accountID string) ([]bank.Operation, error) {
	rows, err := s.pool.Query(ctx, `
		select o.id, o.account_id, o.type, o.amount_minor, o.description, o.date, a.currency
		from operations o
		join accounts a on a.id = o.account_id
		where o.account_id = $1
		order by o.date asc, o.seq asc
	`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOperations(rows)
}

// OperationsByAccount returns at most limit operations starting at offset,
// oldest first.
func (s *Store) OperationsByAccount(ctx context.Context, accountID string, offset, limit int) ([]bank.Operation, error) {
	rows, err := s.pool.Query(ctx, `
		select o.id, o.account_id, o.type, o.amount_minor, o.description, o.date, a.currency
		from operations o
		join accounts a on a.id = o.account_id
		where o.account_id = $1
		order by o.date asc, o.seq asc
		offset $2 limit $3
	`, accountID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOperations(rows)
}

// CountOperations returns the number of operations for the account.
func (s *Store) CountOperations(ctx context.Context, accountID string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `
		select count(*) from operations where account_id = $1
	`, accountID).Scan(&n)
	return n, err
}

func collectOperations(rows pgx.Rows) ([]bank.Operation, error) {
	out := make([]bank.Operation, 0)
	for rows.Next() {
		var op bank.Operation
		var minor int64
		var currency string
		if err := rows.Scan(&op.ID, &op.AccountID, &op.Type, &minor, &op.Description, &op.Date, &currency); err != nil {
			return nil, err
		}
		amt, err := money.NewAmountFromMinorUnits(currency, minor)
		if err != nil {
			return nil, err
		}
		op.Amount = amt
		out = append(out, op)
	}
	return out, rows.Err()
}

// BeginTx opens the transaction used by the ledger engine for its atomic
// balance-update-plus-append unit.
func (s *Store) BeginTx(ctx context.Context) (bank.Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx.Tx and implements bank.Tx.
type Tx struct{ tx pgx.Tx }

// UpdateBalance writes the new balance, taking a row lock for the rest of the
// transaction.
func (t *Tx) UpdateBalance(ctx context.Context, accountID string, balance money.Amount) error {
	minor, _ := balance.MinorUnits()
	ct, err := t.tx.Exec(ctx, `
		update accounts set balance_minor = $1 where id = $2
	`, minor, accountID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrAccountNotFound
	}
	return nil
}

// AppendOperation inserts an operation row.
func (t *Tx) AppendOperation(ctx context.Context, op bank.Operation) error {
	minor, _ := op.Amount.MinorUnits()
	_, err := t.tx.Exec(ctx, `
		insert into operations (id, account_id, type, amount_minor, description, date)
		values ($1,$2,$3,$4,$5,$6)
	`, op.ID, op.AccountID, op.Type, minor, op.Description, op.Date)
	return err
}

// Commit commits the transaction.
func (t *Tx) Commit(ctx context.Context) error { return t.tx.Commit(ctx) }

// Rollback aborts the transaction.
func (t *Tx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }
