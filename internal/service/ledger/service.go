// Package ledger implements the balance-mutation engine: debit, credit and
// transfer over an abstract account store and operation log, with per-account
// mutual exclusion and all-or-nothing commits.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/errs"
)

// Publisher receives operations after they have been committed. Publishing is
// best effort: failures are logged, never surfaced to the caller.
type Publisher interface {
	OperationRecorded(ctx context.Context, op bank.Operation) error
}

// Service exposes the mutating ledger operations.
type Service interface {
	// Debit decreases the account balance by amountMinor and records a DEBIT
	// operation. Fails with ErrInvalidAmount, ErrAccountNotFound or
	// ErrInsufficientBalance; on failure nothing is written.
	Debit(ctx context.Context, accountID string, amountMinor int64, description string) (bank.Operation, error)
	// Credit increases the account balance by amountMinor and records a
	// CREDIT operation. No upper bound is enforced.
	Credit(ctx context.Context, accountID string, amountMinor int64, description string) (bank.Operation, error)
	// Transfer moves amountMinor from source to destination as one atomic
	// unit: both balances and both operation records commit together or not
	// at all. Returns the debit and credit operations.
	Transfer(ctx context.Context, sourceID, destID string, amountMinor int64) (bank.Operation, bank.Operation, error)
}

type service struct {
	store bank.Store
	pub   Publisher
	log   *slog.Logger
	locks *lockTable
}

// New constructs the engine. pub may be nil when no event stream is wired.
func New(store bank.Store, pub Publisher, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{store: store, pub: pub, log: logger, locks: newLockTable()}
}

func (s *service) Debit(ctx context.Context, accountID string, amountMinor int64, description string) (bank.Operation, error) {
	if amountMinor <= 0 {
		return bank.Operation{}, errs.ErrInvalidAmount
	}
	unlock := s.locks.lock(accountID)
	defer unlock()

	acc, err := s.store.Account(ctx, accountID)
	if err != nil {
		return bank.Operation{}, err
	}
	amt, err := money.NewAmountFromMinorUnits(acc.Currency, amountMinor)
	if err != nil {
		return bank.Operation{}, errs.ErrInvalidAmount
	}
	newBalance, err := acc.Balance.Sub(amt)
	if err != nil {
		return bank.Operation{}, err
	}
	if belowMin(newBalance, acc) {
		return bank.Operation{}, errs.ErrInsufficientBalance
	}
	op := newOperation(acc.ID, bank.OperationDebit, amt, description)
	if err := s.commit(ctx, []balanceUpdate{{acc.ID, newBalance}}, []bank.Operation{op}); err != nil {
		return bank.Operation{}, err
	}
	operationsTotal.WithLabelValues(string(bank.OperationDebit)).Inc()
	s.publish(ctx, op)
	return op, nil
}

func (s *service) Credit(ctx context.Context, accountID string, amountMinor int64, description string) (bank.Operation, error) {
	if amountMinor <= 0 {
		return bank.Operation{}, errs.ErrInvalidAmount
	}
	unlock := s.locks.lock(accountID)
	defer unlock()

	acc, err := s.store.Account(ctx, accountID)
	if err != nil {
		return bank.Operation{}, err
	}
	amt, err := money.NewAmountFromMinorUnits(acc.Currency, amountMinor)
	if err != nil {
		return bank.Operation{}, errs.ErrInvalidAmount
	}
	newBalance, err := acc.Balance.Add(amt)
	if err != nil {
		return bank.Operation{}, err
	}
	op := newOperation(acc.ID, bank.OperationCredit, amt, description)
	if err := s.commit(ctx, []balanceUpdate{{acc.ID, newBalance}}, []bank.Operation{op}); err != nil {
		return bank.Operation{}, err
	}
	operationsTotal.WithLabelValues(string(bank.OperationCredit)).Inc()
	s.publish(ctx, op)
	return op, nil
}

func (s *service) Transfer(ctx context.Context, sourceID, destID string, amountMinor int64) (bank.Operation, bank.Operation, error) {
	var none bank.Operation
	if amountMinor <= 0 {
		return none, none, errs.ErrInvalidAmount
	}
	if sourceID == destID {
		return none, none, errs.ErrSameAccount
	}
	// Both locks are taken in id order before either balance is read, so two
	// transfers racing over the same pair in opposite directions cannot
	// deadlock and no observer sees a half-applied transfer.
	unlock := s.locks.lockPair(sourceID, destID)
	defer unlock()

	src, err := s.store.Account(ctx, sourceID)
	if err != nil {
		return none, none, err
	}
	dst, err := s.store.Account(ctx, destID)
	if err != nil {
		return none, none, err
	}
	// No conversion happens here, so a minor-unit count only means the same
	// thing on both sides when the currencies match.
	if src.Currency != dst.Currency {
		return none, none, fmt.Errorf("%w: currency mismatch %s/%s", errs.ErrInvalidAmount, src.Currency, dst.Currency)
	}
	debitAmt, err := money.NewAmountFromMinorUnits(src.Currency, amountMinor)
	if err != nil {
		return none, none, errs.ErrInvalidAmount
	}
	creditAmt, err := money.NewAmountFromMinorUnits(dst.Currency, amountMinor)
	if err != nil {
		return none, none, errs.ErrInvalidAmount
	}
	srcBalance, err := src.Balance.Sub(debitAmt)
	if err != nil {
		return none, none, err
	}
	if belowMin(srcBalance, src) {
		return none, none, errs.ErrInsufficientBalance
	}
	dstBalance, err := dst.Balance.Add(creditAmt)
	if err != nil {
		return none, none, err
	}

	debitOp := newOperation(src.ID, bank.OperationDebit, debitAmt, "transfer to "+dst.ID)
	creditOp := newOperation(dst.ID, bank.OperationCredit, creditAmt, "transfer from "+src.ID)
	updates := []balanceUpdate{{src.ID, srcBalance}, {dst.ID, dstBalance}}
	if err := s.commit(ctx, updates, []bank.Operation{debitOp, creditOp}); err != nil {
		// Validation already passed: a storage fault here is a failed
		// transfer, surfaced with its cause. The commit helper has already
		// rolled everything back.
		return none, none, fmt.Errorf("%w: %w", errs.ErrTransferFailed, err)
	}
	operationsTotal.WithLabelValues(string(bank.OperationDebit)).Inc()
	operationsTotal.WithLabelValues(string(bank.OperationCredit)).Inc()
	s.publish(ctx, debitOp)
	s.publish(ctx, creditOp)
	return debitOp, creditOp, nil
}

type balanceUpdate struct {
	accountID string
	balance   money.Amount
}

// commit writes all balance updates and operation appends in one store
// transaction, rolling back on the first failure.
func (s *service) commit(ctx context.Context, updates []balanceUpdate, ops []bank.Operation) error {
	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if err := tx.UpdateBalance(ctx, u.accountID, u.balance); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}
	for _, op := range ops {
		if err := tx.AppendOperation(ctx, op); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *service) publish(ctx context.Context, op bank.Operation) {
	if s.pub == nil {
		return
	}
	if err := s.pub.OperationRecorded(ctx, op); err != nil {
		s.log.Error("operation event publish failed", "operation_id", op.ID.String(), "err", err)
	}
}

func newOperation(accountID string, typ bank.OperationType, amt money.Amount, description string) bank.Operation {
	return bank.Operation{
		ID:          uuid.New(),
		AccountID:   accountID,
		Type:        typ,
		Amount:      amt,
		Description: description,
		Date:        time.Now().UTC(),
	}
}

// belowMin reports whether balance violates the account's minimum-balance
// bound. Comparison happens on integer minor units.
func belowMin(balance money.Amount, acc bank.Account) bool {
	units, _ := balance.MinorUnits()
	min, _ := acc.MinBalance().MinorUnits()
	return units < min
}
