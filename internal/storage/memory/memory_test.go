package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/errs"
)

func amount(t *testing.T, minor int64) money.Amount {
	t.Helper()
	a, err := money.NewAmountFromMinorUnits("USD", minor)
	if err != nil {
		t.Fatalf("amount: %v", err)
	}
	return a
}

func seedAccount(t *testing.T, s *Store, id string, balanceMinor int64) {
	t.Helper()
	s.SeedAccount(bank.Account{
		ID:             id,
		Currency:       "USD",
		Type:           bank.AccountTypeSaving,
		Status:         bank.AccountStatusActivated,
		Balance:        amount(t, balanceMinor),
		OverdraftLimit: amount(t, 0),
		CreatedAt:      time.Now().UTC(),
	})
}

func op(t *testing.T, accountID string, minor int64) bank.Operation {
	t.Helper()
	return bank.Operation{
		ID:        uuid.New(),
		AccountID: accountID,
		Type:      bank.OperationCredit,
		Amount:    amount(t, minor),
		Date:      time.Now().UTC(),
	}
}

func TestAccountLookup(t *testing.T) {
	s := New()
	seedAccount(t, s, "a1", 100)
	ctx := context.Background()

	if _, err := s.Account(ctx, "a1"); err != nil {
		t.Fatalf("account: %v", err)
	}
	if _, err := s.Account(ctx, "a2"); err != errs.ErrAccountNotFound {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestTxCommitIsAtomicAndVisible(t *testing.T) {
	s := New()
	seedAccount(t, s, "a1", 100)
	ctx := context.Background()

	tx, err := s.BeginTx(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := tx.UpdateBalance(ctx, "a1", amount(t, 250)); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := tx.AppendOperation(ctx, op(t, "a1", 150)); err != nil {
		t.Fatalf("append: %v", err)
	}

	// staged writes are invisible before commit
	acc, _ := s.Account(ctx, "a1")
	if minor, _ := acc.Balance.MinorUnits(); minor != 100 {
		t.Fatalf("balance visible before commit: %d", minor)
	}
	if n, _ := s.CountOperations(ctx, "a1"); n != 0 {
		t.Fatalf("operations visible before commit: %d", n)
	}

	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("commit: %v", err)
	}
	acc, _ = s.Account(ctx, "a1")
	if minor, _ := acc.Balance.MinorUnits(); minor != 250 {
		t.Fatalf("balance = %d, want 250", minor)
	}
	if n, _ := s.CountOperations(ctx, "a1"); n != 1 {
		t.Fatalf("operations = %d, want 1", n)
	}

	// a spent tx refuses further work
	if err := tx.Commit(ctx); err == nil {
		t.Fatal("expected error on double commit")
	}
}

func TestTxRollbackDiscardsEverything(t *testing.T) {
	s := New()
	seedAccount(t, s, "a1", 100)
	ctx := context.Background()

	tx, _ := s.BeginTx(ctx)
	_ = tx.UpdateBalance(ctx, "a1", amount(t, 999))
	_ = tx.AppendOperation(ctx, op(t, "a1", 899))
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	acc, _ := s.Account(ctx, "a1")
	if minor, _ := acc.Balance.MinorUnits(); minor != 100 {
		t.Fatalf("balance = %d, want 100", minor)
	}
	if n, _ := s.CountOperations(ctx, "a1"); n != 0 {
		t.Fatalf("operations = %d, want 0", n)
	}
}

func TestTxCommitUnknownAccountAppliesNothing(t *testing.T) {
	s := New()
	seedAccount(t, s, "a1", 100)
	ctx := context.Background()

	tx, _ := s.BeginTx(ctx)
	_ = tx.UpdateBalance(ctx, "a1", amount(t, 50))
	_ = tx.UpdateBalance(ctx, "ghost", amount(t, 50))
	_ = tx.AppendOperation(ctx, op(t, "a1", 50))
	if err := tx.Commit(ctx); err != errs.ErrAccountNotFound {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}

	acc, _ := s.Account(ctx, "a1")
	if minor, _ := acc.Balance.MinorUnits(); minor != 100 {
		t.Fatalf("partial commit: balance = %d", minor)
	}
	if n, _ := s.CountOperations(ctx, "a1"); n != 0 {
		t.Fatalf("partial commit: operations = %d", n)
	}
}

func TestOperationsPaging(t *testing.T) {
	s := New()
	seedAccount(t, s, "a1", 0)
	ctx := context.Background()
	for i := int64(1); i <= 5; i++ {
		tx, _ := s.BeginTx(ctx)
		_ = tx.AppendOperation(ctx, op(t, "a1", i))
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("commit %d: %v", i, err)
		}
	}

	all, _ := s.AllOperations(ctx, "a1")
	if len(all) != 5 {
		t.Fatalf("all = %d", len(all))
	}
	page, _ := s.OperationsByAccount(ctx, "a1", 2, 2)
	if len(page) != 2 || page[0].ID != all[2].ID || page[1].ID != all[3].ID {
		t.Fatalf("unexpected window: %+v", page)
	}
	tail, _ := s.OperationsByAccount(ctx, "a1", 4, 10)
	if len(tail) != 1 {
		t.Fatalf("tail = %d", len(tail))
	}
	empty, _ := s.OperationsByAccount(ctx, "a1", 50, 10)
	if len(empty) != 0 {
		t.Fatalf("expected empty window")
	}
}
