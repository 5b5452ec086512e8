package history

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/errs"
	"github.com/sidbank/ledger-core/internal/storage/memory"
)

func seed(t *testing.T, n int) (*memory.Store, Service) {
	t.Helper()
	store := memory.New()
	balance, _ := money.NewAmountFromMinorUnits("USD", 10_000)
	zero, _ := money.NewAmountFromMinorUnits("USD", 0)
	store.SeedAccount(bank.Account{
		ID:             "s1",
		Currency:       "USD",
		Type:           bank.AccountTypeSaving,
		Status:         bank.AccountStatusActivated,
		Balance:        balance,
		OverdraftLimit: zero,
		CreatedAt:      time.Now().UTC(),
	})
	ctx := context.Background()
	base := time.Now().UTC()
	for i := 0; i < n; i++ {
		tx, err := store.BeginTx(ctx)
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		amt, _ := money.NewAmountFromMinorUnits("USD", int64(i+1))
		op := bank.Operation{
			ID:          uuid.New(),
			AccountID:   "s1",
			Type:        bank.OperationCredit,
			Amount:      amt,
			Description: "op",
			Date:        base.Add(time.Duration(i) * time.Second),
		}
		if err := tx.AppendOperation(ctx, op); err != nil {
			t.Fatalf("append: %v", err)
		}
		if err := tx.Commit(ctx); err != nil {
			t.Fatalf("commit: %v", err)
		}
	}
	return store, New(store, store)
}

func TestFullHistory(t *testing.T) {
	_, svc := seed(t, 7)
	ops, err := svc.FullHistory(context.Background(), "s1")
	if err != nil {
		t.Fatalf("full history: %v", err)
	}
	if len(ops) != 7 {
		t.Fatalf("expected 7 operations, got %d", len(ops))
	}
	for i := 1; i < len(ops); i++ {
		if ops[i].Date.Before(ops[i-1].Date) {
			t.Fatalf("history not oldest-first at %d", i)
		}
	}
}

func TestFullHistory_UnknownAccount(t *testing.T) {
	_, svc := seed(t, 0)
	if _, err := svc.FullHistory(context.Background(), "nope"); !errors.Is(err, errs.ErrAccountNotFound) {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestPagedHistory_ConcatenationReproducesFullHistory(t *testing.T) {
	_, svc := seed(t, 13)
	ctx := context.Background()
	full, err := svc.FullHistory(ctx, "s1")
	if err != nil {
		t.Fatalf("full history: %v", err)
	}

	const size = 4
	var joined []bank.Operation
	for page := 0; ; page++ {
		pg, err := svc.PagedHistory(ctx, "s1", page, size)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if pg.TotalElements != 13 {
			t.Fatalf("total elements = %d, want 13", pg.TotalElements)
		}
		if pg.TotalPages != 4 {
			t.Fatalf("total pages = %d, want 4", pg.TotalPages)
		}
		if len(pg.Operations) == 0 {
			break
		}
		joined = append(joined, pg.Operations...)
	}
	if len(joined) != len(full) {
		t.Fatalf("joined %d operations, want %d", len(joined), len(full))
	}
	for i := range joined {
		if joined[i].ID != full[i].ID {
			t.Fatalf("page concatenation diverges at %d", i)
		}
	}
}

func TestPagedHistory_SmallAccountFitsOnePage(t *testing.T) {
	_, svc := seed(t, 3)
	pg, err := svc.PagedHistory(context.Background(), "s1", 0, 5)
	if err != nil {
		t.Fatalf("paged history: %v", err)
	}
	if len(pg.Operations) != 3 || pg.TotalPages != 1 || pg.TotalElements != 3 {
		t.Fatalf("unexpected page: %+v", pg)
	}
}

func TestPagedHistory_BeyondRangeIsEmpty(t *testing.T) {
	_, svc := seed(t, 3)
	pg, err := svc.PagedHistory(context.Background(), "s1", 9, 5)
	if err != nil {
		t.Fatalf("paged history: %v", err)
	}
	if len(pg.Operations) != 0 {
		t.Fatalf("expected empty page, got %d operations", len(pg.Operations))
	}
	if pg.TotalPages != 1 || pg.TotalElements != 3 {
		t.Fatalf("totals wrong: %+v", pg)
	}

	// the offset must not wrap on extreme page indexes
	pg, err = svc.PagedHistory(context.Background(), "s1", math.MaxInt, 5)
	if err != nil {
		t.Fatalf("max page: %v", err)
	}
	if len(pg.Operations) != 0 || pg.TotalPages != 1 {
		t.Fatalf("max page should be empty: %+v", pg)
	}
}

func TestPagedHistory_InvalidParams(t *testing.T) {
	_, svc := seed(t, 3)
	ctx := context.Background()
	if _, err := svc.PagedHistory(ctx, "s1", 0, 0); !errors.Is(err, errs.ErrInvalidPageParams) {
		t.Fatalf("size 0 err = %v", err)
	}
	if _, err := svc.PagedHistory(ctx, "s1", -1, 5); !errors.Is(err, errs.ErrInvalidPageParams) {
		t.Fatalf("negative page err = %v", err)
	}
	if _, err := svc.PagedHistory(ctx, "nope", 0, 5); !errors.Is(err, errs.ErrAccountNotFound) {
		t.Fatalf("unknown account err = %v", err)
	}
}
