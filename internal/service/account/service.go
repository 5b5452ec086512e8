// Package account implements account opening and lookup. Balances are never
// touched here; only the ledger engine mutates them.
package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/errs"
)

// ErrAccountExists indicates the requested account id is already taken.
var ErrAccountExists = errors.New("account already exists")

// OpenInput carries the parameters for opening an account.
type OpenInput struct {
	ID             string
	Name           string
	Currency       string
	Type           bank.AccountType
	BalanceMinor   int64
	OverdraftMinor int64
	InterestRate   string
}

// Service exposes account opening and read operations.
type Service interface {
	Open(ctx context.Context, in OpenInput) (bank.Account, error)
	Get(ctx context.Context, accountID string) (bank.Account, error)
	List(ctx context.Context) ([]bank.Account, error)
}

type service struct {
	store bank.AccountStore
}

// New constructs the account service over the given store.
func New(store bank.AccountStore) Service {
	return &service{store: store}
}

func (s *service) Open(ctx context.Context, in OpenInput) (bank.Account, error) {
	a, err := buildAccount(in)
	if err != nil {
		return bank.Account{}, err
	}
	if _, err := s.store.Account(ctx, a.ID); err == nil {
		return bank.Account{}, ErrAccountExists
	} else if !errors.Is(err, errs.ErrAccountNotFound) {
		return bank.Account{}, err
	}
	return s.store.CreateAccount(ctx, a)
}

func (s *service) Get(ctx context.Context, accountID string) (bank.Account, error) {
	if accountID == "" {
		return bank.Account{}, errs.ErrAccountNotFound
	}
	return s.store.Account(ctx, accountID)
}

func (s *service) List(ctx context.Context) ([]bank.Account, error) {
	return s.store.ListAccounts(ctx)
}

func buildAccount(in OpenInput) (bank.Account, error) {
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		return bank.Account{}, fmt.Errorf("%w: currency is required", errs.ErrInvalidAccount)
	}
	switch in.Type {
	case bank.AccountTypeCurrent, bank.AccountTypeSaving:
	default:
		return bank.Account{}, fmt.Errorf("%w: unknown account type %q", errs.ErrInvalidAccount, in.Type)
	}
	if in.BalanceMinor < 0 {
		return bank.Account{}, fmt.Errorf("%w: initial balance must be >= 0", errs.ErrInvalidAccount)
	}
	if in.Type == bank.AccountTypeCurrent && in.OverdraftMinor < 0 {
		return bank.Account{}, fmt.Errorf("%w: overdraft limit must be >= 0", errs.ErrInvalidAccount)
	}
	if in.Type == bank.AccountTypeSaving && in.OverdraftMinor != 0 {
		return bank.Account{}, fmt.Errorf("%w: saving accounts have no overdraft", errs.ErrInvalidAccount)
	}
	balance, err := money.NewAmountFromMinorUnits(in.Currency, in.BalanceMinor)
	if err != nil {
		return bank.Account{}, fmt.Errorf("%w: unknown currency %q", errs.ErrInvalidAccount, in.Currency)
	}
	overdraft, _ := money.NewAmountFromMinorUnits(in.Currency, in.OverdraftMinor)
	a := bank.Account{
		ID:             in.ID,
		Name:           in.Name,
		Currency:       in.Currency,
		Type:           in.Type,
		Status:         bank.AccountStatusCreated,
		Balance:        balance,
		OverdraftLimit: overdraft,
		CreatedAt:      time.Now().UTC(),
	}
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if in.Type == bank.AccountTypeSaving && in.InterestRate != "" {
		rate, err := parseRate(in.InterestRate)
		if err != nil {
			return bank.Account{}, err
		}
		a.InterestRate = rate
	}
	return a, nil
}
