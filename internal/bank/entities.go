package bank

import (
	"time"

	"github.com/google/uuid"
	"github.com/govalues/money"
	"github.com/shopspring/decimal"
)

// AccountType tags the variant of a bank account. The variant decides the
// minimum-balance rule applied to debits.
type AccountType string

const (
	// AccountTypeCurrent may run a negative balance down to its overdraft limit.
	AccountTypeCurrent AccountType = "current"
	// AccountTypeSaving must keep a non-negative balance.
	AccountTypeSaving AccountType = "saving"
)

// AccountStatus tracks the lifecycle of an account.
type AccountStatus string

const (
	AccountStatusCreated   AccountStatus = "created"
	AccountStatusActivated AccountStatus = "activated"
)

// Account is a bank account record. The balance is the only field that
// changes after creation, and only the ledger engine changes it.
type Account struct {
	ID       string
	Name     string
	Currency string
	Type     AccountType
	Status   AccountStatus
	Balance  money.Amount
	// OverdraftLimit is the magnitude a current account may go below zero.
	// Zero for saving accounts.
	OverdraftLimit money.Amount
	// InterestRate is the annual rate attached to a saving account. Stored
	// attribute only; accrual is out of scope.
	InterestRate decimal.Decimal
	CreatedAt    time.Time
}

// MinBalance returns the lower bound the account balance may not cross:
// zero for a saving account, the negated overdraft limit for a current one.
func (a Account) MinBalance() money.Amount {
	zero, _ := money.NewAmountFromMinorUnits(a.Currency, 0)
	if a.Type == AccountTypeCurrent {
		if v, err := zero.Sub(a.OverdraftLimit); err == nil {
			return v
		}
	}
	return zero
}

// OperationType distinguishes balance-decreasing from balance-increasing
// operations.
type OperationType string

const (
	OperationDebit  OperationType = "DEBIT"
	OperationCredit OperationType = "CREDIT"
)

// Operation is one immutable, append-only record of a balance change.
// Amount is always a positive magnitude; Type carries the direction.
type Operation struct {
	ID          uuid.UUID
	AccountID   string
	Type        OperationType
	Amount      money.Amount
	Description string
	Date        time.Time
}

// Page is a bounded, oldest-first view over an account's operations.
// Derived, never persisted.
type Page struct {
	Operations    []Operation
	Page          int
	Size          int
	TotalElements int
	TotalPages    int
}
