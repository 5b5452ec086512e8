package httpapi

import (
	"time"

	"github.com/sidbank/ledger-core/internal/bank"
)

type postAccountRequest struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	Type           string `json:"type"`
	BalanceMinor   int64  `json:"balance_minor"`
	OverdraftMinor int64  `json:"overdraft_limit_minor,omitempty"`
	InterestRate   string `json:"interest_rate,omitempty"`
}

type debitRequest struct {
	AccountID   string `json:"account_id"`
	AmountMinor int64  `json:"amount_minor"`
	Description string `json:"description"`
}

type creditRequest struct {
	AccountID   string `json:"account_id"`
	AmountMinor int64  `json:"amount_minor"`
	Description string `json:"description"`
}

type transferRequest struct {
	SourceID      string `json:"source_id"`
	DestinationID string `json:"destination_id"`
	AmountMinor   int64  `json:"amount_minor"`
}

type accountResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Currency       string    `json:"currency"`
	Type           string    `json:"type"`
	Status         string    `json:"status"`
	BalanceMinor   int64     `json:"balance_minor"`
	OverdraftMinor int64     `json:"overdraft_limit_minor,omitempty"`
	InterestRate   string    `json:"interest_rate,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type operationResponse struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Type        string    `json:"type"`
	AmountMinor int64     `json:"amount_minor"`
	Amount      string    `json:"amount"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// pageResponse is the account-history view: the page plus the account id
// and its current balance.
type pageResponse struct {
	AccountID     string              `json:"account_id"`
	BalanceMinor  int64               `json:"balance_minor"`
	Operations    []operationResponse `json:"operations"`
	Page          int                 `json:"page"`
	Size          int                 `json:"size"`
	TotalElements int                 `json:"total_elements"`
	TotalPages    int                 `json:"total_pages"`
}

func toAccountResponse(a bank.Account) accountResponse {
	balanceMinor, _ := a.Balance.MinorUnits()
	overdraftMinor, _ := a.OverdraftLimit.MinorUnits()
	resp := accountResponse{
		ID:           a.ID,
		Name:         a.Name,
		Currency:     a.Currency,
		Type:         string(a.Type),
		Status:       string(a.Status),
		BalanceMinor: balanceMinor,
		CreatedAt:    a.CreatedAt,
	}
	switch a.Type {
	case bank.AccountTypeCurrent:
		resp.OverdraftMinor = overdraftMinor
	case bank.AccountTypeSaving:
		resp.InterestRate = a.InterestRate.String()
	}
	return resp
}

func toOperationResponse(op bank.Operation) operationResponse {
	minor, _ := op.Amount.MinorUnits()
	return operationResponse{
		ID:          op.ID.String(),
		AccountID:   op.AccountID,
		Type:        string(op.Type),
		AmountMinor: minor,
		Amount:      op.Amount.String(),
		Description: op.Description,
		Date:        op.Date,
	}
}

func toOperationResponses(ops []bank.Operation) []operationResponse {
	out := make([]operationResponse, 0, len(ops))
	for _, op := range ops {
		out = append(out, toOperationResponse(op))
	}
	return out
}
