package errs

import "errors"

// Sentinel domain errors for cross-layer signaling. All are recoverable by
// the caller; the HTTP layer maps them to status codes and machine codes.
var (
	ErrAccountNotFound = errors.New("account_not_found")
	// ErrInvalidAmount is returned for amounts <= 0.
	ErrInvalidAmount = errors.New("invalid_amount")
	// ErrInsufficientBalance is returned when a debit would push the balance
	// below the account's minimum-balance bound.
	ErrInsufficientBalance = errors.New("insufficient_balance")
	// ErrSameAccount rejects transfers where source equals destination.
	ErrSameAccount = errors.New("same_account")
	// ErrInvalidPageParams is returned for a non-positive page size or a
	// negative page index.
	ErrInvalidPageParams = errors.New("invalid_page_parameters")
	// ErrTransferFailed wraps a storage fault that aborted a transfer after
	// validation had already passed.
	ErrTransferFailed = errors.New("transfer_failed")
	// ErrInvalidAccount wraps account-opening validation failures.
	ErrInvalidAccount = errors.New("invalid_account")
)
