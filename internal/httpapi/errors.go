package httpapi

import (
	"errors"
	"net/http"

	"github.com/sidbank/ledger-core/internal/errs"
	"github.com/sidbank/ledger-core/internal/service/account"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }
func notFound(w http.ResponseWriter) {
	writeErr(w, http.StatusNotFound, "account_not_found", "account_not_found")
}

// writeDomainErr maps the domain error taxonomy onto HTTP statuses and
// machine codes, unchanged in meaning.
func writeDomainErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrAccountNotFound):
		notFound(w)
	case errors.Is(err, errs.ErrInvalidAmount):
		writeErr(w, http.StatusUnprocessableEntity, "amount must be > 0", "invalid_amount")
	case errors.Is(err, errs.ErrInsufficientBalance):
		writeErr(w, http.StatusUnprocessableEntity, "balance not sufficient", "insufficient_balance")
	case errors.Is(err, errs.ErrSameAccount):
		writeErr(w, http.StatusUnprocessableEntity, "source and destination are the same account", "same_account")
	case errors.Is(err, errs.ErrInvalidPageParams):
		writeErr(w, http.StatusUnprocessableEntity, "page must be >= 0 and size >= 1", "invalid_page_parameters")
	case errors.Is(err, errs.ErrInvalidAccount):
		writeErr(w, http.StatusUnprocessableEntity, err.Error(), "invalid_account")
	case errors.Is(err, errs.ErrTransferFailed):
		writeErr(w, http.StatusBadGateway, err.Error(), "transfer_failed")
	case errors.Is(err, account.ErrAccountExists):
		writeErr(w, http.StatusConflict, err.Error(), "account_exists")
	default:
		writeErr(w, http.StatusInternalServerError, "internal error", "")
	}
}
