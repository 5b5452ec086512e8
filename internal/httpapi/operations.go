// Operation handlers: history reads and single-account mutations.
package httpapi

import (
	"net/http"
	"strconv"

	chi "github.com/go-chi/chi/v5"

	"github.com/sidbank/ledger-core/internal/service/history"
)

// getHistory handles GET /v1/accounts/{id}/operations
func (s *Server) getHistory(w http.ResponseWriter, r *http.Request) {
	ops, err := s.history.FullHistory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toOperationResponses(ops))
}

// getPagedHistory handles GET /v1/accounts/{id}/operations/paged?page=0&size=5
func (s *Server) getPagedHistory(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "id")
	page, ok := intQuery(w, r, "page", 0)
	if !ok {
		return
	}
	size, ok := intQuery(w, r, "size", history.DefaultPageSize)
	if !ok {
		return
	}
	pg, err := s.history.PagedHistory(r.Context(), accountID, page, size)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	acc, err := s.accounts.Get(r.Context(), accountID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	balanceMinor, _ := acc.Balance.MinorUnits()
	toJSON(w, http.StatusOK, pageResponse{
		AccountID:     acc.ID,
		BalanceMinor:  balanceMinor,
		Operations:    toOperationResponses(pg.Operations),
		Page:          pg.Page,
		Size:          pg.Size,
		TotalElements: pg.TotalElements,
		TotalPages:    pg.TotalPages,
	})
}

// postDebit handles POST /v1/accounts/debit
func (s *Server) postDebit(w http.ResponseWriter, r *http.Request) {
	var req debitRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.AccountID == "" {
		badRequest(w, "account_id is required")
		return
	}
	op, err := s.ledger.Debit(r.Context(), req.AccountID, req.AmountMinor, req.Description)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toOperationResponse(op))
}

// postCredit handles POST /v1/accounts/credit
func (s *Server) postCredit(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.AccountID == "" {
		badRequest(w, "account_id is required")
		return
	}
	op, err := s.ledger.Credit(r.Context(), req.AccountID, req.AmountMinor, req.Description)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toOperationResponse(op))
}

// intQuery parses an optional integer query parameter, writing a 400 on
// malformed input.
func intQuery(w http.ResponseWriter, r *http.Request, key string, fallback int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(w, "invalid "+key)
		return 0, false
	}
	return n, true
}
