// Account handlers: open, get, list.
package httpapi

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"

	"github.com/sidbank/ledger-core/internal/bank"
	"github.com/sidbank/ledger-core/internal/service/account"
)

func (s *Server) postAccount(w http.ResponseWriter, r *http.Request) {
	var req postAccountRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	acc, err := s.accounts.Open(r.Context(), account.OpenInput{
		ID:             req.ID,
		Name:           req.Name,
		Currency:       req.Currency,
		Type:           bank.AccountType(req.Type),
		BalanceMinor:   req.BalanceMinor,
		OverdraftMinor: req.OverdraftMinor,
		InterestRate:   req.InterestRate,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusCreated, toAccountResponse(acc))
}

// getAccount handles GET /v1/accounts/{id}
func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	acc, err := s.accounts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	toJSON(w, http.StatusOK, toAccountResponse(acc))
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accs, err := s.accounts.List(r.Context())
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]accountResponse, 0, len(accs))
	for _, a := range accs {
		out = append(out, toAccountResponse(a))
	}
	toJSON(w, http.StatusOK, out)
}
