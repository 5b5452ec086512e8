// Transfer handler.
package httpapi

import "net/http"

// postTransfer handles POST /v1/accounts/transfer. A successful transfer
// returns 201 with no payload.
func (s *Server) postTransfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decode(r, &req); err != nil {
		badRequest(w, "invalid JSON: "+err.Error())
		return
	}
	if req.SourceID == "" || req.DestinationID == "" {
		badRequest(w, "source_id and destination_id are required")
		return
	}
	if _, _, err := s.ledger.Transfer(r.Context(), req.SourceID, req.DestinationID, req.AmountMinor); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}
