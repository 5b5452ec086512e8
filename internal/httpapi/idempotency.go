package httpapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
)

// storedReply is the captured outcome of an idempotent request, replayed
// verbatim when the same key arrives again with the same body.
type storedReply struct {
	bodyHash string
	status   int
	payload  []byte
}

func hashBody(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// captureWriter records status and payload while still writing through.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    []byte
}

func (w *captureWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *captureWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	w.buf = append(w.buf, b...)
	return w.ResponseWriter.Write(b)
}

// idempotent makes a money-moving handler safe to retry. When the request
// carries an Idempotency-Key, the first outcome for that key is stored and
// every repeat with an identical body gets it back without touching the
// ledger again. The same key with a different body is a conflict.
func (s *Server) idempotent(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		if key == "" {
			next(w, r)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			badRequest(w, "cannot read body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		h := hashBody(body)

		s.idemMu.RLock()
		prev, seen := s.idem[key]
		s.idemMu.RUnlock()
		if seen {
			if prev.bodyHash != h {
				writeErr(w, http.StatusConflict, "idempotency key reused with a different body", "idempotency_mismatch")
				return
			}
			if len(prev.payload) > 0 {
				w.Header().Set("Content-Type", "application/json")
			}
			w.WriteHeader(prev.status)
			_, _ = w.Write(prev.payload)
			return
		}

		cw := &captureWriter{ResponseWriter: w}
		next(cw, r)
		if cw.status == 0 {
			cw.status = http.StatusOK
		}
		s.idemMu.Lock()
		s.idem[key] = storedReply{bodyHash: h, status: cw.status, payload: append([]byte(nil), cw.buf...)}
		s.idemMu.Unlock()
	}
}
