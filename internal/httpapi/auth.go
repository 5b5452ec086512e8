package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"
)

// tokenClaims is the subset of JWT claims the ledger API checks. Subject is
// carried through for request logging; everything else gates access.
type tokenClaims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Audience  any    `json:"aud,omitempty"` // string or []string
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
}

// openPaths are reachable without a token so probes and scrapers keep working
// when auth is on.
var openPaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

// decodeSegment decodes one base64url token segment, tolerating missing
// padding.
func decodeSegment(s string) ([]byte, error) {
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(s)
}

// verifyHS256 checks the token signature against the shared secret and
// returns the claims. Only alg HS256 is accepted; in particular "none" and
// asymmetric algs are rejected outright.
func verifyHS256(token, secret string) (tokenClaims, error) {
	var empty tokenClaims
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return empty, errors.New("not a compact JWT")
	}
	headerB, err := decodeSegment(parts[0])
	if err != nil {
		return empty, errors.New("undecodable header")
	}
	payloadB, err := decodeSegment(parts[1])
	if err != nil {
		return empty, errors.New("undecodable payload")
	}
	sigB, err := decodeSegment(parts[2])
	if err != nil {
		return empty, errors.New("undecodable signature")
	}
	var hdr struct{ Alg string }
	if err := json.Unmarshal(headerB, &hdr); err != nil {
		return empty, errors.New("malformed header")
	}
	if !strings.EqualFold(hdr.Alg, "HS256") {
		return empty, errors.New("unsupported alg")
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(parts[0]))
	mac.Write([]byte{'.'})
	mac.Write([]byte(parts[1]))
	if !hmac.Equal(sigB, mac.Sum(nil)) {
		return empty, errors.New("signature mismatch")
	}
	var claims tokenClaims
	if err := json.Unmarshal(payloadB, &claims); err != nil {
		return empty, errors.New("malformed claims")
	}
	return claims, nil
}

func (c tokenClaims) valid(now int64, issuer, audience string) error {
	if c.NotBefore != 0 && now < c.NotBefore {
		return errors.New("token not yet valid")
	}
	if c.ExpiresAt != 0 && now >= c.ExpiresAt {
		return errors.New("token expired")
	}
	if issuer != "" && !strings.EqualFold(c.Issuer, issuer) {
		return errors.New("wrong issuer")
	}
	if audience != "" && !audienceMatches(c.Audience, audience) {
		return errors.New("wrong audience")
	}
	return nil
}

func audienceMatches(aud any, expected string) bool {
	switch v := aud.(type) {
	case string:
		return strings.EqualFold(v, expected)
	case []any:
		for _, it := range v {
			if s, ok := it.(string); ok && strings.EqualFold(s, expected) {
				return true
			}
		}
	case []string:
		for _, s := range v {
			if strings.EqualFold(s, expected) {
				return true
			}
		}
	}
	return false
}

// authJWTFromEnv guards the account surface with a bearer JWT (HS256) when
// JWT_HS256_SECRET is set. JWT_ISSUER and JWT_AUDIENCE tighten the check when
// present. Returns nil when auth is not configured.
func authJWTFromEnv() func(http.Handler) http.Handler {
	secret := strings.TrimSpace(os.Getenv("JWT_HS256_SECRET"))
	if secret == "" {
		return nil
	}
	issuer := strings.TrimSpace(os.Getenv("JWT_ISSUER"))
	audience := strings.TrimSpace(os.Getenv("JWT_AUDIENCE"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if openPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			tok, ok := bearerToken(r)
			if !ok {
				writeErr(w, http.StatusUnauthorized, "missing bearer token", "unauthorized")
				return
			}
			claims, err := verifyHS256(tok, secret)
			if err != nil {
				writeErr(w, http.StatusUnauthorized, "invalid token", "unauthorized")
				return
			}
			if err := claims.valid(time.Now().Unix(), issuer, audience); err != nil {
				writeErr(w, http.StatusUnauthorized, "invalid token", "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
