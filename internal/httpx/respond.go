package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error contract shared by every service: a single
// human-readable detail string, mirrored by the gateway verbatim.
type ErrorBody struct {
	Detail string `json:"detail"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, detail string) {
	WriteJSON(w, code, ErrorBody{Detail: detail})
}

// WriteRaw relays an already-encoded JSON body with the given status code.
// Used by the gateway to pass backend responses through untouched.
func WriteRaw(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(body)
}

// BearerToken extracts the token from an Authorization header, or "" when
// the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) > len(prefix) && h[:len(prefix)] == prefix {
		return h[len(prefix):]
	}
	return ""
}
