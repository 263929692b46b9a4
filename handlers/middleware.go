package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ledgerpress/ledgerpress/db"
)

// Response is the standard JSON envelope for all API responses.
type Response struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// DB is the shared database connection used by all handlers.
var DB *db.DB

// AuthUser and AuthPass are the resolved basic-auth credentials, set from
// config at startup alongside DB. Empty means the API runs unauthenticated.
var (
	AuthUser string
	AuthPass string
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Error: msg})
}

// BasicAuth is middleware that enforces HTTP Basic Authentication against the
// configured AuthUser/AuthPass.
func BasicAuth(next http.Handler) http.Handler {
	user := AuthUser
	pass := AuthPass

	// If no credentials are configured, skip auth
	if user == "" && pass == "" {
		slog.Warn("no auth credentials configured, API is unauthenticated")
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, p, ok := r.BasicAuth()
		if !ok || u != user || p != pass {
			w.Header().Set("WWW-Authenticate", `Basic realm="ledgerpress"`)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
