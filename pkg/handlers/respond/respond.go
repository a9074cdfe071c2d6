// Package respond writes JSON responses for the HTTP handlers.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/api"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Error writes an api.Error body.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, api.Error{Error: msg})
}

// Internal logs err and writes a generic 500. Storage details never reach the client.
func Internal(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.ErrorContext(r.Context(), msg, "path", r.URL.Path, "error", err)
	Error(w, http.StatusInternalServerError, msg)
}

// Decode reads a JSON request body into v, writing a 400 on failure.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// ParamError is the ChiServerOptions.ErrorHandlerFunc for malformed parameters.
func ParamError(w http.ResponseWriter, r *http.Request, err error) {
	Error(w, http.StatusBadRequest, err.Error())
}
