package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Adnan1921/radnja-tracker/internal/auth"
	"github.com/Adnan1921/radnja-tracker/internal/core"
	applog "github.com/Adnan1921/radnja-tracker/internal/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.ErrorContext(ctx, "Failed to encode response", applog.FieldError, err)
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	writeJSON(ctx, w, status, errorResponse{Error: message})
}

// writeDomainError maps service errors onto HTTP statuses. Validation
// failures surface their reason; anything unexpected becomes a generic 500
// so storage details never leak to the client.
func writeDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(ctx, w, http.StatusBadRequest, verr.Reason)
	case errors.Is(err, core.ErrNotPermitted):
		writeError(ctx, w, http.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(ctx, w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrNoSession):
		writeError(ctx, w, http.StatusUnauthorized, err.Error())
	default:
		slog.ErrorContext(ctx, "Request failed", applog.FieldError, err)
		writeError(ctx, w, http.StatusInternalServerError, "internal error")
	}
}
