package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/matchpulse/matchpulse/internal/upstream"
	"github.com/matchpulse/matchpulse/internal/usecase"
)

// errorEnvelope is the uniform error body: every failure carries an "error"
// member, either a human-readable message or the provider's diagnostic
// payload.
type errorEnvelope struct {
	Error any `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	_, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

// writeError maps the error taxonomy onto HTTP statuses: caller mistakes are
// 400, upstream replies mirror the provider's status and forward its body,
// transport failures hide the cause behind a generic 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		writeJSON(ctx, w, http.StatusBadRequest, errorEnvelope{Error: err.Error()})
	case errors.Is(err, usecase.ErrNotFound):
		writeJSON(ctx, w, http.StatusNotFound, errorEnvelope{Error: err.Error()})
	case errors.Is(err, usecase.ErrNormalization):
		writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope{Error: err.Error()})
	default:
		if statusErr, ok := upstream.AsStatusError(err); ok {
			writeJSON(ctx, w, statusErr.StatusCode, errorEnvelope{Error: upstreamErrorBody(statusErr)})
			return
		}
		if _, ok := upstream.AsTransportError(err); ok {
			// The raw cause is for operator logs only.
			writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope{Error: "upstream provider unreachable"})
			return
		}
		writeInternalError(ctx, w)
	}
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeJSON(ctx, w, http.StatusInternalServerError, errorEnvelope{Error: "internal server error"})
}

// upstreamErrorBody forwards the provider's own error payload when it decodes
// as JSON, falling back to a plain message.
func upstreamErrorBody(statusErr *upstream.StatusError) any {
	if len(statusErr.Body) > 0 {
		var decoded any
		if err := sonic.Unmarshal(statusErr.Body, &decoded); err == nil && decoded != nil {
			return decoded
		}
	}
	return statusErr.Error()
}
