package ask

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"supportrag/internal/middleware"
)

type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

type Handler struct {
	answerer Answerer
}

func NewHandler(a Answerer) *Handler {
	return &Handler{answerer: a}
}

type Request struct {
	Message *string `json:"message"`
}

type Response struct {
	Answer string `json:"answer"`
}

func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.WarnContext(ctx, "invalid ask body", "error", err)
		h.writeError(ctx, w, "INVALID_JSON", "Missing or invalid 'message' in request body", http.StatusBadRequest)
		return
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		h.writeError(ctx, w, "VALIDATION_ERROR", "Missing or invalid 'message' in request body", http.StatusBadRequest)
		return
	}

	answer, err := h.answerer.Answer(ctx, *req.Message)
	if err != nil {
		slog.ErrorContext(ctx, "answer failed", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "Something went wrong. Please try again.", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(Response{Answer: answer}); err != nil {
		slog.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, code, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
		"correlationId": middleware.GetCorrelationID(ctx),
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}
