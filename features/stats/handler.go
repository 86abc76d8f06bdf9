package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"supportrag/internal/middleware"
)

type VectorCounter interface {
	Count(ctx context.Context) (int, error)
}

type Handler struct {
	index     VectorCounter
	indexName string
	dimension int
}

func NewHandler(idx VectorCounter, indexName string, dimension int) *Handler {
	return &Handler{index: idx, indexName: indexName, dimension: dimension}
}

type StatsResponse struct {
	Vectors   int    `json:"vectors"`
	Dimension int    `json:"dimension"`
	Index     string `json:"index"`
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slog.InfoContext(ctx, "getting stats")

	count, err := h.index.Count(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count vectors", "error", err)
		h.writeError(ctx, w, "INTERNAL_ERROR", "failed to count vectors", http.StatusInternalServerError)
		return
	}

	resp := StatsResponse{
		Vectors:   count,
		Dimension: h.dimension,
		Index:     h.indexName,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{"data": resp}); err != nil {
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
