// Package vapi serves the voice assistant webhook. Function calls are answered
// by the same pipeline as the chat endpoint so voice and text stay consistent.
package vapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"supportrag/internal/middleware"
)

const (
	NoQuestionReply = "I didn't catch that. Could you please repeat your question?"
	LookupFailReply = "I'm having trouble looking that up right now. Please try again in a moment."
)

type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

type Handler struct {
	answerer     Answerer
	functionName string
}

func NewHandler(a Answerer, functionName string) *Handler {
	return &Handler{answerer: a, functionName: functionName}
}

type Webhook struct {
	Message *Message `json:"message"`
}

type Message struct {
	Type         string        `json:"type"`
	Call         *Call         `json:"call,omitempty"`
	Role         string        `json:"role,omitempty"`
	Transcript   string        `json:"transcript,omitempty"`
	FunctionCall *FunctionCall `json:"functionCall,omitempty"`
}

type Call struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type FunctionCall struct {
	Name       string                 `json:"name"`
	Parameters map[string]interface{} `json:"parameters"`
}

// Question prefers "question" and falls back to "query".
func (f *FunctionCall) Question() string {
	for _, key := range []string{"question", "query"} {
		if q, ok := f.Parameters[key].(string); ok && q != "" {
			return q
		}
	}
	return ""
}

func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req Webhook
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.WarnContext(ctx, "invalid webhook body", "error", err)
		h.writeError(ctx, w, "INVALID_JSON", "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.Message == nil {
		h.writeError(ctx, w, "VALIDATION_ERROR", "Missing message payload", http.StatusBadRequest)
		return
	}

	msg := req.Message
	switch msg.Type {
	case "status-update":
		call := Call{}
		if msg.Call != nil {
			call = *msg.Call
		}
		slog.InfoContext(ctx, "vapi call status", "call_id", call.ID, "status", call.Status)
		h.writeJSON(ctx, w, map[string]bool{"received": true})

	case "transcript":
		slog.InfoContext(ctx, "vapi transcript", "role", msg.Role, "transcript", msg.Transcript)
		h.writeJSON(ctx, w, map[string]bool{"received": true})

	case "function-call":
		h.handleFunctionCall(ctx, w, msg.FunctionCall)

	default:
		slog.DebugContext(ctx, "vapi event ignored", "type", msg.Type)
		h.writeJSON(ctx, w, map[string]bool{"received": true})
	}
}

func (h *Handler) handleFunctionCall(ctx context.Context, w http.ResponseWriter, fc *FunctionCall) {
	if fc == nil {
		h.writeError(ctx, w, "VALIDATION_ERROR", "Missing functionCall in message", http.StatusBadRequest)
		return
	}
	if fc.Name != h.functionName {
		slog.WarnContext(ctx, "unknown vapi function", "name", fc.Name)
		h.writeError(ctx, w, "UNKNOWN_FUNCTION", fmt.Sprintf("Unknown function: %s", fc.Name), http.StatusBadRequest)
		return
	}

	question := fc.Question()
	if question == "" {
		h.writeJSON(ctx, w, map[string]string{"result": NoQuestionReply})
		return
	}

	answer, err := h.answerer.Answer(ctx, question)
	if err != nil {
		slog.ErrorContext(ctx, "vapi lookup failed", "error", err)
		h.writeJSON(ctx, w, map[string]string{"result": LookupFailReply})
		return
	}
	h.writeJSON(ctx, w, map[string]string{"result": answer})
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
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
