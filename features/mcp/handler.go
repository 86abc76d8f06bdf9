// Package mcp exposes the support knowledge base as MCP tools over the
// streamable HTTP transport.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"supportrag/internal/vector"
)

const Version = "1.0.0"

var ErrEmptyQuestion = errors.New("question is required")

type Retriever interface {
	Search(ctx context.Context, question string) ([]vector.Match, error)
	Answer(ctx context.Context, question string) (string, error)
}

type Handler struct {
	retriever Retriever
	server    *mcp.Server
}

func NewHandler(r Retriever, brand string) *Handler {
	h := &Handler{
		retriever: r,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "supportrag",
			Version: Version,
		}, nil),
	}

	mcp.AddTool(h.server, &mcp.Tool{
		Name:        "support_ask",
		Description: fmt.Sprintf("Answers a customer question using %s's indexed support pages only.", brand),
	}, h.handleAsk)

	mcp.AddTool(h.server, &mcp.Tool{
		Name:        "support_search",
		Description: "Returns the documentation snippets nearest to a question, with source URLs and scores.",
	}, h.handleSearch)

	return h
}

// Server is exposed for in-process transports.
func (h *Handler) Server() *mcp.Server {
	return h.server
}

// HTTPHandler serves MCP sessions. All sessions share one server.
func (h *Handler) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return h.server
	}, nil)
}

type QuestionInput struct {
	Question string `json:"question" jsonschema:"the customer's question"`
}

type AskOutput struct {
	Answer string `json:"answer"`
}

type SearchOutput struct {
	Results []SearchResult `json:"results"`
	Count   int            `json:"count"`
}

type SearchResult struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float32 `json:"score"`
}

func (h *Handler) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, in QuestionInput) (*mcp.CallToolResult, AskOutput, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, AskOutput{}, ErrEmptyQuestion
	}

	answer, err := h.retriever.Answer(ctx, in.Question)
	if err != nil {
		slog.ErrorContext(ctx, "mcp ask failed", "error", err)
		return nil, AskOutput{}, err
	}

	slog.InfoContext(ctx, "tool execution completed", "tool", "support_ask")
	return nil, AskOutput{Answer: answer}, nil
}

func (h *Handler) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, in QuestionInput) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(in.Question) == "" {
		return nil, SearchOutput{}, ErrEmptyQuestion
	}

	matches, err := h.retriever.Search(ctx, in.Question)
	if err != nil {
		slog.ErrorContext(ctx, "mcp search failed", "error", err)
		return nil, SearchOutput{}, err
	}

	out := SearchOutput{
		Results: make([]SearchResult, len(matches)),
		Count:   len(matches),
	}
	for i, m := range matches {
		out.Results[i] = SearchResult{
			ID:     m.ID,
			Source: m.Metadata.Source,
			Text:   m.Metadata.Text,
			Score:  m.Score,
		}
	}

	slog.InfoContext(ctx, "tool execution completed", "tool", "support_search", "result_count", out.Count)
	return nil, out, nil
}
