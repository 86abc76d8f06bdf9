package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"supportrag/internal/config"
	"supportrag/internal/vector"
)

const DefaultTopK = 5

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Searcher interface {
	Query(ctx context.Context, values []float32, topK int) ([]vector.Match, error)
}

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Service struct {
	embedder Embedder
	index    Searcher
	chat     Completer
	brand    string
	topK     int
	logger   *QueryLogger
}

func NewService(e Embedder, idx Searcher, c Completer, brand string, topK int, l *QueryLogger) *Service {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Service{embedder: e, index: idx, chat: c, brand: brand, topK: topK, logger: l}
}

// Search returns the nearest chunks to the question.
func (s *Service) Search(ctx context.Context, question string) ([]vector.Match, error) {
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	matches, err := s.index.Query(ctx, vec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	return matches, nil
}

// Answer pulls the nearest chunks and asks the chat model to answer from them alone.
func (s *Service) Answer(ctx context.Context, question string) (string, error) {
	start := time.Now()
	var matches []vector.Match
	var err error

	defer func() {
		if s.logger != nil && err == nil {
			s.logger.Log(ctx, QueryLogEntry{
				Query:      question,
				NumResults: len(matches),
				Duration:   time.Since(start),
			})
		}
	}()

	matches, err = s.Search(ctx, question)
	if err != nil {
		return "", err
	}

	prompt := BuildPrompt(s.brand, JoinContext(matches), question)

	answer, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return answer, nil
}

// JoinContext concatenates match texts, separated by blank lines. Matches
// without text are skipped.
func JoinContext(matches []vector.Match) string {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.Metadata.Text == "" {
			continue
		}
		parts = append(parts, m.Metadata.Text)
	}
	return strings.Join(parts, "\n\n")
}

func BuildPrompt(brand, context, question string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s’s official support assistant. ", brand)
	b.WriteString("You must only answer using the provided documentation snippets. ")
	fmt.Fprintf(&b, "If the answer isn’t clear in the context, say: '%s' ", config.FallbackAnswer)
	b.WriteString("Be clear and concise.\n\n")
	fmt.Fprintf(&b, "Context:\n%s\n\n", context)
	fmt.Fprintf(&b, "Question: %s", question)
	return b.String()
}
