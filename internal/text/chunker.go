package text

import (
	"fmt"
	"strings"

	"supportrag/internal/article"
)

// Metadata is stored next to each vector and read back verbatim as retrieval context.
type Metadata struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

type Chunk struct {
	ID       string
	Text     string
	Metadata Metadata
}

// SplitWords cuts content into consecutive, non-overlapping windows of at most
// maxWords whitespace-separated words. Empty content yields no windows.
func SplitWords(content string, maxWords int) []string {
	if maxWords <= 0 {
		return nil
	}

	words := strings.Fields(content)
	if len(words) == 0 {
		return nil
	}

	windows := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for i := 0; i < len(words); i += maxWords {
		end := i + maxWords
		if end > len(words) {
			end = len(words)
		}
		windows = append(windows, strings.Join(words[i:end], " "))
	}
	return windows
}

// ChunkID is unique per (url, index). Re-indexing the same page reuses the same ids.
func ChunkID(url string, index int) string {
	return fmt.Sprintf("%s--%d", url, index)
}

// BuildChunks windows every record in order.
func BuildChunks(records []article.Record, maxWords int) []Chunk {
	var chunks []Chunk
	for _, rec := range records {
		for i, window := range SplitWords(rec.Content, maxWords) {
			chunks = append(chunks, Chunk{
				ID:   ChunkID(rec.URL, i),
				Text: window,
				Metadata: Metadata{
					Source: rec.URL,
					Text:   window,
				},
			})
		}
	}
	return chunks
}
