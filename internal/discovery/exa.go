// Package discovery finds candidate pages on the target site through the Exa search API.
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.exa.ai"

// StatusError is returned when the search API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("exa api error: %d %s", e.StatusCode, e.Body)
}

type Client struct {
	apiKey  string
	domain  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey, domain string) *Client {
	return &Client{
		apiKey:  apiKey,
		domain:  domain,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

type searchRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
}

type searchResponse struct {
	Results []map[string]any `json:"results"`
}

// Search issues one search request and returns result URLs on the target domain,
// in the API's ranking order.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]string, error) {
	body, err := json.Marshal(searchRequest{Query: query, NumResults: numResults})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	slog.DebugContext(ctx, "searching", "query", query, "num_results", numResults)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exa search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode exa response: %w", err)
	}

	urls := FilterDomain(extractURLs(out.Results), c.domain)
	for _, u := range urls {
		slog.InfoContext(ctx, "search result", "url", u)
	}
	return urls, nil
}

func extractURLs(results []map[string]any) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		u, ok := r["url"].(string)
		if !ok || u == "" {
			continue
		}
		urls = append(urls, u)
	}
	return urls
}

// FilterDomain keeps URLs that contain domain, dropping repeats so that chunk ids
// derived from URLs stay unique within a run.
func FilterDomain(urls []string, domain string) []string {
	var kept []string
	seen := make(map[string]bool)
	for _, u := range urls {
		if !strings.Contains(u, domain) || seen[u] {
			continue
		}
		seen[u] = true
		kept = append(kept, u)
	}
	return kept
}
