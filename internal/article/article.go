// Package article persists scraped pages between the extraction and the
// indexing jobs. The file is a JSON array in scrape order.
package article

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Record is one successfully scraped page.
type Record struct {
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Save overwrites path with records. The write goes through a temp file and a rename
// so a crashed run never leaves a truncated document behind.
func Save(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode articles: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp := filepath.Clean(path) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// Load reads the records written by Save, preserving order.
func Load(path string) ([]Record, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 -- path is from application config
	if err != nil {
		return nil, fmt.Errorf("read articles: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}
