package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/natter-sh/natter/internal/config"
)

// Dictionary looks up word definitions.
type Dictionary struct {
	client  *http.Client
	baseURL string
}

// NewDictionary creates a dictionary plugin from config.
func NewDictionary(cfg config.DictionaryConfig, timeout time.Duration) *Dictionary {
	return &Dictionary{
		client:  &http.Client{Timeout: timeout},
		baseURL: cfg.BaseURL,
	}
}

func (d *Dictionary) Name() string {
	return "define"
}

type dictionaryEntry struct {
	Meanings []struct {
		Definitions []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Run fetches the first definition of the first meaning of the first
// entry. A well-formed response with no definition returns ErrNotFound so
// the caller can tell it apart from a transport failure.
func (d *Dictionary) Run(ctx context.Context, word string) (*Result, error) {
	reqURL := fmt.Sprintf("%s/%s", d.baseURL, url.PathEscape(word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dictionary lookup returned HTTP %d", resp.StatusCode)
	}

	var entries []dictionaryEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("malformed dictionary response: %w", err)
	}

	definition := firstDefinition(entries)
	if definition == "" {
		return nil, fmt.Errorf("no definition for %q: %w", word, ErrNotFound)
	}

	return &Result{
		Content: fmt.Sprintf("Definition of %s: %s", word, definition),
		Data:    json.RawMessage(body),
	}, nil
}

func firstDefinition(entries []dictionaryEntry) string {
	if len(entries) == 0 || len(entries[0].Meanings) == 0 {
		return ""
	}
	defs := entries[0].Meanings[0].Definitions
	if len(defs) == 0 {
		return ""
	}
	return defs[0].Definition
}
