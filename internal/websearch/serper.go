package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const defaultSerperBaseURL = "https://google.serper.dev"

// SerperSearcher queries Google results through serper.dev.
type SerperSearcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewSerperSearcher creates a serper.dev backed searcher. baseURL defaults
// to the public endpoint if empty.
func NewSerperSearcher(apiKey, baseURL string) *SerperSearcher {
	if baseURL == "" {
		baseURL = defaultSerperBaseURL
	}
	return &SerperSearcher{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (s *SerperSearcher) Name() string {
	return "serper"
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (s *SerperSearcher) Search(ctx context.Context, query string, k int) ([]Result, error) {
	body, err := json.Marshal(serperRequest{Q: query, Num: k})
	if err != nil {
		return nil, fmt.Errorf("marshal serper request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create serper request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("serper returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var raw serperResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode serper response: %w", err)
	}

	var out []Result
	for i, item := range raw.Organic {
		if i >= k {
			break
		}
		out = append(out, Result{Title: item.Title, URL: item.Link, Snippet: item.Snippet})
	}
	return out, nil
}
