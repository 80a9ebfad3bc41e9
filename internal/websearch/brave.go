package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const defaultBraveBaseURL = "https://api.search.brave.com"

// BraveSearcher queries the Brave web-search API.
type BraveSearcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewBraveSearcher creates a Brave backed searcher. baseURL defaults to the
// public endpoint if empty.
func NewBraveSearcher(apiKey, baseURL string) *BraveSearcher {
	if baseURL == "" {
		baseURL = defaultBraveBaseURL
	}
	return &BraveSearcher{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (s *BraveSearcher) Name() string {
	return "brave"
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

func (s *BraveSearcher) Search(ctx context.Context, query string, k int) ([]Result, error) {
	endpoint := fmt.Sprintf("%s/res/v1/web/search?q=%s&count=%d", s.baseURL, url.QueryEscape(query), k)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create brave request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("brave returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var raw braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode brave response: %w", err)
	}

	var out []Result
	for i, item := range raw.Web.Results {
		if i >= k {
			break
		}
		out = append(out, Result{Title: item.Title, URL: item.URL, Snippet: item.Description})
	}
	return out, nil
}
