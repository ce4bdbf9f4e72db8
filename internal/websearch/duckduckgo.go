// Package websearch provides the web search collaborator used to enrich
// chat context. Provider failures are rendered as a synthetic result so
// downstream formatting never special-cases them.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"chatty/internal/domain"
)

// DefaultResults is how many hits a search requests by default.
const DefaultResults = 5

// Config configures the DuckDuckGo provider.
type Config struct {
	BaseURL string
	Region  string
	Timeout time.Duration
}

// DuckDuckGo queries the DuckDuckGo instant answer API.
type DuckDuckGo struct {
	baseURL string
	region  string
	client  *http.Client
}

func NewDuckDuckGo(cfg Config) *DuckDuckGo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.duckduckgo.com"
	}
	if cfg.Region == "" {
		cfg.Region = "us-en"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &DuckDuckGo{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		region:  cfg.Region,
		client:  &http.Client{Timeout: timeout},
	}
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	Heading       string     `json:"Heading"`
	AbstractText  string     `json:"AbstractText"`
	AbstractURL   string     `json:"AbstractURL"`
	RelatedTopics []ddgTopic `json:"RelatedTopics"`
}

// Search returns up to n results for the query. A blank query yields no
// results; a provider error yields a single descriptive pseudo-result.
func (d *DuckDuckGo) Search(ctx context.Context, query string, n int) []domain.SearchResult {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	if n <= 0 {
		n = DefaultResults
	}
	body, err := d.fetch(ctx, query)
	if err != nil {
		return []domain.SearchResult{{Title: "Search error", Snippet: err.Error()}}
	}
	var resp ddgResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return []domain.SearchResult{{Title: "Search error", Snippet: err.Error()}}
	}

	var results []domain.SearchResult
	if resp.AbstractText != "" {
		results = append(results, domain.SearchResult{
			Title:   resp.Heading,
			URL:     resp.AbstractURL,
			Snippet: resp.AbstractText,
		})
	}
	results = appendTopics(results, resp.RelatedTopics, n)
	if len(results) > n {
		results = results[:n]
	}
	return results
}

func (d *DuckDuckGo) fetch(ctx context.Context, query string) ([]byte, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")
	params.Set("kl", d.region)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func appendTopics(results []domain.SearchResult, topics []ddgTopic, n int) []domain.SearchResult {
	for _, t := range topics {
		if len(results) >= n {
			break
		}
		if len(t.Topics) > 0 {
			results = appendTopics(results, t.Topics, n)
			continue
		}
		if t.Text == "" {
			continue
		}
		title := t.Text
		if i := strings.Index(title, " - "); i > 0 {
			title = title[:i]
		}
		results = append(results, domain.SearchResult{
			Title:   title,
			URL:     t.FirstURL,
			Snippet: t.Text,
		})
	}
	return results
}

// RenderBlock formats results as numbered title/URL/snippet blocks
// separated by blank lines.
func RenderBlock(results []domain.SearchResult) string {
	lines := make([]string, 0, len(results))
	for i, r := range results {
		title := r.Title
		if title == "" {
			title = "No title"
		}
		lines = append(lines, fmt.Sprintf("[%d] %s\nURL: %s\nSnippet: %s", i+1, title, r.URL, r.Snippet))
	}
	return strings.Join(lines, "\n\n")
}
