// Package catalog fetches the available model list from an
// OpenRouter-compatible endpoint and filters it down to free-tier models.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"chatty/internal/domain"
)

// DefaultFreePriceThreshold is the near-zero unit price below which a
// model counts as free. It is a heuristic, not an exact tier marker, so
// it stays configurable.
const DefaultFreePriceThreshold = 1e-8

// Config configures the catalog client.
type Config struct {
	BaseURL            string
	FreePriceThreshold float64
	Timeout            time.Duration
}

// Client is a minimal REST client for the model catalog.
type Client struct {
	baseURL   string
	threshold float64
	client    *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if cfg.FreePriceThreshold <= 0 {
		cfg.FreePriceThreshold = DefaultFreePriceThreshold
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		threshold: cfg.FreePriceThreshold,
		client:    &http.Client{Timeout: timeout},
	}
}

type modelEntry struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContextLength int    `json:"context_length"`
	Pricing       struct {
		Prompt     string `json:"prompt"`
		Completion string `json:"completion"`
	} `json:"pricing"`
	TopProvider struct {
		ContextLength int `json:"context_length"`
	} `json:"top_provider"`
}

// FreeModels returns the catalog entries whose prompt and completion unit
// prices are both below the free threshold. Any "(free)" marker is
// stripped from display names.
func (c *Client) FreeModels(ctx context.Context) ([]domain.Model, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch models: %s", resp.Status)
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out struct {
		Data []modelEntry `json:"data"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode models: %w", err)
	}
	if out.Data == nil {
		return nil, fmt.Errorf("models response has no data")
	}

	var models []domain.Model
	for _, m := range out.Data {
		if !c.isFree(m) {
			continue
		}
		ctxLen := m.TopProvider.ContextLength
		if ctxLen == 0 {
			ctxLen = m.ContextLength
		}
		models = append(models, domain.Model{
			ID:            m.ID,
			Name:          strings.ReplaceAll(m.Name, " (free)", ""),
			ContextLength: ctxLen,
		})
	}
	return models, nil
}

func (c *Client) isFree(m modelEntry) bool {
	prompt, err := strconv.ParseFloat(m.Pricing.Prompt, 64)
	if err != nil {
		return false
	}
	completion, err := strconv.ParseFloat(m.Pricing.Completion, 64)
	if err != nil {
		return false
	}
	return prompt < c.threshold && completion < c.threshold
}
