package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/savegress/plantpulse/internal/config"
	"github.com/savegress/plantpulse/pkg/models"
)

// Enricher augments a generated insight list through an external service.
// Implementations must treat enrichment as best-effort: callers fall back
// to the raw list on any error.
type Enricher interface {
	Enhance(ctx context.Context, insights []*models.Insight) ([]*models.Insight, error)
}

// HTTPEnricher posts insights to an external enrichment endpoint
type HTTPEnricher struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// NewHTTPEnricher creates an enricher for the configured endpoint.
// Returns nil when no endpoint is configured.
func NewHTTPEnricher(cfg config.InsightsConfig) *HTTPEnricher {
	if cfg.EnrichmentURL == "" {
		return nil
	}

	timeout := cfg.EnrichmentTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &HTTPEnricher{
		url:     cfg.EnrichmentURL,
		headers: cfg.EnrichmentHeaders,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Enhance sends the insight list to the enrichment endpoint and returns
// the enriched list. Every failure mode (transport, status, body) is an
// error; the engine falls back to the raw list.
func (e *HTTPEnricher) Enhance(ctx context.Context, insights []*models.Insight) ([]*models.Insight, error) {
	payload := struct {
		Insights []*models.Insight `json:"insights"`
	}{Insights: insights}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range e.headers {
		req.Header.Set(k, v)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("enrichment service returned status %d", resp.StatusCode)
	}

	var result struct {
		Insights []*models.Insight `json:"insights"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode enrichment response: %w", err)
	}
	if result.Insights == nil {
		return nil, fmt.Errorf("enrichment response missing insights")
	}

	return result.Insights, nil
}
