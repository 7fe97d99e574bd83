package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/savegress/plantpulse/internal/config"
	"github.com/savegress/plantpulse/pkg/models"
)

func testInsights() []*models.Insight {
	return []*models.Insight{
		{
			Type:     models.InsightTypeAnomaly,
			Title:    "Cycle time spike on line line-1",
			Priority: models.InsightPriorityHigh,
		},
	}
}

func TestNewHTTPEnricher_Disabled(t *testing.T) {
	if e := NewHTTPEnricher(config.InsightsConfig{}); e != nil {
		t.Error("expected nil enricher without an endpoint")
	}
}

func TestHTTPEnricher_Enhance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Insights []*models.Insight `json:"insights"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}

		for _, insight := range req.Insights {
			insight.Description = "enriched"
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"insights": req.Insights,
		})
	}))
	defer server.Close()

	enricher := NewHTTPEnricher(config.InsightsConfig{
		EnrichmentURL:     server.URL,
		EnrichmentTimeout: 2 * time.Second,
	})

	got, err := enricher.Enhance(context.Background(), testInsights())
	if err != nil {
		t.Fatalf("Enhance() error = %v", err)
	}
	if len(got) != 1 || got[0].Description != "enriched" {
		t.Errorf("expected enriched insights, got %+v", got)
	}
}

func TestHTTPEnricher_Enhance_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	enricher := NewHTTPEnricher(config.InsightsConfig{EnrichmentURL: server.URL})

	if _, err := enricher.Enhance(context.Background(), testInsights()); err == nil {
		t.Error("expected error for non-2xx status")
	}
}

func TestHTTPEnricher_Enhance_MissingInsights(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	enricher := NewHTTPEnricher(config.InsightsConfig{EnrichmentURL: server.URL})

	if _, err := enricher.Enhance(context.Background(), testInsights()); err == nil {
		t.Error("expected error when response omits insights")
	}
}

func TestEngine_Generate_EnrichmentFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	recordStore := &fakeStore{
		defects: []*models.DefectEvent{{DefectType: "scratch", Quantity: 15}},
	}
	enricher := NewHTTPEnricher(config.InsightsConfig{EnrichmentURL: server.URL})
	engine := NewEngine(recordStore, enricher)

	got, err := engine.Generate(context.Background(), "line-1", time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("Generate() should fall back, got error %v", err)
	}
	if len(got) != 1 || got[0].Type != models.InsightTypeOpportunity {
		t.Errorf("expected raw insight list on enrichment failure, got %+v", got)
	}
}
