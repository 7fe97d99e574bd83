package reports

import (
	"context"
	"testing"

	"github.com/savegress/plantpulse/pkg/models"
)

func TestService_ScrapPareto(t *testing.T) {
	service := NewService(&fakeStore{
		defects: []*models.DefectEvent{
			{DefectType: "scratch", Quantity: 30, Cost: 150},
			{DefectType: "dent", Quantity: 50, Cost: 500},
			{DefectType: "scratch", Quantity: 10, Cost: 50},
			{DefectType: "misalign", Quantity: 10, Cost: 200},
		},
		samples: []*models.ProductionSample{
			{TotalUnits: 1000},
		},
	})

	dashboard, err := service.ScrapPareto(context.Background(), "line-1", day(1), day(3))
	if err != nil {
		t.Fatalf("ScrapPareto() error = %v", err)
	}

	if dashboard.TotalQuantity != 100 {
		t.Errorf("TotalQuantity = %d, want 100", dashboard.TotalQuantity)
	}
	if !almostEqual(dashboard.TotalCost, 900) {
		t.Errorf("TotalCost = %v, want 900", dashboard.TotalCost)
	}
	if !almostEqual(dashboard.ScrapPercentage, 10) {
		t.Errorf("ScrapPercentage = %v, want 10", dashboard.ScrapPercentage)
	}

	if len(dashboard.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(dashboard.Entries))
	}

	// Sorted descending by quantity: dent 50, scratch 40, misalign 10
	wantOrder := []string{"dent", "scratch", "misalign"}
	wantCumulative := []float64{50, 90, 100}
	for i, entry := range dashboard.Entries {
		if entry.DefectType != wantOrder[i] {
			t.Errorf("entries[%d] = %q, want %q", i, entry.DefectType, wantOrder[i])
		}
		if !almostEqual(entry.CumulativePercent, wantCumulative[i]) {
			t.Errorf("entries[%d].CumulativePercent = %v, want %v", i, entry.CumulativePercent, wantCumulative[i])
		}
	}
}

func TestService_ScrapPareto_TieBreaksAlphabetically(t *testing.T) {
	service := NewService(&fakeStore{
		defects: []*models.DefectEvent{
			{DefectType: "dent", Quantity: 5},
			{DefectType: "burr", Quantity: 5},
		},
	})

	dashboard, err := service.ScrapPareto(context.Background(), "", day(1), day(2))
	if err != nil {
		t.Fatalf("ScrapPareto() error = %v", err)
	}

	if dashboard.Entries[0].DefectType != "burr" {
		t.Errorf("tied quantities should sort alphabetically, got %q first", dashboard.Entries[0].DefectType)
	}
}

func TestService_ScrapPareto_Empty(t *testing.T) {
	service := NewService(&fakeStore{})

	dashboard, err := service.ScrapPareto(context.Background(), "line-1", day(1), day(2))
	if err != nil {
		t.Fatalf("ScrapPareto() error = %v", err)
	}

	if dashboard.TotalQuantity != 0 || len(dashboard.Entries) != 0 {
		t.Errorf("expected empty dashboard, got %+v", dashboard)
	}
}
