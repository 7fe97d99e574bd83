package reports

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/savegress/plantpulse/pkg/models"
)

func TestService_Financial(t *testing.T) {
	service := NewService(&fakeStore{periods: []*models.FinancialPeriod{
		{
			Period:       "2026-07",
			Revenue:      100000,
			MaterialCost: 40000,
			LaborCost:    25000,
			ScrapCost:    5000,
			Savings:      12000,
			Investment:   8000,
		},
		{
			Period:       "2026-08",
			Revenue:      110000,
			MaterialCost: 42000,
			LaborCost:    26000,
			ScrapCost:    4000,
			Savings:      8000,
			Investment:   2000,
		},
	}})

	dashboard, err := service.Financial(context.Background(), day(1), day(31))
	if err != nil {
		t.Fatalf("Financial() error = %v", err)
	}

	if dashboard.PeriodCount != 2 {
		t.Errorf("PeriodCount = %d, want 2", dashboard.PeriodCount)
	}
	if !dashboard.Revenue.Equal(decimal.NewFromInt(210000)) {
		t.Errorf("Revenue = %s, want 210000", dashboard.Revenue)
	}
	// 210000 - (82000 + 51000 + 9000)
	if !dashboard.GrossMargin.Equal(decimal.NewFromInt(68000)) {
		t.Errorf("GrossMargin = %s, want 68000", dashboard.GrossMargin)
	}
	// (20000 - 10000) / 10000 * 100
	if !dashboard.ROI.Equal(decimal.NewFromInt(100)) {
		t.Errorf("ROI = %s, want 100", dashboard.ROI)
	}
}

func TestService_Financial_NoInvestment(t *testing.T) {
	service := NewService(&fakeStore{periods: []*models.FinancialPeriod{
		{Period: "2026-08", Revenue: 50000, Savings: 3000},
	}})

	dashboard, err := service.Financial(context.Background(), day(1), day(31))
	if err != nil {
		t.Fatalf("Financial() error = %v", err)
	}

	if !dashboard.ROI.IsZero() {
		t.Errorf("ROI without investment = %s, want 0", dashboard.ROI)
	}
}

func TestService_Financial_Empty(t *testing.T) {
	service := NewService(&fakeStore{})

	dashboard, err := service.Financial(context.Background(), day(1), day(31))
	if err != nil {
		t.Fatalf("Financial() error = %v", err)
	}

	if dashboard.PeriodCount != 0 || !dashboard.Revenue.IsZero() {
		t.Errorf("expected zeroed dashboard, got %+v", dashboard)
	}
}
