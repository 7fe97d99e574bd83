package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Financial aggregates financial periods overlapping the date range.
// Money math runs on decimals; float64 record fields are converted once
// at the boundary.
func (s *Service) Financial(ctx context.Context, start, end time.Time) (*FinancialDashboard, error) {
	periods, err := s.store.ListPeriods(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch periods: %w", err)
	}

	dashboard := &FinancialDashboard{
		PeriodCount: len(periods),
	}

	for _, p := range periods {
		dashboard.Revenue = dashboard.Revenue.Add(decimal.NewFromFloat(p.Revenue))
		dashboard.MaterialCost = dashboard.MaterialCost.Add(decimal.NewFromFloat(p.MaterialCost))
		dashboard.LaborCost = dashboard.LaborCost.Add(decimal.NewFromFloat(p.LaborCost))
		dashboard.ScrapCost = dashboard.ScrapCost.Add(decimal.NewFromFloat(p.ScrapCost))
		dashboard.Savings = dashboard.Savings.Add(decimal.NewFromFloat(p.Savings))
		dashboard.Investment = dashboard.Investment.Add(decimal.NewFromFloat(p.Investment))
	}

	totalCost := dashboard.MaterialCost.Add(dashboard.LaborCost).Add(dashboard.ScrapCost)
	dashboard.GrossMargin = dashboard.Revenue.Sub(totalCost)

	// ROI over the improvement spend, in percent
	if dashboard.Investment.IsPositive() {
		dashboard.ROI = dashboard.Savings.Sub(dashboard.Investment).
			Div(dashboard.Investment).
			Mul(oneHundred)
	}

	return dashboard, nil
}
