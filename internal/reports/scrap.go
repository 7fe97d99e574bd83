package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/savegress/plantpulse/internal/metrics"
	"github.com/savegress/plantpulse/internal/store"
)

// ScrapPareto ranks defect types by quantity over a line and date range,
// with each entry carrying its cumulative share of the total.
func (s *Service) ScrapPareto(ctx context.Context, line string, start, end time.Time) (*ParetoDashboard, error) {
	defects, err := s.store.ListDefects(ctx, store.DefectFilter{
		Line:  line,
		Start: start,
		End:   end,
		Limit: dashboardDefectLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch defects: %w", err)
	}

	// The scrap ratio needs samples over the identical filter
	samples, err := s.store.ListSamples(ctx, store.SampleFilter{
		Line:  line,
		Start: start,
		End:   end,
		Limit: dashboardSampleLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch samples: %w", err)
	}

	type accum struct {
		quantity int
		cost     float64
	}
	byType := make(map[string]*accum)
	var totalQuantity int
	var totalCost float64
	for _, d := range defects {
		a, ok := byType[d.DefectType]
		if !ok {
			a = &accum{}
			byType[d.DefectType] = a
		}
		a.quantity += d.Quantity
		a.cost += d.Cost
		totalQuantity += d.Quantity
		totalCost += d.Cost
	}

	entries := make([]ParetoEntry, 0, len(byType))
	for defectType, a := range byType {
		entries = append(entries, ParetoEntry{
			DefectType: defectType,
			Quantity:   a.quantity,
			Cost:       a.cost,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Quantity != entries[j].Quantity {
			return entries[i].Quantity > entries[j].Quantity
		}
		return entries[i].DefectType < entries[j].DefectType
	})

	var cumulative float64
	for i := range entries {
		if totalQuantity > 0 {
			entries[i].Percentage = float64(entries[i].Quantity) / float64(totalQuantity) * 100
		}
		cumulative += entries[i].Percentage
		entries[i].CumulativePercent = cumulative
	}

	return &ParetoDashboard{
		Line:            line,
		TotalQuantity:   totalQuantity,
		TotalCost:       totalCost,
		ScrapPercentage: metrics.ScrapPercentage(defects, samples),
		Entries:         entries,
	}, nil
}
