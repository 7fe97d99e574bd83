// Package insights generates heuristic findings over recent plant records
package insights

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/savegress/plantpulse/internal/store"
	"github.com/savegress/plantpulse/pkg/models"
)

// Scan windows and thresholds. Windows are fixed per check, not
// configurable at call time.
const (
	cycleTimeWindow  = 100
	scrapWindow      = 100
	downtimeWindow   = 50
	minCycleRecords  = 10
	recentCycleCount = 7

	cycleTimeFactor       = 1.2  // anomaly when actual > factor * window mean
	scrapConcentrationMin = 10   // units before the top defect type is reported
	scrapReductionFactor  = 0.5  // achievable-reduction heuristic
	downtimeRatioMax      = 0.15 // downtime share of planned time
)

// Performance targets used for optimization suggestions (percentages)
const (
	targetAvailability = 90.0
	targetPerformance  = 95.0
	targetQuality      = 99.0
	targetOEE          = 85.0
)

// Engine scans recent record windows for threshold-exceeding conditions
type Engine struct {
	store    store.RecordStore
	enricher Enricher
}

// NewEngine creates a new insight engine. enricher may be nil, in which
// case insights pass through unchanged.
func NewEngine(recordStore store.RecordStore, enricher Enricher) *Engine {
	return &Engine{
		store:    recordStore,
		enricher: enricher,
	}
}

// Generate runs all checks for a line over the date range and returns
// the concatenated insights in check order: cycle time, scrap, downtime.
// Enrichment is best-effort; any enrichment failure returns the
// un-enhanced list.
func (e *Engine) Generate(ctx context.Context, line string, start, end time.Time) ([]*models.Insight, error) {
	cycleSamples, err := e.store.ListSamples(ctx, store.SampleFilter{
		Line:  line,
		Start: start,
		End:   end,
		Limit: cycleTimeWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch cycle window: %w", err)
	}

	defects, err := e.store.ListDefects(ctx, store.DefectFilter{
		Line:  line,
		Start: start,
		End:   end,
		Limit: scrapWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch scrap window: %w", err)
	}

	downtimeSamples, err := e.store.ListSamples(ctx, store.SampleFilter{
		Line:  line,
		Start: start,
		End:   end,
		Limit: downtimeWindow,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch downtime window: %w", err)
	}

	var insights []*models.Insight
	insights = append(insights, CycleTimeAnomalies(cycleSamples)...)
	if scrap := ScrapConcentration(defects); scrap != nil {
		insights = append(insights, scrap)
	}
	insights = append(insights, DowntimeAlerts(downtimeSamples)...)

	if e.enricher != nil {
		enhanced, err := e.enricher.Enhance(ctx, insights)
		if err != nil {
			log.Printf("Insight enrichment failed, returning raw insights: %v", err)
			return insights, nil
		}
		return enhanced, nil
	}

	return insights, nil
}

// CycleTimeAnomalies flags recent samples whose actual cycle time exceeds
// the window mean by more than the anomaly factor. Samples must be sorted
// most recent first. Skipped entirely below minCycleRecords.
func CycleTimeAnomalies(samples []*models.ProductionSample) []*models.Insight {
	if len(samples) < minCycleRecords {
		return nil
	}

	var sum float64
	for _, s := range samples {
		sum += s.ActualCycleTime
	}
	mean := sum / float64(len(samples))

	recent := samples
	if len(recent) > recentCycleCount {
		recent = recent[:recentCycleCount]
	}

	var insights []*models.Insight
	for _, s := range recent {
		if s.ActualCycleTime <= cycleTimeFactor*mean {
			continue
		}
		insights = append(insights, &models.Insight{
			Type:  models.InsightTypeAnomaly,
			Title: fmt.Sprintf("Cycle time spike on line %s", s.Line),
			Description: fmt.Sprintf(
				"Actual cycle time %.2f min is %.0f%% above the recent average of %.2f min (station %s, %s shift).",
				s.ActualCycleTime, (s.ActualCycleTime/mean-1)*100, mean, s.Station, s.Shift),
			Priority: models.InsightPriorityHigh,
			Impact: models.InsightImpact{
				TimeSaved: (s.ActualCycleTime - mean) * float64(s.TotalUnits),
			},
			Actionable: true,
			ActionItems: []string{
				"Inspect tooling and fixtures for wear on the affected station",
				"Review operator changeover logs for the flagged shift",
				"Compare material batch against the previous runs",
			},
		})
	}

	return insights
}

// ScrapConcentration reports the single most frequent defect type in the
// window when its total quantity exceeds the concentration threshold.
// Returns nil when no type qualifies.
func ScrapConcentration(defects []*models.DefectEvent) *models.Insight {
	totals := make(map[string]int)
	for _, d := range defects {
		totals[d.DefectType] += d.Quantity
	}

	var topType string
	var topCount int
	for defectType, count := range totals {
		if count > topCount {
			topType = defectType
			topCount = count
		}
	}

	if topCount <= scrapConcentrationMin {
		return nil
	}

	return &models.Insight{
		Type:  models.InsightTypeOpportunity,
		Title: fmt.Sprintf("Scrap concentrated in defect type %q", topType),
		Description: fmt.Sprintf(
			"%d scrapped units trace to %q, the highest single defect type in the window. Targeting it first yields the largest reduction.",
			topCount, topType),
		Priority: models.InsightPriorityHigh,
		Impact: models.InsightImpact{
			ScrapReduction: scrapReductionFactor * float64(topCount),
		},
		Actionable: true,
		ActionItems: []string{
			"Run a root-cause session on the dominant defect type",
			"Add an in-process check upstream of the defect's detection point",
		},
	}
}

// DowntimeAlerts emits one critical alert per sample whose downtime share
// of planned production time exceeds the downtime ratio. No deduplication
// is applied across samples.
func DowntimeAlerts(samples []*models.ProductionSample) []*models.Insight {
	var insights []*models.Insight
	for _, s := range samples {
		if s.PlannedProductionTime == 0 {
			continue
		}
		ratio := s.Downtime / s.PlannedProductionTime
		if ratio <= downtimeRatioMax {
			continue
		}
		insights = append(insights, &models.Insight{
			Type:  models.InsightTypeAlert,
			Title: fmt.Sprintf("Excessive downtime on line %s", s.Line),
			Description: fmt.Sprintf(
				"Downtime of %.0f min is %.1f%% of the %.0f min planned production time (%s shift).",
				s.Downtime, ratio*100, s.PlannedProductionTime, s.Shift),
			Priority: models.InsightPriorityCritical,
			Impact: models.InsightImpact{
				TimeSaved: s.Downtime,
			},
			Actionable: true,
			ActionItems: []string{
				"Pull the downtime event log for the affected shift",
				"Verify preventive maintenance is current for the line",
				"Escalate recurring stoppage causes to the reliability team",
			},
		})
	}

	return insights
}

// Optimize produces improvement suggestions by comparing the latest
// sample for a line (and optional station) against performance targets.
func (e *Engine) Optimize(ctx context.Context, line, station string) ([]*models.OptimizationSuggestion, error) {
	samples, err := e.store.ListSamples(ctx, store.SampleFilter{
		Line:    line,
		Station: station,
		Limit:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch baseline: %w", err)
	}
	if len(samples) == 0 {
		return []*models.OptimizationSuggestion{}, nil
	}
	baseline := samples[0]

	var suggestions []*models.OptimizationSuggestion

	if baseline.Availability < targetAvailability {
		suggestions = append(suggestions, &models.OptimizationSuggestion{
			Area:  "availability",
			Title: "Reduce unplanned downtime",
			Description: fmt.Sprintf(
				"Availability is %.1f%% against a %.0f%% target. Shortening changeovers and tightening maintenance windows closes most of the gap.",
				baseline.Availability, targetAvailability),
			Priority: models.InsightPriorityHigh,
			Impact: models.InsightImpact{
				TimeSaved: (targetAvailability - baseline.Availability) / 100 * baseline.PlannedProductionTime,
			},
		})
	}

	if baseline.Performance < targetPerformance {
		suggestions = append(suggestions, &models.OptimizationSuggestion{
			Area:  "performance",
			Title: "Close the cycle time gap",
			Description: fmt.Sprintf(
				"Performance is %.1f%% against a %.0f%% target; actual cycle time %.2f min versus %.2f min ideal.",
				baseline.Performance, targetPerformance, baseline.ActualCycleTime, baseline.IdealCycleTime),
			Priority: models.InsightPriorityMedium,
			Impact: models.InsightImpact{
				TimeSaved: (baseline.ActualCycleTime - baseline.IdealCycleTime) * float64(baseline.TotalUnits),
			},
		})
	}

	if baseline.Quality < targetQuality {
		suggestions = append(suggestions, &models.OptimizationSuggestion{
			Area:  "quality",
			Title: "Cut first-pass defects",
			Description: fmt.Sprintf(
				"Quality is %.1f%% against a %.0f%% target (%d defective of %d units).",
				baseline.Quality, targetQuality, baseline.DefectiveUnits, baseline.TotalUnits),
			Priority: models.InsightPriorityHigh,
			Impact: models.InsightImpact{
				ScrapReduction: float64(baseline.DefectiveUnits) * scrapReductionFactor,
			},
		})
	}

	if baseline.OEE < targetOEE && len(suggestions) == 0 {
		suggestions = append(suggestions, &models.OptimizationSuggestion{
			Area:  "oee",
			Title: "Review composite losses",
			Description: fmt.Sprintf(
				"OEE is %.1f%% against a %.0f%% target with all components near target; review loss categorization for hidden stops.",
				baseline.OEE, targetOEE),
			Priority: models.InsightPriorityLow,
		})
	}

	return suggestions, nil
}
