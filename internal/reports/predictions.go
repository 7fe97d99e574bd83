package reports

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/savegress/plantpulse/internal/store"
	"github.com/savegress/plantpulse/pkg/models"
)

// ErrInvalidMetric is returned for an unknown prediction metric
var ErrInvalidMetric = errors.New("invalid prediction metric")

// Forecast horizon bounds
const (
	defaultForecastDays = 7
	maxForecastDays     = 90
	historyWindowDays   = 30
)

// Predict forecasts a metric for a line over the requested horizon.
// History is reduced to daily values and extrapolated with a linear
// trend; with under two observed days the last value is carried forward.
func (s *Service) Predict(ctx context.Context, metric models.PredictionMetric, line string, days int) ([]*models.Prediction, error) {
	switch metric {
	case models.PredictionMetricLeadTime, models.PredictionMetricThroughput,
		models.PredictionMetricScrap, models.PredictionMetricOEE:
	default:
		return nil, ErrInvalidMetric
	}

	if days <= 0 {
		days = defaultForecastDays
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}

	now := time.Now().UTC()
	start := now.AddDate(0, 0, -historyWindowDays)

	history, err := s.metricHistory(ctx, metric, line, start, now)
	if err != nil {
		return nil, err
	}

	slope, intercept := linearTrend(history)

	predictions := make([]*models.Prediction, 0, days)
	today := now.Truncate(24 * time.Hour)
	for i := 1; i <= days; i++ {
		value := intercept + slope*float64(len(history)-1+i)
		if value < 0 {
			value = 0
		}
		predictions = append(predictions, &models.Prediction{
			Metric: metric,
			Date:   today.AddDate(0, 0, i),
			Value:  value,
		})
	}

	return predictions, nil
}

// metricHistory reduces records to one value per observed day, oldest
// first
func (s *Service) metricHistory(ctx context.Context, metric models.PredictionMetric, line string, start, end time.Time) ([]float64, error) {
	if metric == models.PredictionMetricLeadTime {
		return s.leadTimeHistory(ctx, line, start, end)
	}

	samples, err := s.store.ListSamples(ctx, store.SampleFilter{
		Line:  line,
		Start: start,
		End:   end,
		Limit: dashboardSampleLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch samples: %w", err)
	}

	var trend []TrendPoint
	switch metric {
	case models.PredictionMetricOEE:
		trend = dailyTrend(samples, func(sample *models.ProductionSample) float64 {
			return sample.OEE
		})
	case models.PredictionMetricScrap:
		trend = dailyTrend(samples, func(sample *models.ProductionSample) float64 {
			if sample.TotalUnits == 0 {
				return 0
			}
			return float64(sample.DefectiveUnits) / float64(sample.TotalUnits) * 100
		})
	case models.PredictionMetricThroughput:
		trend = dailyTrend(samples, func(sample *models.ProductionSample) float64 {
			if sample.PlannedProductionTime == 0 {
				return 0
			}
			return float64(sample.GoodUnits) / (sample.PlannedProductionTime / 60)
		})
	}

	values := make([]float64, 0, len(trend))
	for _, p := range trend {
		values = append(values, p.Value)
	}
	return values, nil
}

// leadTimeHistory averages completed-job lead time per completion day
func (s *Service) leadTimeHistory(ctx context.Context, line string, start, end time.Time) ([]float64, error) {
	jobs, err := s.store.ListJobs(ctx, store.JobFilter{
		Line:   line,
		Status: models.JobStatusCompleted,
		Since:  start,
		Limit:  dashboardSampleLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jobs: %w", err)
	}

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[time.Time]*bucket)
	for _, j := range jobs {
		if j.StartTime == nil || j.EndTime == nil {
			continue
		}
		day := j.EndTime.UTC().Truncate(24 * time.Hour)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.sum += j.EndTime.Sub(*j.StartTime).Minutes()
		b.count++
	}

	days := make([]time.Time, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	values := make([]float64, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		values = append(values, b.sum/float64(b.count))
	}
	return values, nil
}

// linearTrend fits a least-squares line over equally spaced values.
// Returns slope 0 and the last value as intercept when fewer than two
// points exist.
func linearTrend(values []float64) (slope, intercept float64) {
	n := len(values)
	if n == 0 {
		return 0, 0
	}
	if n == 1 {
		return 0, values[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	nf := float64(n)
	denom := nf*sumXX - sumX*sumX
	if denom == 0 {
		return 0, values[n-1]
	}

	slope = (nf*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / nf
	return slope, intercept
}
