package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/savegress/plantpulse/internal/metrics"
	"github.com/savegress/plantpulse/internal/store"
	"github.com/savegress/plantpulse/pkg/models"
)

// Query limits for dashboard aggregation windows
const (
	dashboardSampleLimit = 500
	dashboardDefectLimit = 500
)

// Service computes dashboard aggregations from the record store
type Service struct {
	store store.RecordStore
}

// NewService creates a new reports service
func NewService(recordStore store.RecordStore) *Service {
	return &Service{store: recordStore}
}

// OEE aggregates production samples into an OEE dashboard with a daily
// OEE trend
func (s *Service) OEE(ctx context.Context, line string, start, end time.Time) (*OEEDashboard, error) {
	samples, err := s.store.ListSamples(ctx, store.SampleFilter{
		Line:  line,
		Start: start,
		End:   end,
		Limit: dashboardSampleLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch samples: %w", err)
	}

	dashboard := &OEEDashboard{
		Line:        line,
		SampleCount: len(samples),
		Trend:       []TrendPoint{},
	}
	if len(samples) == 0 {
		return dashboard, nil
	}

	var availability, performance, quality, oee float64
	for _, sample := range samples {
		availability += sample.Availability
		performance += sample.Performance
		quality += sample.Quality
		oee += sample.OEE
	}
	n := float64(len(samples))
	dashboard.Availability = availability / n
	dashboard.Performance = performance / n
	dashboard.Quality = quality / n
	dashboard.OEE = oee / n
	dashboard.Throughput = metrics.Throughput(samples)
	dashboard.Trend = dailyTrend(samples, func(sample *models.ProductionSample) float64 {
		return sample.OEE
	})

	return dashboard, nil
}

// dailyTrend averages a sample value per calendar day, oldest first
func dailyTrend(samples []*models.ProductionSample, value func(*models.ProductionSample) float64) []TrendPoint {
	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[time.Time]*bucket)
	for _, sample := range samples {
		day := sample.Date.UTC().Truncate(24 * time.Hour)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.sum += value(sample)
		b.count++
	}

	points := make([]TrendPoint, 0, len(buckets))
	for day, b := range buckets {
		points = append(points, TrendPoint{
			Date:  day,
			Value: b.sum / float64(b.count),
		})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return points
}
