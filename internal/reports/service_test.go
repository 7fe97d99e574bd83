package reports

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/savegress/plantpulse/internal/store"
	"github.com/savegress/plantpulse/pkg/models"
)

type fakeStore struct {
	store.RecordStore
	samples    []*models.ProductionSample
	defects    []*models.DefectEvent
	jobs       []*models.JobRecord
	periods    []*models.FinancialPeriod
	feedback   []*models.CustomerFeedback
	deliveries []*models.DeliveryEvent
	projects   []*models.ImprovementProject
}

func (f *fakeStore) ListSamples(ctx context.Context, filter store.SampleFilter) ([]*models.ProductionSample, error) {
	return f.samples, nil
}

func (f *fakeStore) ListDefects(ctx context.Context, filter store.DefectFilter) ([]*models.DefectEvent, error) {
	return f.defects, nil
}

func (f *fakeStore) ListJobs(ctx context.Context, filter store.JobFilter) ([]*models.JobRecord, error) {
	return f.jobs, nil
}

func (f *fakeStore) ListPeriods(ctx context.Context, start, end time.Time) ([]*models.FinancialPeriod, error) {
	return f.periods, nil
}

func (f *fakeStore) ListFeedback(ctx context.Context, start, end time.Time) ([]*models.CustomerFeedback, error) {
	return f.feedback, nil
}

func (f *fakeStore) ListDeliveries(ctx context.Context, start, end time.Time) ([]*models.DeliveryEvent, error) {
	return f.deliveries, nil
}

func (f *fakeStore) ListProjects(ctx context.Context) ([]*models.ImprovementProject, error) {
	return f.projects, nil
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func day(d int) time.Time {
	return time.Date(2026, 8, d, 10, 0, 0, 0, time.UTC)
}

func TestService_OEE(t *testing.T) {
	service := NewService(&fakeStore{samples: []*models.ProductionSample{
		{
			Line: "line-1", Date: day(2),
			Availability: 90, Performance: 95, Quality: 99, OEE: 84.645,
			GoodUnits: 100, PlannedProductionTime: 60,
		},
		{
			Line: "line-1", Date: day(1),
			Availability: 80, Performance: 85, Quality: 97, OEE: 65.96,
			GoodUnits: 80, PlannedProductionTime: 60,
		},
	}})

	dashboard, err := service.OEE(context.Background(), "line-1", day(1), day(3))
	if err != nil {
		t.Fatalf("OEE() error = %v", err)
	}

	if dashboard.SampleCount != 2 {
		t.Errorf("SampleCount = %d, want 2", dashboard.SampleCount)
	}
	if !almostEqual(dashboard.Availability, 85) {
		t.Errorf("Availability = %v, want 85", dashboard.Availability)
	}
	if !almostEqual(dashboard.Performance, 90) {
		t.Errorf("Performance = %v, want 90", dashboard.Performance)
	}
	if !almostEqual(dashboard.Quality, 98) {
		t.Errorf("Quality = %v, want 98", dashboard.Quality)
	}
	if !almostEqual(dashboard.OEE, 75.3025) {
		t.Errorf("OEE = %v, want 75.3025", dashboard.OEE)
	}
	// 180 good units over 2 planned hours
	if !almostEqual(dashboard.Throughput, 90) {
		t.Errorf("Throughput = %v, want 90", dashboard.Throughput)
	}

	if len(dashboard.Trend) != 2 {
		t.Fatalf("expected 2 trend points, got %d", len(dashboard.Trend))
	}
	if !dashboard.Trend[0].Date.Before(dashboard.Trend[1].Date) {
		t.Error("trend points should be sorted oldest first")
	}
	if !almostEqual(dashboard.Trend[0].Value, 65.96) {
		t.Errorf("trend[0] = %v, want 65.96", dashboard.Trend[0].Value)
	}
}

func TestService_OEE_Empty(t *testing.T) {
	service := NewService(&fakeStore{})

	dashboard, err := service.OEE(context.Background(), "ghost", day(1), day(2))
	if err != nil {
		t.Fatalf("OEE() error = %v", err)
	}

	if dashboard.SampleCount != 0 || dashboard.OEE != 0 {
		t.Errorf("empty range should produce a zeroed dashboard, got %+v", dashboard)
	}
	if dashboard.Trend == nil {
		t.Error("Trend should be an empty slice, not nil")
	}
}

func TestDailyTrend_BucketsByDay(t *testing.T) {
	samples := []*models.ProductionSample{
		{Date: time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC), OEE: 60},
		{Date: time.Date(2026, 8, 1, 16, 0, 0, 0, time.UTC), OEE: 80},
		{Date: time.Date(2026, 8, 2, 8, 0, 0, 0, time.UTC), OEE: 90},
	}

	trend := dailyTrend(samples, func(s *models.ProductionSample) float64 { return s.OEE })

	if len(trend) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(trend))
	}
	if !almostEqual(trend[0].Value, 70) {
		t.Errorf("day 1 average = %v, want 70", trend[0].Value)
	}
	if !almostEqual(trend[1].Value, 90) {
		t.Errorf("day 2 average = %v, want 90", trend[1].Value)
	}
}
