package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/savegress/plantpulse/pkg/models"
)

func newTestStore(t *testing.T) *EmbeddedStore {
	t.Helper()
	s, err := NewEmbeddedStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewEmbeddedStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleAt(line string, date time.Time, oee float64) *models.ProductionSample {
	return &models.ProductionSample{
		Line:                  line,
		Shift:                 models.ShiftMorning,
		Date:                  date,
		PlannedProductionTime: 480,
		Downtime:              30,
		IdealCycleTime:        2,
		ActualCycleTime:       2.2,
		TotalUnits:            200,
		GoodUnits:             190,
		DefectiveUnits:        10,
		Availability:          93.75,
		Performance:           90.9,
		Quality:               95,
		OEE:                   oee,
	}
}

func TestEmbeddedStore_Samples(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := s.InsertSample(ctx, sampleAt("line-1", base.AddDate(0, 0, i), 70+float64(i))); err != nil {
			t.Fatalf("InsertSample() error = %v", err)
		}
	}
	if err := s.InsertSample(ctx, sampleAt("line-2", base, 60)); err != nil {
		t.Fatalf("InsertSample() error = %v", err)
	}

	t.Run("filter by line", func(t *testing.T) {
		samples, err := s.ListSamples(ctx, SampleFilter{Line: "line-1"})
		if err != nil {
			t.Fatalf("ListSamples() error = %v", err)
		}
		if len(samples) != 3 {
			t.Fatalf("expected 3 samples, got %d", len(samples))
		}
		// Most recent first
		if samples[0].OEE != 72 {
			t.Errorf("samples[0].OEE = %v, want 72", samples[0].OEE)
		}
	})

	t.Run("date range and limit", func(t *testing.T) {
		samples, err := s.ListSamples(ctx, SampleFilter{
			Line:  "line-1",
			Start: base.AddDate(0, 0, 1),
			Limit: 1,
		})
		if err != nil {
			t.Fatalf("ListSamples() error = %v", err)
		}
		if len(samples) != 1 || samples[0].OEE != 72 {
			t.Errorf("expected single most recent sample, got %+v", samples)
		}
	})

	t.Run("latest sample", func(t *testing.T) {
		latest, err := s.LatestSample(ctx, "line-1")
		if err != nil {
			t.Fatalf("LatestSample() error = %v", err)
		}
		if latest.OEE != 72 {
			t.Errorf("latest OEE = %v, want 72", latest.OEE)
		}
	})

	t.Run("latest for unknown line", func(t *testing.T) {
		_, err := s.LatestSample(ctx, "ghost")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("insert stamps id and created_at", func(t *testing.T) {
		sample := sampleAt("line-3", base, 50)
		if err := s.InsertSample(ctx, sample); err != nil {
			t.Fatalf("InsertSample() error = %v", err)
		}
		if sample.ID == "" || sample.CreatedAt.IsZero() {
			t.Error("insert should stamp id and created_at")
		}
	})
}

func TestEmbeddedStore_Defects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	defects := []*models.DefectEvent{
		{Line: "line-1", Date: date, DefectType: "scratch", Quantity: 5, Cost: 25},
		{Line: "line-1", Date: date.Add(time.Hour), DefectType: "dent", Quantity: 2, Cost: 40},
		{Line: "line-2", Date: date, DefectType: "scratch", Quantity: 1},
	}
	for _, d := range defects {
		if err := s.InsertDefect(ctx, d); err != nil {
			t.Fatalf("InsertDefect() error = %v", err)
		}
	}

	got, err := s.ListDefects(ctx, DefectFilter{Line: "line-1"})
	if err != nil {
		t.Fatalf("ListDefects() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 defects, got %d", len(got))
	}
	if got[0].DefectType != "dent" {
		t.Errorf("most recent defect = %q, want dent", got[0].DefectType)
	}
}

func TestEmbeddedStore_Jobs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 8, 12, 6, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	jobs := []*models.JobRecord{
		{Line: "line-1", OperatorID: "op-1", Status: models.JobStatusInProgress, TargetCycleTime: 2, ActualCycleTime: 3, StartTime: &start},
		{Line: "line-1", OperatorID: "op-2", Status: models.JobStatusCompleted, TargetCycleTime: 2, ActualCycleTime: 2, StartTime: &start, EndTime: &end},
	}
	for _, j := range jobs {
		if err := s.InsertJob(ctx, j); err != nil {
			t.Fatalf("InsertJob() error = %v", err)
		}
	}

	inProgress, err := s.ListJobs(ctx, JobFilter{Status: models.JobStatusInProgress})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(inProgress) != 1 || inProgress[0].OperatorID != "op-1" {
		t.Errorf("expected only op-1's in-progress job, got %+v", inProgress)
	}

	completed, err := s.ListJobs(ctx, JobFilter{Status: models.JobStatusCompleted})
	if err != nil {
		t.Fatalf("ListJobs() error = %v", err)
	}
	if len(completed) != 1 || completed[0].EndTime == nil {
		t.Error("completed job should round-trip its end time")
	}
}

func TestEmbeddedStore_PeriodsOverlap(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	july := &models.FinancialPeriod{
		Period:    "2026-07",
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		Revenue:   100000,
	}
	august := &models.FinancialPeriod{
		Period:    "2026-08",
		StartDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Revenue:   110000,
	}
	for _, p := range []*models.FinancialPeriod{july, august} {
		if err := s.InsertPeriod(ctx, p); err != nil {
			t.Fatalf("InsertPeriod() error = %v", err)
		}
	}

	// A range inside August only overlaps the August period
	got, err := s.ListPeriods(ctx,
		time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListPeriods() error = %v", err)
	}
	if len(got) != 1 || got[0].Period != "2026-08" {
		t.Errorf("expected only the August period, got %+v", got)
	}
}

func TestEmbeddedStore_FeedbackAndDeliveries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	date := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	if err := s.InsertFeedback(ctx, &models.CustomerFeedback{Customer: "acme", Date: date, Rating: 4}); err != nil {
		t.Fatalf("InsertFeedback() error = %v", err)
	}

	delivered := date.Add(24 * time.Hour)
	if err := s.InsertDelivery(ctx, &models.DeliveryEvent{
		Customer:      "acme",
		PromisedDate:  date,
		DeliveredDate: &delivered,
		OnTime:        false,
	}); err != nil {
		t.Fatalf("InsertDelivery() error = %v", err)
	}

	feedback, err := s.ListFeedback(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListFeedback() error = %v", err)
	}
	if len(feedback) != 1 || feedback[0].Rating != 4 {
		t.Errorf("unexpected feedback: %+v", feedback)
	}

	deliveries, err := s.ListDeliveries(ctx, date.AddDate(0, 0, -1), date.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListDeliveries() error = %v", err)
	}
	if len(deliveries) != 1 || deliveries[0].OnTime {
		t.Errorf("unexpected deliveries: %+v", deliveries)
	}
}

func TestEmbeddedStore_Projects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.InsertProject(ctx, &models.ImprovementProject{
		Title:         "Reduce changeover time",
		Status:        models.ProjectStatusInProgress,
		TargetSavings: 10000,
	}); err != nil {
		t.Fatalf("InsertProject() error = %v", err)
	}

	projects, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("expected 1 project, got %d", len(projects))
	}
	if projects[0].Status != models.ProjectStatusInProgress {
		t.Errorf("Status = %s, want in_progress", projects[0].Status)
	}
	if projects[0].UpdatedAt.IsZero() {
		t.Error("insert should stamp updated_at")
	}
}
