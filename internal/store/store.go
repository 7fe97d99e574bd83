// Package store provides persistence for plant records
package store

import (
	"context"
	"errors"
	"time"

	"github.com/savegress/plantpulse/pkg/models"
)

// ErrNotFound is returned when a referenced record does not exist
var ErrNotFound = errors.New("record not found")

// SampleFilter filters production sample queries
type SampleFilter struct {
	Line    string
	Station string
	Start   time.Time
	End     time.Time
	Limit   int
}

// DefectFilter filters defect event queries
type DefectFilter struct {
	Line    string
	Station string
	Start   time.Time
	End     time.Time
	Limit   int
}

// JobFilter filters job record queries
type JobFilter struct {
	Line   string
	Status models.JobStatus
	Since  time.Time
	Limit  int
}

// RecordStore is the interface for record store backends.
// List queries return records sorted by date, most recent first.
type RecordStore interface {
	// Production samples
	ListSamples(ctx context.Context, f SampleFilter) ([]*models.ProductionSample, error)
	LatestSample(ctx context.Context, line string) (*models.ProductionSample, error)
	InsertSample(ctx context.Context, s *models.ProductionSample) error

	// Defect events
	ListDefects(ctx context.Context, f DefectFilter) ([]*models.DefectEvent, error)
	InsertDefect(ctx context.Context, d *models.DefectEvent) error

	// Job records
	ListJobs(ctx context.Context, f JobFilter) ([]*models.JobRecord, error)
	InsertJob(ctx context.Context, j *models.JobRecord) error

	// Financial periods
	ListPeriods(ctx context.Context, start, end time.Time) ([]*models.FinancialPeriod, error)
	InsertPeriod(ctx context.Context, p *models.FinancialPeriod) error

	// Customer feedback and deliveries
	ListFeedback(ctx context.Context, start, end time.Time) ([]*models.CustomerFeedback, error)
	InsertFeedback(ctx context.Context, fb *models.CustomerFeedback) error
	ListDeliveries(ctx context.Context, start, end time.Time) ([]*models.DeliveryEvent, error)
	InsertDelivery(ctx context.Context, d *models.DeliveryEvent) error

	// Improvement projects
	ListProjects(ctx context.Context) ([]*models.ImprovementProject, error)
	InsertProject(ctx context.Context, p *models.ImprovementProject) error

	// Close closes the store
	Close() error
}
