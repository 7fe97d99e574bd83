package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/savegress/plantpulse/pkg/models"
)

// EmbeddedStore is a SQLite-based record store for single-node deployments
type EmbeddedStore struct {
	db *sql.DB
}

// Ensure EmbeddedStore implements RecordStore
var _ RecordStore = (*EmbeddedStore)(nil)

// NewEmbeddedStore creates a new embedded store at dataPath
func NewEmbeddedStore(dataPath string) (*EmbeddedStore, error) {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "plantpulse.db")
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &EmbeddedStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

func (s *EmbeddedStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS production_samples (
		id TEXT PRIMARY KEY,
		line TEXT NOT NULL,
		station TEXT NOT NULL DEFAULT '',
		shift TEXT NOT NULL DEFAULT '',
		date TIMESTAMP NOT NULL,
		planned_production_time REAL NOT NULL DEFAULT 0,
		downtime REAL NOT NULL DEFAULT 0,
		ideal_cycle_time REAL NOT NULL DEFAULT 0,
		actual_cycle_time REAL NOT NULL DEFAULT 0,
		total_units INTEGER NOT NULL DEFAULT 0,
		good_units INTEGER NOT NULL DEFAULT 0,
		defective_units INTEGER NOT NULL DEFAULT 0,
		availability REAL NOT NULL DEFAULT 0,
		performance REAL NOT NULL DEFAULT 0,
		quality REAL NOT NULL DEFAULT 0,
		oee REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_samples_line_date ON production_samples(line, date);

	CREATE TABLE IF NOT EXISTS defect_events (
		id TEXT PRIMARY KEY,
		line TEXT NOT NULL,
		station TEXT NOT NULL DEFAULT '',
		date TIMESTAMP NOT NULL,
		defect_type TEXT NOT NULL,
		defect_category TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 1,
		cost REAL NOT NULL DEFAULT 0,
		is_rework INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_defects_line_date ON defect_events(line, date);

	CREATE TABLE IF NOT EXISTS job_records (
		id TEXT PRIMARY KEY,
		line TEXT NOT NULL,
		station TEXT NOT NULL DEFAULT '',
		operator_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		target_cycle_time REAL NOT NULL DEFAULT 0,
		actual_cycle_time REAL NOT NULL DEFAULT 0,
		units_produced INTEGER NOT NULL DEFAULT 0,
		start_time TIMESTAMP,
		end_time TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_jobs_line_created ON job_records(line, created_at);

	CREATE TABLE IF NOT EXISTS financial_periods (
		id TEXT PRIMARY KEY,
		period TEXT NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		revenue REAL NOT NULL DEFAULT 0,
		material_cost REAL NOT NULL DEFAULT 0,
		labor_cost REAL NOT NULL DEFAULT 0,
		scrap_cost REAL NOT NULL DEFAULT 0,
		savings REAL NOT NULL DEFAULT 0,
		investment REAL NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS customer_feedback (
		id TEXT PRIMARY KEY,
		customer TEXT NOT NULL,
		date TIMESTAMP NOT NULL,
		rating INTEGER NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		comment TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS delivery_events (
		id TEXT PRIMARY KEY,
		customer TEXT NOT NULL,
		order_ref TEXT NOT NULL DEFAULT '',
		promised_date TIMESTAMP NOT NULL,
		delivered_date TIMESTAMP,
		on_time INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS improvement_projects (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		owner TEXT NOT NULL DEFAULT '',
		line TEXT NOT NULL DEFAULT '',
		target_savings REAL NOT NULL DEFAULT 0,
		realized_savings REAL NOT NULL DEFAULT 0,
		engagement_score REAL NOT NULL DEFAULT 0,
		started_at TIMESTAMP,
		completed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database
func (s *EmbeddedStore) Close() error {
	return s.db.Close()
}

// ListSamples retrieves production samples matching the filter, most recent first
func (s *EmbeddedStore) ListSamples(ctx context.Context, f SampleFilter) ([]*models.ProductionSample, error) {
	query := `SELECT id, line, station, shift, date,
		planned_production_time, downtime, ideal_cycle_time, actual_cycle_time,
		total_units, good_units, defective_units,
		availability, performance, quality, oee, created_at
		FROM production_samples WHERE 1=1`
	args := []interface{}{}

	if f.Line != "" {
		query += " AND line = ?"
		args = append(args, f.Line)
	}
	if f.Station != "" {
		query += " AND station = ?"
		args = append(args, f.Station)
	}
	if !f.Start.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.Start)
	}
	if !f.End.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.End)
	}
	query += " ORDER BY date DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var samples []*models.ProductionSample
	for rows.Next() {
		var sample models.ProductionSample
		if err := rows.Scan(
			&sample.ID, &sample.Line, &sample.Station, &sample.Shift, &sample.Date,
			&sample.PlannedProductionTime, &sample.Downtime, &sample.IdealCycleTime, &sample.ActualCycleTime,
			&sample.TotalUnits, &sample.GoodUnits, &sample.DefectiveUnits,
			&sample.Availability, &sample.Performance, &sample.Quality, &sample.OEE, &sample.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, &sample)
	}

	return samples, rows.Err()
}

// LatestSample retrieves the most recent sample for a line
func (s *EmbeddedStore) LatestSample(ctx context.Context, line string) (*models.ProductionSample, error) {
	samples, err := s.ListSamples(ctx, SampleFilter{Line: line, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(samples) == 0 {
		return nil, ErrNotFound
	}
	return samples[0], nil
}

// InsertSample persists a production sample
func (s *EmbeddedStore) InsertSample(ctx context.Context, sample *models.ProductionSample) error {
	if sample.ID == "" {
		sample.ID = uuid.New().String()
	}
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO production_samples
		(id, line, station, shift, date, planned_production_time, downtime,
		ideal_cycle_time, actual_cycle_time, total_units, good_units, defective_units,
		availability, performance, quality, oee, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sample.ID, sample.Line, sample.Station, sample.Shift, sample.Date,
		sample.PlannedProductionTime, sample.Downtime, sample.IdealCycleTime, sample.ActualCycleTime,
		sample.TotalUnits, sample.GoodUnits, sample.DefectiveUnits,
		sample.Availability, sample.Performance, sample.Quality, sample.OEE, sample.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// ListDefects retrieves defect events matching the filter, most recent first
func (s *EmbeddedStore) ListDefects(ctx context.Context, f DefectFilter) ([]*models.DefectEvent, error) {
	query := `SELECT id, line, station, date, defect_type, defect_category, quantity, cost, is_rework, created_at
		FROM defect_events WHERE 1=1`
	args := []interface{}{}

	if f.Line != "" {
		query += " AND line = ?"
		args = append(args, f.Line)
	}
	if f.Station != "" {
		query += " AND station = ?"
		args = append(args, f.Station)
	}
	if !f.Start.IsZero() {
		query += " AND date >= ?"
		args = append(args, f.Start)
	}
	if !f.End.IsZero() {
		query += " AND date <= ?"
		args = append(args, f.End)
	}
	query += " ORDER BY date DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list defects: %w", err)
	}
	defer rows.Close()

	var defects []*models.DefectEvent
	for rows.Next() {
		var d models.DefectEvent
		if err := rows.Scan(
			&d.ID, &d.Line, &d.Station, &d.Date, &d.DefectType, &d.DefectCategory,
			&d.Quantity, &d.Cost, &d.IsRework, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan defect: %w", err)
		}
		defects = append(defects, &d)
	}

	return defects, rows.Err()
}

// InsertDefect persists a defect event
func (s *EmbeddedStore) InsertDefect(ctx context.Context, d *models.DefectEvent) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO defect_events
		(id, line, station, date, defect_type, defect_category, quantity, cost, is_rework, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Line, d.Station, d.Date, d.DefectType, d.DefectCategory,
		d.Quantity, d.Cost, d.IsRework, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert defect: %w", err)
	}
	return nil
}

// ListJobs retrieves job records matching the filter, most recent first
func (s *EmbeddedStore) ListJobs(ctx context.Context, f JobFilter) ([]*models.JobRecord, error) {
	query := `SELECT id, line, station, operator_id, status, target_cycle_time, actual_cycle_time,
		units_produced, start_time, end_time, created_at
		FROM job_records WHERE 1=1`
	args := []interface{}{}

	if f.Line != "" {
		query += " AND line = ?"
		args = append(args, f.Line)
	}
	if f.Status != "" {
		query += " AND status = ?"
		args = append(args, f.Status)
	}
	if !f.Since.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, f.Since)
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.JobRecord
	for rows.Next() {
		var j models.JobRecord
		if err := rows.Scan(
			&j.ID, &j.Line, &j.Station, &j.OperatorID, &j.Status,
			&j.TargetCycleTime, &j.ActualCycleTime, &j.UnitsProduced,
			&j.StartTime, &j.EndTime, &j.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, &j)
	}

	return jobs, rows.Err()
}

// InsertJob persists a job record
func (s *EmbeddedStore) InsertJob(ctx context.Context, j *models.JobRecord) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO job_records
		(id, line, station, operator_id, status, target_cycle_time, actual_cycle_time,
		units_produced, start_time, end_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.Line, j.Station, j.OperatorID, j.Status, j.TargetCycleTime,
		j.ActualCycleTime, j.UnitsProduced, j.StartTime, j.EndTime, j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// ListPeriods retrieves financial periods overlapping the date range
func (s *EmbeddedStore) ListPeriods(ctx context.Context, start, end time.Time) ([]*models.FinancialPeriod, error) {
	query := `SELECT id, period, start_date, end_date, revenue, material_cost, labor_cost,
		scrap_cost, savings, investment, created_at
		FROM financial_periods WHERE 1=1`
	args := []interface{}{}

	if !start.IsZero() {
		query += " AND end_date >= ?"
		args = append(args, start)
	}
	if !end.IsZero() {
		query += " AND start_date <= ?"
		args = append(args, end)
	}
	query += " ORDER BY start_date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list periods: %w", err)
	}
	defer rows.Close()

	var periods []*models.FinancialPeriod
	for rows.Next() {
		var p models.FinancialPeriod
		if err := rows.Scan(
			&p.ID, &p.Period, &p.StartDate, &p.EndDate, &p.Revenue, &p.MaterialCost,
			&p.LaborCost, &p.ScrapCost, &p.Savings, &p.Investment, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan period: %w", err)
		}
		periods = append(periods, &p)
	}

	return periods, rows.Err()
}

// InsertPeriod persists a financial period
func (s *EmbeddedStore) InsertPeriod(ctx context.Context, p *models.FinancialPeriod) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO financial_periods
		(id, period, start_date, end_date, revenue, material_cost, labor_cost,
		scrap_cost, savings, investment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Period, p.StartDate, p.EndDate, p.Revenue, p.MaterialCost,
		p.LaborCost, p.ScrapCost, p.Savings, p.Investment, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert period: %w", err)
	}
	return nil
}

// ListFeedback retrieves customer feedback in the date range, most recent first
func (s *EmbeddedStore) ListFeedback(ctx context.Context, start, end time.Time) ([]*models.CustomerFeedback, error) {
	query := `SELECT id, customer, date, rating, category, comment, created_at
		FROM customer_feedback WHERE 1=1`
	args := []interface{}{}

	if !start.IsZero() {
		query += " AND date >= ?"
		args = append(args, start)
	}
	if !end.IsZero() {
		query += " AND date <= ?"
		args = append(args, end)
	}
	query += " ORDER BY date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var feedback []*models.CustomerFeedback
	for rows.Next() {
		var fb models.CustomerFeedback
		if err := rows.Scan(
			&fb.ID, &fb.Customer, &fb.Date, &fb.Rating, &fb.Category, &fb.Comment, &fb.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		feedback = append(feedback, &fb)
	}

	return feedback, rows.Err()
}

// InsertFeedback persists a customer feedback record
func (s *EmbeddedStore) InsertFeedback(ctx context.Context, fb *models.CustomerFeedback) error {
	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO customer_feedback
		(id, customer, date, rating, category, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		fb.ID, fb.Customer, fb.Date, fb.Rating, fb.Category, fb.Comment, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListDeliveries retrieves delivery events in the date range, most recent first
func (s *EmbeddedStore) ListDeliveries(ctx context.Context, start, end time.Time) ([]*models.DeliveryEvent, error) {
	query := `SELECT id, customer, order_ref, promised_date, delivered_date, on_time, created_at
		FROM delivery_events WHERE 1=1`
	args := []interface{}{}

	if !start.IsZero() {
		query += " AND promised_date >= ?"
		args = append(args, start)
	}
	if !end.IsZero() {
		query += " AND promised_date <= ?"
		args = append(args, end)
	}
	query += " ORDER BY promised_date DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*models.DeliveryEvent
	for rows.Next() {
		var d models.DeliveryEvent
		if err := rows.Scan(
			&d.ID, &d.Customer, &d.OrderRef, &d.PromisedDate, &d.DeliveredDate, &d.OnTime, &d.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		deliveries = append(deliveries, &d)
	}

	return deliveries, rows.Err()
}

// InsertDelivery persists a delivery event
func (s *EmbeddedStore) InsertDelivery(ctx context.Context, d *models.DeliveryEvent) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO delivery_events
		(id, customer, order_ref, promised_date, delivered_date, on_time, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Customer, d.OrderRef, d.PromisedDate, d.DeliveredDate, d.OnTime, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// ListProjects retrieves all improvement projects, most recently updated first
func (s *EmbeddedStore) ListProjects(ctx context.Context) ([]*models.ImprovementProject, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, description, status, owner, line,
		target_savings, realized_savings, engagement_score, started_at, completed_at, created_at, updated_at
		FROM improvement_projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.ImprovementProject
	for rows.Next() {
		var p models.ImprovementProject
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Status, &p.Owner, &p.Line,
			&p.TargetSavings, &p.RealizedSavings, &p.EngagementScore,
			&p.StartedAt, &p.CompletedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, &p)
	}

	return projects, rows.Err()
}

// InsertProject persists an improvement project
func (s *EmbeddedStore) InsertProject(ctx context.Context, p *models.ImprovementProject) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO improvement_projects
		(id, title, description, status, owner, line, target_savings, realized_savings,
		engagement_score, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, p.Status, p.Owner, p.Line,
		p.TargetSavings, p.RealizedSavings, p.EngagementScore,
		p.StartedAt, p.CompletedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}
