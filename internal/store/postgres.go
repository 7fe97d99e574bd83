package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/savegress/plantpulse/pkg/models"
)

// PostgresStore is the pgx-backed record store
type PostgresStore struct {
	db *pgxpool.Pool
}

// Ensure PostgresStore implements RecordStore
var _ RecordStore = (*PostgresStore)(nil)

// NewPostgresStore creates a new PostgreSQL-backed store
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close is a no-op; the pool is owned by the caller
func (s *PostgresStore) Close() error {
	return nil
}

const sampleColumns = `id, line, station, shift, date,
	planned_production_time, downtime, ideal_cycle_time, actual_cycle_time,
	total_units, good_units, defective_units,
	availability, performance, quality, oee, created_at`

// ListSamples retrieves production samples matching the filter, most recent first
func (s *PostgresStore) ListSamples(ctx context.Context, f SampleFilter) ([]*models.ProductionSample, error) {
	query := `SELECT ` + sampleColumns + ` FROM production_samples WHERE 1=1`
	args := []interface{}{}

	if f.Line != "" {
		args = append(args, f.Line)
		query += fmt.Sprintf(" AND line = $%d", len(args))
	}
	if f.Station != "" {
		args = append(args, f.Station)
		query += fmt.Sprintf(" AND station = $%d", len(args))
	}
	if !f.Start.IsZero() {
		args = append(args, f.Start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !f.End.IsZero() {
		args = append(args, f.End)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	var samples []*models.ProductionSample
	for rows.Next() {
		sample, err := scanSamplePG(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		samples = append(samples, sample)
	}

	return samples, rows.Err()
}

// LatestSample retrieves the most recent sample for a line
func (s *PostgresStore) LatestSample(ctx context.Context, line string) (*models.ProductionSample, error) {
	query := `SELECT ` + sampleColumns + ` FROM production_samples
		WHERE line = $1 ORDER BY date DESC LIMIT 1`

	row := s.db.QueryRow(ctx, query, line)
	sample, err := scanSamplePG(row)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest sample: %w", err)
	}
	return sample, nil
}

// InsertSample persists a production sample
func (s *PostgresStore) InsertSample(ctx context.Context, sample *models.ProductionSample) error {
	if sample.ID == "" {
		sample.ID = uuid.New().String()
	}
	if sample.CreatedAt.IsZero() {
		sample.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO production_samples (` + sampleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := s.db.Exec(ctx, query,
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

type pgRow interface {
	Scan(dest ...interface{}) error
}

func scanSamplePG(row pgRow) (*models.ProductionSample, error) {
	var sample models.ProductionSample
	err := row.Scan(
		&sample.ID, &sample.Line, &sample.Station, &sample.Shift, &sample.Date,
		&sample.PlannedProductionTime, &sample.Downtime, &sample.IdealCycleTime, &sample.ActualCycleTime,
		&sample.TotalUnits, &sample.GoodUnits, &sample.DefectiveUnits,
		&sample.Availability, &sample.Performance, &sample.Quality, &sample.OEE, &sample.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sample, nil
}

// ListDefects retrieves defect events matching the filter, most recent first
func (s *PostgresStore) ListDefects(ctx context.Context, f DefectFilter) ([]*models.DefectEvent, error) {
	query := `SELECT id, line, station, date, defect_type, defect_category, quantity, cost, is_rework, created_at
		FROM defect_events WHERE 1=1`
	args := []interface{}{}

	if f.Line != "" {
		args = append(args, f.Line)
		query += fmt.Sprintf(" AND line = $%d", len(args))
	}
	if f.Station != "" {
		args = append(args, f.Station)
		query += fmt.Sprintf(" AND station = $%d", len(args))
	}
	if !f.Start.IsZero() {
		args = append(args, f.Start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !f.End.IsZero() {
		args = append(args, f.End)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
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
func (s *PostgresStore) InsertDefect(ctx context.Context, d *models.DefectEvent) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO defect_events (id, line, station, date, defect_type, defect_category, quantity, cost, is_rework, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.db.Exec(ctx, query,
		d.ID, d.Line, d.Station, d.Date, d.DefectType, d.DefectCategory,
		d.Quantity, d.Cost, d.IsRework, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert defect: %w", err)
	}
	return nil
}

// ListJobs retrieves job records matching the filter, most recent first
func (s *PostgresStore) ListJobs(ctx context.Context, f JobFilter) ([]*models.JobRecord, error) {
	query := `SELECT id, line, station, operator_id, status, target_cycle_time, actual_cycle_time,
		units_produced, start_time, end_time, created_at
		FROM job_records WHERE 1=1`
	args := []interface{}{}

	if f.Line != "" {
		args = append(args, f.Line)
		query += fmt.Sprintf(" AND line = $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !f.Since.IsZero() {
		args = append(args, f.Since)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query, args...)
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
func (s *PostgresStore) InsertJob(ctx context.Context, j *models.JobRecord) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	if j.CreatedAt.IsZero() {
		j.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO job_records (id, line, station, operator_id, status, target_cycle_time,
		actual_cycle_time, units_produced, start_time, end_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.Exec(ctx, query,
		j.ID, j.Line, j.Station, j.OperatorID, j.Status, j.TargetCycleTime,
		j.ActualCycleTime, j.UnitsProduced, j.StartTime, j.EndTime, j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

// ListPeriods retrieves financial periods overlapping the date range
func (s *PostgresStore) ListPeriods(ctx context.Context, start, end time.Time) ([]*models.FinancialPeriod, error) {
	query := `SELECT id, period, start_date, end_date, revenue, material_cost, labor_cost,
		scrap_cost, savings, investment, created_at
		FROM financial_periods WHERE 1=1`
	args := []interface{}{}

	if !start.IsZero() {
		args = append(args, start)
		query += fmt.Sprintf(" AND end_date >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		query += fmt.Sprintf(" AND start_date <= $%d", len(args))
	}
	query += " ORDER BY start_date DESC"

	rows, err := s.db.Query(ctx, query, args...)
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
func (s *PostgresStore) InsertPeriod(ctx context.Context, p *models.FinancialPeriod) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO financial_periods (id, period, start_date, end_date, revenue,
		material_cost, labor_cost, scrap_cost, savings, investment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := s.db.Exec(ctx, query,
		p.ID, p.Period, p.StartDate, p.EndDate, p.Revenue,
		p.MaterialCost, p.LaborCost, p.ScrapCost, p.Savings, p.Investment, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert period: %w", err)
	}
	return nil
}

// ListFeedback retrieves customer feedback in the date range, most recent first
func (s *PostgresStore) ListFeedback(ctx context.Context, start, end time.Time) ([]*models.CustomerFeedback, error) {
	query := `SELECT id, customer, date, rating, category, comment, created_at
		FROM customer_feedback WHERE 1=1`
	args := []interface{}{}

	if !start.IsZero() {
		args = append(args, start)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date DESC"

	rows, err := s.db.Query(ctx, query, args...)
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
func (s *PostgresStore) InsertFeedback(ctx context.Context, fb *models.CustomerFeedback) error {
	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO customer_feedback (id, customer, date, rating, category, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.Exec(ctx, query,
		fb.ID, fb.Customer, fb.Date, fb.Rating, fb.Category, fb.Comment, fb.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

// ListDeliveries retrieves delivery events in the date range, most recent first
func (s *PostgresStore) ListDeliveries(ctx context.Context, start, end time.Time) ([]*models.DeliveryEvent, error) {
	query := `SELECT id, customer, order_ref, promised_date, delivered_date, on_time, created_at
		FROM delivery_events WHERE 1=1`
	args := []interface{}{}

	if !start.IsZero() {
		args = append(args, start)
		query += fmt.Sprintf(" AND promised_date >= $%d", len(args))
	}
	if !end.IsZero() {
		args = append(args, end)
		query += fmt.Sprintf(" AND promised_date <= $%d", len(args))
	}
	query += " ORDER BY promised_date DESC"

	rows, err := s.db.Query(ctx, query, args...)
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
func (s *PostgresStore) InsertDelivery(ctx context.Context, d *models.DeliveryEvent) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO delivery_events (id, customer, order_ref, promised_date, delivered_date, on_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.Exec(ctx, query,
		d.ID, d.Customer, d.OrderRef, d.PromisedDate, d.DeliveredDate, d.OnTime, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert delivery: %w", err)
	}
	return nil
}

// ListProjects retrieves all improvement projects, most recently updated first
func (s *PostgresStore) ListProjects(ctx context.Context) ([]*models.ImprovementProject, error) {
	query := `SELECT id, title, description, status, owner, line, target_savings, realized_savings,
		engagement_score, started_at, completed_at, created_at, updated_at
		FROM improvement_projects ORDER BY updated_at DESC`

	rows, err := s.db.Query(ctx, query)
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
func (s *PostgresStore) InsertProject(ctx context.Context, p *models.ImprovementProject) error {
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

	query := `INSERT INTO improvement_projects (id, title, description, status, owner, line,
		target_savings, realized_savings, engagement_score, started_at, completed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.Exec(ctx, query,
		p.ID, p.Title, p.Description, p.Status, p.Owner, p.Line,
		p.TargetSavings, p.RealizedSavings, p.EngagementScore,
		p.StartedAt, p.CompletedAt, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}
