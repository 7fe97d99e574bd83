package models

import (
	"time"
)

// Shift identifies a production shift
type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
	ShiftNight   Shift = "night"
)

// ProductionSample represents one shift/station production record with
// its OEE components. Samples are immutable once persisted.
type ProductionSample struct {
	ID      string    `json:"id"`
	Line    string    `json:"line"`
	Station string    `json:"station,omitempty"`
	Shift   Shift     `json:"shift"`
	Date    time.Time `json:"date"`

	// Time metrics (minutes)
	PlannedProductionTime float64 `json:"planned_production_time"`
	Downtime              float64 `json:"downtime"`

	// Cycle times (minutes per unit)
	IdealCycleTime  float64 `json:"ideal_cycle_time"`
	ActualCycleTime float64 `json:"actual_cycle_time"`

	// Unit counts
	TotalUnits     int `json:"total_units"`
	GoodUnits      int `json:"good_units"`
	DefectiveUnits int `json:"defective_units"`

	// OEE components (percentages, 0-100)
	Availability float64 `json:"availability"`
	Performance  float64 `json:"performance"`
	Quality      float64 `json:"quality"`
	OEE          float64 `json:"oee"`

	CreatedAt time.Time `json:"created_at"`
}

// DefectEvent represents a recorded defect occurrence on a line
type DefectEvent struct {
	ID             string    `json:"id"`
	Line           string    `json:"line"`
	Station        string    `json:"station,omitempty"`
	Date           time.Time `json:"date"`
	DefectType     string    `json:"defect_type"`
	DefectCategory string    `json:"defect_category"`
	Quantity       int       `json:"quantity"`
	Cost           float64   `json:"cost"`
	IsRework       bool      `json:"is_rework"`
	CreatedAt      time.Time `json:"created_at"`
}

// JobStatus represents the execution state of a job
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// JobRecord represents a job execution on a line
type JobRecord struct {
	ID              string     `json:"id"`
	Line            string     `json:"line"`
	Station         string     `json:"station,omitempty"`
	OperatorID      string     `json:"operator_id,omitempty"`
	Status          JobStatus  `json:"status"`
	TargetCycleTime float64    `json:"target_cycle_time"`
	ActualCycleTime float64    `json:"actual_cycle_time"`
	UnitsProduced   int        `json:"units_produced"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// FinancialPeriod represents aggregated financials for a reporting period
type FinancialPeriod struct {
	ID           string    `json:"id"`
	Period       string    `json:"period"` // e.g. 2026-07
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Revenue      float64   `json:"revenue"`
	MaterialCost float64   `json:"material_cost"`
	LaborCost    float64   `json:"labor_cost"`
	ScrapCost    float64   `json:"scrap_cost"`
	Savings      float64   `json:"savings"`
	Investment   float64   `json:"investment"`
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerFeedback represents a customer satisfaction record
type CustomerFeedback struct {
	ID        string    `json:"id"`
	Customer  string    `json:"customer"`
	Date      time.Time `json:"date"`
	Rating    int       `json:"rating"` // 1-5
	Category  string    `json:"category,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// DeliveryEvent represents a customer delivery with on-time status
type DeliveryEvent struct {
	ID            string     `json:"id"`
	Customer      string     `json:"customer"`
	OrderRef      string     `json:"order_ref,omitempty"`
	PromisedDate  time.Time  `json:"promised_date"`
	DeliveredDate *time.Time `json:"delivered_date,omitempty"`
	OnTime        bool       `json:"on_time"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ProjectStatus represents a kanban column for improvement projects
type ProjectStatus string

const (
	ProjectStatusBacklog    ProjectStatus = "backlog"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusReview     ProjectStatus = "review"
	ProjectStatusDone       ProjectStatus = "done"
)

// ImprovementProject represents a tracked continuous-improvement initiative
type ImprovementProject struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Description     string        `json:"description,omitempty"`
	Status          ProjectStatus `json:"status"`
	Owner           string        `json:"owner,omitempty"`
	Line            string        `json:"line,omitempty"`
	TargetSavings   float64       `json:"target_savings"`
	RealizedSavings float64       `json:"realized_savings"`
	EngagementScore float64       `json:"engagement_score,omitempty"`
	StartedAt       *time.Time    `json:"started_at,omitempty"`
	CompletedAt     *time.Time    `json:"completed_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// InsightType classifies a generated insight
type InsightType string

const (
	InsightTypeAnomaly        InsightType = "anomaly"
	InsightTypeOpportunity    InsightType = "opportunity"
	InsightTypeAlert          InsightType = "alert"
	InsightTypeRecommendation InsightType = "recommendation"
)

// InsightPriority ranks insight urgency
type InsightPriority string

const (
	InsightPriorityLow      InsightPriority = "low"
	InsightPriorityMedium   InsightPriority = "medium"
	InsightPriorityHigh     InsightPriority = "high"
	InsightPriorityCritical InsightPriority = "critical"
)

// InsightImpact estimates the effect of acting on an insight
type InsightImpact struct {
	TimeSaved      float64 `json:"timeSaved,omitempty"`      // minutes
	CostImpact     float64 `json:"costImpact,omitempty"`     // currency units
	ScrapReduction float64 `json:"scrapReduction,omitempty"` // units
}

// Insight is a heuristic finding over recent plant records. Insights are
// constructed fresh on every scan and are never persisted.
type Insight struct {
	Type        InsightType     `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    InsightPriority `json:"priority"`
	Impact      InsightImpact   `json:"impact"`
	Actionable  bool            `json:"actionable"`
	ActionItems []string        `json:"actionItems,omitempty"`
}

// NotificationType classifies a notification
type NotificationType string

const (
	NotificationTypeAlert   NotificationType = "alert"
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeSuccess NotificationType = "success"
)

// Notification is an in-memory, session-lived message for a user.
// Only the Read flag is ever mutated after creation.
type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Priority  InsightPriority  `json:"priority"`
	Timestamp time.Time        `json:"timestamp"`
	UserID    string           `json:"userId,omitempty"`
	Link      string           `json:"link,omitempty"`
	Read      bool             `json:"read"`
}

// SimulationRequest holds what-if simulation parameters. The adjustment
// fields are pointers so an omitted parameter is distinguishable from an
// explicit zero.
type SimulationRequest struct {
	Line                string   `json:"line"`
	Operators           int      `json:"operators,omitempty"`
	ShiftLengthHours    *float64 `json:"shiftLength,omitempty"`
	CycleTimeAdjustment *float64 `json:"cycleTimeAdjustment,omitempty"`
}

// SimulationResult is a pure projection from a single baseline sample
type SimulationResult struct {
	PredictedThroughput float64 `json:"predictedThroughput"`
	PredictedScrap      float64 `json:"predictedScrap"`
	PredictedOEE        float64 `json:"predictedOEE"`
	CostImpact          float64 `json:"costImpact"`
}

// PredictionMetric names a forecastable metric
type PredictionMetric string

const (
	PredictionMetricLeadTime   PredictionMetric = "leadTime"
	PredictionMetricThroughput PredictionMetric = "throughput"
	PredictionMetricScrap      PredictionMetric = "scrap"
	PredictionMetricOEE        PredictionMetric = "oee"
)

// Prediction is a single forecasted point
type Prediction struct {
	Metric PredictionMetric `json:"metric"`
	Date   time.Time        `json:"date"`
	Value  float64          `json:"value"`
}

// OptimizationSuggestion is a heuristic improvement recommendation
type OptimizationSuggestion struct {
	Area        string          `json:"area"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    InsightPriority `json:"priority"`
	Impact      InsightImpact   `json:"impact"`
}
