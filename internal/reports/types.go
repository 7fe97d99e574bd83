// Package reports aggregates plant records into dashboard views
package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/savegress/plantpulse/pkg/models"
)

// OEEDashboard summarizes OEE over a line and date range
type OEEDashboard struct {
	Line         string       `json:"line,omitempty"`
	SampleCount  int          `json:"sample_count"`
	Availability float64      `json:"availability"`
	Performance  float64      `json:"performance"`
	Quality      float64      `json:"quality"`
	OEE          float64      `json:"oee"`
	Throughput   float64      `json:"throughput"` // good units per hour
	Trend        []TrendPoint `json:"trend"`
}

// TrendPoint is a dated value in a dashboard trend series
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ParetoDashboard ranks defect types by quantity with cumulative share
type ParetoDashboard struct {
	Line            string        `json:"line,omitempty"`
	TotalQuantity   int           `json:"total_quantity"`
	TotalCost       float64       `json:"total_cost"`
	ScrapPercentage float64       `json:"scrap_percentage"`
	Entries         []ParetoEntry `json:"entries"`
}

// ParetoEntry is one defect type in the Pareto ranking
type ParetoEntry struct {
	DefectType        string  `json:"defect_type"`
	Quantity          int     `json:"quantity"`
	Cost              float64 `json:"cost"`
	Percentage        float64 `json:"percentage"`
	CumulativePercent float64 `json:"cumulative_percent"`
}

// FinancialDashboard summarizes financial periods with ROI
type FinancialDashboard struct {
	PeriodCount  int             `json:"period_count"`
	Revenue      decimal.Decimal `json:"revenue"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
	ScrapCost    decimal.Decimal `json:"scrap_cost"`
	Savings      decimal.Decimal `json:"savings"`
	Investment   decimal.Decimal `json:"investment"`
	GrossMargin  decimal.Decimal `json:"gross_margin"`
	ROI          decimal.Decimal `json:"roi"` // percent
}

// CustomerDashboard summarizes satisfaction and delivery performance
type CustomerDashboard struct {
	FeedbackCount   int         `json:"feedback_count"`
	AverageRating   float64     `json:"average_rating"`
	CSAT            float64     `json:"csat"` // % of ratings >= 4
	RatingBreakdown map[int]int `json:"rating_breakdown"`
	DeliveryCount   int         `json:"delivery_count"`
	OnTimeRate      float64     `json:"on_time_rate"` // percent
}

// KanbanBoard groups improvement projects by status column
type KanbanBoard struct {
	Columns       []KanbanColumn `json:"columns"`
	TotalTarget   float64        `json:"total_target_savings"`
	TotalRealized float64        `json:"total_realized_savings"`
}

// KanbanColumn is one status column on the board
type KanbanColumn struct {
	Status   models.ProjectStatus         `json:"status"`
	Projects []*models.ImprovementProject `json:"projects"`
}
