// Package simulation projects line output under parameterized adjustments
package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/savegress/plantpulse/internal/store"
	"github.com/savegress/plantpulse/pkg/models"
)

// Defaults applied when the request omits a parameter
const (
	DefaultShiftLengthHours = 8.0
	DefaultUnitCost         = 50.0
)

var (
	// ErrNoBaseline is returned when a line has no production samples
	ErrNoBaseline = errors.New("no production data for line")

	// ErrInvalidCycleTime is returned when the baseline or adjusted
	// cycle time is not positive
	ErrInvalidCycleTime = errors.New("invalid cycle time")
)

// Engine projects throughput, scrap and OEE from a single baseline sample
type Engine struct {
	store    store.RecordStore
	unitCost float64
}

// NewEngine creates a new simulation engine. unitCost is the cost applied
// per scrapped unit; 0 selects the default.
func NewEngine(recordStore store.RecordStore, unitCost float64) *Engine {
	if unitCost == 0 {
		unitCost = DefaultUnitCost
	}
	return &Engine{
		store:    recordStore,
		unitCost: unitCost,
	}
}

// Run projects a shift's output for the line under the requested
// adjustments. The baseline is the line's most recent sample. Cycle time
// preconditions are checked up front so no downstream division can see a
// non-positive denominator.
func (e *Engine) Run(ctx context.Context, req *models.SimulationRequest) (*models.SimulationResult, error) {
	baseline, err := e.store.LatestSample(ctx, req.Line)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoBaseline
		}
		return nil, fmt.Errorf("fetch baseline: %w", err)
	}

	multiplier := 1.0
	if req.CycleTimeAdjustment != nil {
		multiplier = *req.CycleTimeAdjustment
	}
	if multiplier <= 0 {
		return nil, ErrInvalidCycleTime
	}

	shiftHours := DefaultShiftLengthHours
	if req.ShiftLengthHours != nil {
		shiftHours = *req.ShiftLengthHours
	}

	if baseline.IdealCycleTime <= 0 {
		return nil, ErrInvalidCycleTime
	}
	adjustedCycleTime := baseline.IdealCycleTime * multiplier

	availableTime := shiftHours*60 - baseline.Downtime
	predictedUnits := availableTime / adjustedCycleTime
	predictedScrap := predictedUnits * (1 - baseline.Quality/100)
	predictedGood := predictedUnits - predictedScrap

	// Linear approximation: halving cycle time doubles OEE against the
	// same baseline, rather than re-deriving the components.
	predictedOEE := baseline.OEE / multiplier

	return &models.SimulationResult{
		PredictedThroughput: predictedGood,
		PredictedScrap:      predictedScrap,
		PredictedOEE:        predictedOEE,
		CostImpact:          predictedScrap * e.unitCost,
	}, nil
}

// Scenario is a named preset of simulation adjustments
type Scenario struct {
	Name                string  `json:"name"`
	Description         string  `json:"description"`
	ShiftLengthHours    float64 `json:"shiftLength"`
	CycleTimeAdjustment float64 `json:"cycleTimeAdjustment"`
}

// Scenarios returns the built-in what-if presets
func Scenarios() []Scenario {
	return []Scenario{
		{
			Name:                "baseline",
			Description:         "Current cycle time over a standard shift",
			ShiftLengthHours:    8,
			CycleTimeAdjustment: 1,
		},
		{
			Name:                "speedup_10",
			Description:         "10% faster cycle time",
			ShiftLengthHours:    8,
			CycleTimeAdjustment: 0.9,
		},
		{
			Name:                "slowdown_10",
			Description:         "10% slower cycle time, e.g. tighter in-process checks",
			ShiftLengthHours:    8,
			CycleTimeAdjustment: 1.1,
		},
		{
			Name:                "extended_shift",
			Description:         "Current cycle time over a 10 hour shift",
			ShiftLengthHours:    10,
			CycleTimeAdjustment: 1,
		},
	}
}
