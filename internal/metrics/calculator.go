// Package metrics provides pure OEE and production metric calculations.
// All functions operate on already-fetched record sets; query construction
// is the caller's concern. Inputs are percentages in [0,100] unless noted.
package metrics

import (
	"github.com/savegress/plantpulse/pkg/models"
)

// ComposeOEE combines availability, performance and quality percentages
// into a composite OEE percentage. Inputs outside [0,100] propagate
// unchecked.
func ComposeOEE(availability, performance, quality float64) float64 {
	return availability * performance * quality / 10000
}

// Availability returns the availability percentage for a planned
// production time and downtime, both in minutes. Returns 0 when
// plannedTime is 0.
func Availability(plannedTime, downtime float64) float64 {
	if plannedTime == 0 {
		return 0
	}
	return (plannedTime - downtime) / plannedTime * 100
}

// Performance returns the performance percentage from ideal and actual
// cycle times. totalUnits cancels algebraically but is part of the
// standard OEE formula signature; it still guards the no-production case.
func Performance(idealCycleTime, actualCycleTime float64, totalUnits int) float64 {
	if idealCycleTime == 0 || totalUnits == 0 {
		return 0
	}
	return (idealCycleTime * float64(totalUnits)) / (actualCycleTime * float64(totalUnits)) * 100
}

// Quality returns the percentage of good units. Returns 0 when
// totalUnits is 0.
func Quality(goodUnits, totalUnits int) float64 {
	if totalUnits == 0 {
		return 0
	}
	return float64(goodUnits) / float64(totalUnits) * 100
}

// ScrapPercentage returns total defect quantity as a percentage of total
// units produced. The two record sets must cover the same line and date
// range for the ratio to be meaningful; matching filters are the
// caller's responsibility.
func ScrapPercentage(defects []*models.DefectEvent, samples []*models.ProductionSample) float64 {
	var scrapped int
	for _, d := range defects {
		scrapped += d.Quantity
	}

	var produced int
	for _, s := range samples {
		produced += s.TotalUnits
	}

	if produced == 0 {
		return 0
	}
	return float64(scrapped) / float64(produced) * 100
}

// LeadTimeMinutes returns the mean elapsed minutes from job start to job
// end over jobs carrying both timestamps. Returns 0 when no job
// qualifies.
func LeadTimeMinutes(jobs []*models.JobRecord) float64 {
	var total float64
	var count int
	for _, j := range jobs {
		if j.StartTime == nil || j.EndTime == nil {
			continue
		}
		total += j.EndTime.Sub(*j.StartTime).Minutes()
		count++
	}

	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// Throughput returns average good units per hour of planned production
// time across the samples. Returns 0 when no planned time is recorded.
func Throughput(samples []*models.ProductionSample) float64 {
	var units int
	var plannedMinutes float64
	for _, s := range samples {
		units += s.GoodUnits
		plannedMinutes += s.PlannedProductionTime
	}

	if plannedMinutes == 0 {
		return 0
	}
	return float64(units) / (plannedMinutes / 60)
}
