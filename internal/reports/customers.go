package reports

import (
	"context"
	"fmt"
	"time"
)

// Customers aggregates satisfaction ratings and delivery performance
// over the date range
func (s *Service) Customers(ctx context.Context, start, end time.Time) (*CustomerDashboard, error) {
	feedback, err := s.store.ListFeedback(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch feedback: %w", err)
	}

	deliveries, err := s.store.ListDeliveries(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch deliveries: %w", err)
	}

	dashboard := &CustomerDashboard{
		FeedbackCount:   len(feedback),
		RatingBreakdown: make(map[int]int),
		DeliveryCount:   len(deliveries),
	}

	var ratingSum, satisfied int
	for _, fb := range feedback {
		ratingSum += fb.Rating
		dashboard.RatingBreakdown[fb.Rating]++
		if fb.Rating >= 4 {
			satisfied++
		}
	}
	if len(feedback) > 0 {
		dashboard.AverageRating = float64(ratingSum) / float64(len(feedback))
		dashboard.CSAT = float64(satisfied) / float64(len(feedback)) * 100
	}

	var onTime int
	for _, d := range deliveries {
		if d.OnTime {
			onTime++
		}
	}
	if len(deliveries) > 0 {
		dashboard.OnTimeRate = float64(onTime) / float64(len(deliveries)) * 100
	}

	return dashboard, nil
}
