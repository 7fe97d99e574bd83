package reports

import (
	"context"
	"testing"

	"github.com/savegress/plantpulse/pkg/models"
)

func TestService_Customers(t *testing.T) {
	service := NewService(&fakeStore{
		feedback: []*models.CustomerFeedback{
			{Customer: "acme", Rating: 5},
			{Customer: "acme", Rating: 4},
			{Customer: "globex", Rating: 2},
			{Customer: "initech", Rating: 3},
		},
		deliveries: []*models.DeliveryEvent{
			{Customer: "acme", OnTime: true},
			{Customer: "acme", OnTime: true},
			{Customer: "globex", OnTime: false},
			{Customer: "initech", OnTime: true},
		},
	})

	dashboard, err := service.Customers(context.Background(), day(1), day(31))
	if err != nil {
		t.Fatalf("Customers() error = %v", err)
	}

	if dashboard.FeedbackCount != 4 {
		t.Errorf("FeedbackCount = %d, want 4", dashboard.FeedbackCount)
	}
	if !almostEqual(dashboard.AverageRating, 3.5) {
		t.Errorf("AverageRating = %v, want 3.5", dashboard.AverageRating)
	}
	// 2 of 4 ratings are >= 4
	if !almostEqual(dashboard.CSAT, 50) {
		t.Errorf("CSAT = %v, want 50", dashboard.CSAT)
	}
	if dashboard.RatingBreakdown[5] != 1 || dashboard.RatingBreakdown[4] != 1 {
		t.Errorf("unexpected rating breakdown: %v", dashboard.RatingBreakdown)
	}
	if !almostEqual(dashboard.OnTimeRate, 75) {
		t.Errorf("OnTimeRate = %v, want 75", dashboard.OnTimeRate)
	}
}

func TestService_Customers_Empty(t *testing.T) {
	service := NewService(&fakeStore{})

	dashboard, err := service.Customers(context.Background(), day(1), day(31))
	if err != nil {
		t.Fatalf("Customers() error = %v", err)
	}

	if dashboard.CSAT != 0 || dashboard.AverageRating != 0 || dashboard.OnTimeRate != 0 {
		t.Errorf("expected zeroed rates, got %+v", dashboard)
	}
}
