package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestInsightJSONShape(t *testing.T) {
	insight := Insight{
		Type:        InsightTypeOpportunity,
		Title:       "Scrap concentrated",
		Description: "Most scrap traces to one defect type",
		Priority:    InsightPriorityHigh,
		Impact: InsightImpact{
			TimeSaved:      12,
			CostImpact:     340.5,
			ScrapReduction: 6,
		},
		Actionable:  true,
		ActionItems: []string{"Run a root-cause session"},
	}

	data, err := json.Marshal(insight)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)

	for _, key := range []string{`"timeSaved"`, `"costImpact"`, `"scrapReduction"`, `"actionItems"`, `"actionable"`} {
		if !strings.Contains(body, key) {
			t.Errorf("serialized insight missing key %s: %s", key, body)
		}
	}

	var decoded Insight
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Impact.CostImpact != 340.5 {
		t.Errorf("round-trip CostImpact = %v, want 340.5", decoded.Impact.CostImpact)
	}
}

func TestInsightImpact_OmitsZeroFields(t *testing.T) {
	data, err := json.Marshal(Insight{Type: InsightTypeAlert, Title: "x"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)

	for _, key := range []string{`"timeSaved"`, `"costImpact"`, `"scrapReduction"`, `"actionItems"`} {
		if strings.Contains(body, key) {
			t.Errorf("zero-valued %s should be omitted: %s", key, body)
		}
	}
}

func TestNotificationJSONShape(t *testing.T) {
	n := Notification{
		ID:        "n-1",
		Type:      NotificationTypeWarning,
		Title:     "Job behind",
		Priority:  InsightPriorityHigh,
		Timestamp: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		UserID:    "op-1",
		Read:      false,
	}

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)

	if !strings.Contains(body, `"userId":"op-1"`) {
		t.Errorf("expected camelCase userId key: %s", body)
	}
	if !strings.Contains(body, `"read":false`) {
		t.Errorf("read flag must serialize even when false: %s", body)
	}

	var decoded Notification
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.UserID != "op-1" || decoded.Timestamp != n.Timestamp {
		t.Errorf("round-trip mismatch: %+v", decoded)
	}
}

func TestSimulationRequestJSONShape(t *testing.T) {
	data := []byte(`{"line":"line-1","shiftLength":10,"cycleTimeAdjustment":0.9}`)

	var req SimulationRequest
	if err := json.Unmarshal(data, &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if req.Line != "line-1" {
		t.Errorf("Line = %q, want line-1", req.Line)
	}
	if req.ShiftLengthHours == nil || *req.ShiftLengthHours != 10 {
		t.Errorf("ShiftLengthHours = %v, want 10", req.ShiftLengthHours)
	}
	if req.CycleTimeAdjustment == nil || *req.CycleTimeAdjustment != 0.9 {
		t.Errorf("CycleTimeAdjustment = %v, want 0.9", req.CycleTimeAdjustment)
	}
}

func TestSimulationRequestJSONShape_OmittedAdjustments(t *testing.T) {
	var req SimulationRequest
	if err := json.Unmarshal([]byte(`{"line":"line-1"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if req.ShiftLengthHours != nil || req.CycleTimeAdjustment != nil {
		t.Errorf("omitted adjustments must decode as nil, got %+v", req)
	}

	var explicit SimulationRequest
	if err := json.Unmarshal([]byte(`{"line":"line-1","cycleTimeAdjustment":0}`), &explicit); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if explicit.CycleTimeAdjustment == nil || *explicit.CycleTimeAdjustment != 0 {
		t.Errorf("explicit zero must decode as a non-nil pointer, got %+v", explicit)
	}
}
