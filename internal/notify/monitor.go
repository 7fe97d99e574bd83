package notify

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/savegress/plantpulse/internal/insights"
	"github.com/savegress/plantpulse/internal/store"
	"github.com/savegress/plantpulse/pkg/models"
)

// SupervisorRole is the role channel receiving plant-wide alerts
const SupervisorRole = "supervisor"

// Scan windows and thresholds
const (
	plantScanWindow    = 24 * time.Hour
	jobScanWindow      = 4 * time.Hour
	scrapScanLimit     = 100
	downtimeScanLimit  = 50
	jobScanLimit       = 100
	jobCycleOverFactor = 1.3 // running cycle time over target
)

// Monitor periodically re-applies the insight thresholds over fresh data
// and pushes alerts to connected clients
type Monitor struct {
	store    store.RecordStore
	mailbox  *Mailbox
	hub      *Hub
	interval time.Duration

	mu       sync.Mutex
	scanning bool
	running  bool
	stopCh   chan struct{}
}

// NewMonitor creates a new periodic alert monitor
func NewMonitor(recordStore store.RecordStore, mailbox *Mailbox, hub *Hub, interval time.Duration) *Monitor {
	if interval == 0 {
		interval = 5 * time.Minute
	}
	return &Monitor{
		store:    recordStore,
		mailbox:  mailbox,
		hub:      hub,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start starts the scan loop
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.mu.Unlock()

	go m.scanLoop(ctx)
	return nil
}

// Stop stops the scan loop
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		close(m.stopCh)
		m.running = false
	}
}

func (m *Monitor) scanLoop(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopCh:
			return
		case <-ticker.C:
			// A slow scan must not stack a second one on top of it
			m.mu.Lock()
			if m.scanning {
				m.mu.Unlock()
				log.Printf("Alert scan still running, skipping interval")
				continue
			}
			m.scanning = true
			m.mu.Unlock()

			if err := m.Scan(ctx); err != nil {
				log.Printf("Alert scan failed: %v", err)
			}

			m.mu.Lock()
			m.scanning = false
			m.mu.Unlock()
		}
	}
}

// Scan runs one pass of the plant-wide and per-job checks. Failures are
// logged and swallowed by the loop; nothing is retried.
func (m *Monitor) Scan(ctx context.Context) error {
	since := time.Now().UTC().Add(-plantScanWindow)

	defects, err := m.store.ListDefects(ctx, store.DefectFilter{
		Start: since,
		Limit: scrapScanLimit,
	})
	if err != nil {
		return fmt.Errorf("fetch defects: %w", err)
	}

	samples, err := m.store.ListSamples(ctx, store.SampleFilter{
		Start: since,
		Limit: downtimeScanLimit,
	})
	if err != nil {
		return fmt.Errorf("fetch samples: %w", err)
	}

	var alerts []*models.Insight
	if scrap := insights.ScrapConcentration(defects); scrap != nil {
		alerts = append(alerts, scrap)
	}
	alerts = append(alerts, insights.DowntimeAlerts(samples)...)

	for _, insight := range alerts {
		m.hub.BroadcastToRole(SupervisorRole, &models.Notification{
			ID:        uuid.New().String(),
			Type:      models.NotificationTypeAlert,
			Title:     insight.Title,
			Message:   insight.Description,
			Priority:  insight.Priority,
			Timestamp: time.Now().UTC(),
		})
	}

	if err := m.scanJobs(ctx); err != nil {
		return err
	}

	return nil
}

// scanJobs notifies job owners whose in-progress jobs run more than 30%
// over their target cycle time
func (m *Monitor) scanJobs(ctx context.Context) error {
	jobs, err := m.store.ListJobs(ctx, store.JobFilter{
		Status: models.JobStatusInProgress,
		Since:  time.Now().UTC().Add(-jobScanWindow),
		Limit:  jobScanLimit,
	})
	if err != nil {
		return fmt.Errorf("fetch jobs: %w", err)
	}

	for _, job := range jobs {
		if job.TargetCycleTime <= 0 || job.OperatorID == "" {
			continue
		}
		if job.ActualCycleTime <= jobCycleOverFactor*job.TargetCycleTime {
			continue
		}

		m.mailbox.Send(job.OperatorID, Payload{
			Type:  models.NotificationTypeWarning,
			Title: fmt.Sprintf("Job %s running behind", job.ID),
			Message: fmt.Sprintf(
				"Average cycle time %.2f min is %.0f%% over the %.2f min target on line %s.",
				job.ActualCycleTime, (job.ActualCycleTime/job.TargetCycleTime-1)*100,
				job.TargetCycleTime, job.Line),
			Priority: models.InsightPriorityHigh,
			Link:     "/jobs/" + job.ID,
		})
	}

	return nil
}
