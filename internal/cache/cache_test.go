package cache

import (
	"context"
	"testing"
	"time"

	"github.com/savegress/plantpulse/internal/config"
)

func TestDisabledCache(t *testing.T) {
	c, err := New(&config.RedisConfig{Enabled: false})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer c.Close()

	if c.IsEnabled() {
		t.Error("cache should report disabled")
	}

	ctx := context.Background()

	if err := c.Set(ctx, "k", map[string]int{"v": 1}, time.Minute); err != nil {
		t.Errorf("Set on disabled cache should be a no-op, got %v", err)
	}

	var dest map[string]int
	if err := c.Get(ctx, "k", &dest); !IsMiss(err) {
		t.Errorf("Get on disabled cache should be a miss, got %v", err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete on disabled cache should be a no-op, got %v", err)
	}
	if err := c.InvalidateDashboards(ctx); err != nil {
		t.Errorf("InvalidateDashboards on disabled cache should be a no-op, got %v", err)
	}
}

func TestNew_BadURL(t *testing.T) {
	_, err := New(&config.RedisConfig{Enabled: true, URL: "://not-a-url"})
	if err == nil {
		t.Error("expected error for malformed redis url")
	}
}

func TestDashboardKey(t *testing.T) {
	tests := []struct {
		name   string
		view   string
		params []string
		want   string
	}{
		{
			name:   "no params",
			view:   "projects",
			params: nil,
			want:   "dash:projects",
		},
		{
			name:   "full params",
			view:   "oee",
			params: []string{"line-1", "2026-08-01", "2026-08-31"},
			want:   "dash:oee:line-1:2026-08-01:2026-08-31",
		},
		{
			name:   "empty params are placeholders",
			view:   "scrap",
			params: []string{"", "2026-08-01", "2026-08-31"},
			want:   "dash:scrap:-:2026-08-01:2026-08-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DashboardKey(tt.view, tt.params...); got != tt.want {
				t.Errorf("DashboardKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
