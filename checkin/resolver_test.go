package checkin_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/panelkit/daily-checkin/checkin"
)

func TestResolveStreak(t *testing.T) {
	today := checkin.NewDate(2025, time.June, 10)

	tests := []struct {
		name        string
		priorStreak int
		lastDay     string
		want        int
	}{
		{"first ever action", 0, "", 1},
		{"yesterday continues", 4, "2025-06-09", 5},
		{"two day gap restarts", 9, "2025-06-08", 1},
		{"long gap restarts", 30, "2025-01-02", 1},
		{"same day does not extend", 3, "2025-06-10", 1},
		{"future day restarts", 3, "2025-06-11", 1},
		{"garbage stored day restarts", 7, "not-a-date", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkin.ResolveStreak(tt.priorStreak, tt.lastDay, today)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveStreakAcrossMonthBoundary(t *testing.T) {
	got := checkin.ResolveStreak(12, "2025-05-31", checkin.NewDate(2025, time.June, 1))
	assert.Equal(t, 13, got)
}
