package checkin

import (
	"context"

	"gorm.io/gorm"

	"github.com/panelkit/daily-checkin/models"
)

// Overview is the site-wide check-in activity summary.
type Overview struct {
	TodayTotal     int64 `json:"today_total"`
	YesterdayTotal int64 `json:"yesterday_total"`
	MonthTotal     int64 `json:"month_total"`
	AllTimeTotal   int64 `json:"all_time_total"`
	UniqueUsers    int64 `json:"unique_users"`
}

// DailyCount is one day of the recent-activity series.
type DailyCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// AdminStats extends the overview with the recent-week series and reward
// totals for the admin dashboard.
type AdminStats struct {
	Overview     Overview     `json:"overview"`
	RecentDays   []DailyCount `json:"recent_days"`
	TotalBalance int64        `json:"total_balance"`
	TotalTraffic int64        `json:"total_traffic"`
	AvgStreak    float64      `json:"avg_streak"`
}

// Overview aggregates event counts across all users. Read-only and tolerant
// of slightly stale data; callers may cache the result.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	today := s.clock.Today()
	events := func() *gorm.DB {
		return s.db.WithContext(ctx).Model(&models.CheckinEvent{})
	}

	var o Overview
	if err := events().Where("day = ?", today.String()).Count(&o.TodayTotal).Error; err != nil {
		return nil, err
	}
	if err := events().Where("day = ?", today.AddDays(-1).String()).Count(&o.YesterdayTotal).Error; err != nil {
		return nil, err
	}
	if err := events().Where("day >= ?", today.FirstOfMonth().String()).Count(&o.MonthTotal).Error; err != nil {
		return nil, err
	}
	if err := events().Count(&o.AllTimeTotal).Error; err != nil {
		return nil, err
	}
	if err := events().Distinct("user_id").Count(&o.UniqueUsers).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// AdminStats builds the dashboard payload: overview, a 7-day series ending
// today, and lifetime reward sums.
func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	overview, err := s.Overview(ctx)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	out := AdminStats{Overview: *overview}
	for i := 6; i >= 0; i-- {
		day := today.AddDays(-i)
		var n int64
		err := s.db.WithContext(ctx).Model(&models.CheckinEvent{}).
			Where("day = ?", day.String()).Count(&n).Error
		if err != nil {
			return nil, err
		}
		out.RecentDays = append(out.RecentDays, DailyCount{Day: day.String(), Count: n})
	}

	var sums struct {
		TotalBalance int64
		TotalTraffic int64
		AvgStreak    float64
	}
	err = s.db.WithContext(ctx).Model(&models.CheckinEvent{}).
		Select("COALESCE(SUM(balance_credit),0) AS total_balance, COALESCE(SUM(traffic_credit),0) AS total_traffic, COALESCE(AVG(streak_length),0) AS avg_streak").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	out.TotalBalance = sums.TotalBalance
	out.TotalTraffic = sums.TotalTraffic
	out.AvgStreak = sums.AvgStreak
	return &out, nil
}
