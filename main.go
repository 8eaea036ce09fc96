package main

import (
	"time"

	"github.com/panelkit/daily-checkin/checkin"
	"github.com/panelkit/daily-checkin/config"
	"github.com/panelkit/daily-checkin/models"
	"github.com/panelkit/daily-checkin/routes"
	"github.com/panelkit/daily-checkin/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.CheckinEvent{}, &models.CheckinStats{}, &models.FeatureConfig{})

	loc := time.Local
	if cfg.CheckinTimezone != "" {
		l, err := time.LoadLocation(cfg.CheckinTimezone)
		if err != nil {
			utils.Sugar.Fatalf("invalid CHECKIN_TIMEZONE %q: %v", cfg.CheckinTimezone, err)
		}
		loc = l
	}

	cfgStore := checkin.NewConfigStore(db, utils.GetRedis())
	ledger := checkin.UserLedger{Retry: checkin.RetryPolicy{
		Attempts: cfg.CreditRetryCount,
		Delay:    time.Duration(cfg.CreditRetryDelayMS) * time.Millisecond,
	}}
	svc := checkin.NewService(db, checkin.NewClock(loc), cfgStore, ledger, utils.Sugar)

	// Nightly streak sweep, shortly after midnight in the reference zone
	svc.StartSweepScheduler(time.Duration(cfg.SweepOffsetMinutes) * time.Minute)

	r := routes.SetupRouter(svc, cfgStore)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
