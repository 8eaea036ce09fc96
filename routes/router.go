package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/panelkit/daily-checkin/checkin"
	"github.com/panelkit/daily-checkin/config"
	"github.com/panelkit/daily-checkin/controllers"
	"github.com/panelkit/daily-checkin/middleware"
	"github.com/panelkit/daily-checkin/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(svc *checkin.Service, cfgStore *checkin.ConfigStore) *gin.Engine {
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(utils.RequestLogger())
	r.Use(utils.Recovery())

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	checkinController := controllers.NewCheckinController(svc)
	adminController := controllers.NewAdminController(svc, cfgStore)

	api := r.Group("/api/v1/plugin/daily-checkin")
	api.Use(middleware.AuthRequired(), middleware.RateLimitMiddleware())
	api.POST("/checkin", checkinController.CheckIn)
	api.GET("/status", checkinController.Status)
	api.GET("/history", checkinController.History)
	api.GET("/ranking", checkinController.Ranking)
	api.GET("/overview", checkinController.Overview)

	admin := r.Group("/api/v1/admin/plugin/daily-checkin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.GET("/stats", adminController.Stats)
	admin.GET("/records", adminController.Records)
	admin.DELETE("/records/:id", adminController.DeleteRecord)
	admin.GET("/config", adminController.GetConfig)
	admin.PUT("/config", adminController.UpdateConfig)
	admin.POST("/reset-stats", adminController.ResetUserStats)
	admin.POST("/sweep", adminController.RunSweep)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
