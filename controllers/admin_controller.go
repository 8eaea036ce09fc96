package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/panelkit/daily-checkin/checkin"
	"github.com/panelkit/daily-checkin/utils"
)

// AdminController exposes the maintenance and configuration endpoints. All
// aggregate corrections run through the engine so the event history and the
// stats cannot drift apart.
type AdminController struct {
	svc    *checkin.Service
	config *checkin.ConfigStore
}

// NewAdminController creates a new controller instance.
func NewAdminController(svc *checkin.Service, config *checkin.ConfigStore) *AdminController {
	return &AdminController{svc: svc, config: config}
}

// Stats returns the admin dashboard payload.
func (a *AdminController) Stats(ctx *gin.Context) {
	stats, err := a.svc.AdminStats(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load stats")
		return
	}
	utils.Success(ctx, stats)
}

// Records lists check-in events with optional user and date filters.
func (a *AdminController) Records(ctx *gin.Context) {
	filter := checkin.RecordFilter{
		StartDay: ctx.Query("start_day"),
		EndDay:   ctx.Query("end_day"),
		Page:     intQuery(ctx, "page", 1),
		Limit:    intQuery(ctx, "limit", 20),
	}
	if v := ctx.Query("user_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40040, "invalid user_id")
			return
		}
		filter.UserID = uint(id)
	}

	events, total, err := a.svc.Records(ctx.Request.Context(), filter)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to load records")
		return
	}

	utils.Success(ctx, gin.H{
		"records": events,
		"pagination": gin.H{
			"page":  filter.Page,
			"limit": filter.Limit,
			"total": total,
		},
	})
}

// DeleteRecord removes one event, compensating the owner's aggregate.
func (a *AdminController) DeleteRecord(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, "invalid record id")
		return
	}

	if err := a.svc.DeleteEvent(ctx.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, checkin.ErrEventNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40440, "record not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to delete record")
		return
	}
	utils.Success(ctx, gin.H{"message": "record deleted"})
}

// GetConfig returns the feature settings.
func (a *AdminController) GetConfig(ctx *gin.Context) {
	set, err := a.config.Get(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50043, "failed to load config")
		return
	}
	utils.Success(ctx, set)
}

// UpdateConfig replaces the feature settings.
func (a *AdminController) UpdateConfig(ctx *gin.Context) {
	set := checkin.DefaultSettings()
	if err := ctx.ShouldBindJSON(&set); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid config payload")
		return
	}
	if set.BonusMultiplier <= 1.0 {
		set.BonusEnable = false
	}

	if err := a.config.Update(ctx.Request.Context(), set); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50044, "failed to update config")
		return
	}
	utils.Success(ctx, gin.H{"message": "config updated"})
}

// ResetUserStats zeroes a user's current streak.
func (a *AdminController) ResetUserStats(ctx *gin.Context) {
	var req struct {
		UserID uint `json:"user_id" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, "user_id is required")
		return
	}

	if err := a.svc.ResetUserStreak(ctx.Request.Context(), req.UserID); err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50045, "failed to reset streak")
		return
	}
	utils.Success(ctx, gin.H{"message": "streak reset"})
}

// RunSweep triggers the streak maintenance sweep on demand.
func (a *AdminController) RunSweep(ctx *gin.Context) {
	res, err := a.svc.RunSweep(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50046, "sweep failed")
		return
	}
	utils.Success(ctx, res)
}
