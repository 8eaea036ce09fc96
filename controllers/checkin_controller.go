package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/panelkit/daily-checkin/checkin"
	"github.com/panelkit/daily-checkin/middleware"
	"github.com/panelkit/daily-checkin/utils"
)

const (
	overviewCacheKey = "checkin:overview"
	overviewCacheTTL = 5 * time.Minute
)

// CheckinController handles the user-facing daily check-in endpoints.
type CheckinController struct {
	svc *checkin.Service
}

// NewCheckinController creates a new controller instance.
func NewCheckinController(svc *checkin.Service) *CheckinController {
	return &CheckinController{svc: svc}
}

func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CheckIn performs today's check-in for the authenticated user.
func (c *CheckinController) CheckIn(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	prov := checkin.Provenance{
		IPAddress: ctx.ClientIP(),
		UserAgent: ctx.Request.UserAgent(),
	}
	result, err := c.svc.CheckIn(ctx.Request.Context(), userID, prov)
	if err != nil {
		respondCheckinError(ctx, err)
		return
	}

	utils.Success(ctx, result)
}

// Status returns the user's streak, totals and the next reward.
func (c *CheckinController) Status(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	status, err := c.svc.Status(ctx.Request.Context(), userID)
	if err != nil {
		respondCheckinError(ctx, err)
		return
	}
	utils.Success(ctx, status)
}

// History returns the user's check-in records, paginated.
func (c *CheckinController) History(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page := intQuery(ctx, "page", 1)
	limit := intQuery(ctx, "limit", 30)
	events, total, err := c.svc.History(ctx.Request.Context(), userID, page, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load history")
		return
	}

	utils.Success(ctx, gin.H{
		"records": events,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// Ranking returns the leaderboard for the requested metric.
func (c *CheckinController) Ranking(ctx *gin.Context) {
	metric := ctx.DefaultQuery("metric", "current_streak")
	limit := intQuery(ctx, "limit", 10)

	entries, err := c.svc.Ranking(ctx.Request.Context(), metric, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to load ranking")
		return
	}
	utils.Success(ctx, gin.H{"metric": metric, "ranking": entries})
}

// Overview returns the site-wide activity summary, cached in Redis.
func (c *CheckinController) Overview(ctx *gin.Context) {
	if b, ok := utils.CacheGetBytes(overviewCacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	overview, err := c.svc.Overview(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to load stats")
		return
	}

	body := utils.JSONResponse{Code: 0, Message: "success", Data: overview}
	ctx.JSON(http.StatusOK, body)
	utils.CacheSetJSON(overviewCacheKey, body, overviewCacheTTL)
}

// respondCheckinError maps engine errors onto HTTP responses. Infrastructure
// failures stay opaque to the caller.
func respondCheckinError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, checkin.ErrAlreadyCheckedIn):
		utils.Error(ctx, http.StatusBadRequest, 40030, "already checked in today")
	case errors.Is(err, checkin.ErrFeatureDisabled):
		utils.Error(ctx, http.StatusBadRequest, 40031, "check-in is disabled")
	case errors.Is(err, checkin.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50030, "check-in failed")
	}
}

func intQuery(ctx *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(ctx.DefaultQuery(key, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}
