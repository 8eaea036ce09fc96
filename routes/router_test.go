package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/panelkit/daily-checkin/checkin"
	"github.com/panelkit/daily-checkin/config"
	"github.com/panelkit/daily-checkin/models"
	"github.com/panelkit/daily-checkin/routes"
	"github.com/panelkit/daily-checkin/utils"
)

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	config.Set(config.AppConfig{
		AppPort:            "8080",
		JWTSecret:          "router-test-secret",
		GinMode:            "test",
		RateLimitPerMinute: 600,
		AllowedOrigins:     []string{"*"},
		CheckinTimezone:    "UTC",
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.CheckinEvent{}, &models.CheckinStats{}, &models.FeatureConfig{},
	))

	cfgStore := checkin.NewConfigStore(db, nil)
	set := checkin.DefaultSettings()
	set.Enable = true
	require.NoError(t, cfgStore.Update(context.Background(), set))

	svc := checkin.NewService(db, checkin.NewClock(time.UTC), cfgStore,
		checkin.UserLedger{Retry: checkin.RetryPolicy{Attempts: 1}}, nil)
	return routes.SetupRouter(svc, cfgStore), db
}

func bearer(t *testing.T, userID uint, isAdmin bool) string {
	t.Helper()
	token, err := utils.GenerateToken(userID, fmt.Sprintf("u%d@example.com", userID), isAdmin, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, auth string, body interface{}) (*httptest.ResponseRecorder, utils.JSONResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp utils.JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestHealthEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)
	w, resp := doJSON(t, r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, resp.Code)
}

func TestUserRoutesRequireAuth(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/plugin/daily-checkin/status", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40101, resp.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/plugin/daily-checkin/status", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 40105, resp.Code)
}

func TestCheckInEndpoint(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Create(&models.User{ID: 1, Email: "u1@example.com"}).Error)
	auth := bearer(t, 1, false)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/plugin/daily-checkin/checkin", auth, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, resp.Code)

	// The second call the same day is rejected with the duplicate code.
	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/plugin/daily-checkin/checkin", auth, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40030, resp.Code)
}

func TestCheckInUnknownUser(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/plugin/daily-checkin/checkin", bearer(t, 42, false), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40410, resp.Code)
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/admin/plugin/daily-checkin/config", bearer(t, 1, false), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 40301, resp.Code)
}

func TestAdminConfigRoundTrip(t *testing.T) {
	r, _ := newTestRouter(t)
	auth := bearer(t, 1, true)

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/admin/plugin/daily-checkin/config", auth, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, resp.Code)

	update := map[string]interface{}{
		"enable":                      true,
		"reward_type":                 "traffic",
		"base_traffic_reward":         512,
		"continuous_bonus_enable":     true,
		"continuous_bonus_multiplier": 2.0,
		"max_continuous_days":         30,
	}
	w, resp = doJSON(t, r, http.MethodPut, "/api/v1/admin/plugin/daily-checkin/config", auth, update)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, resp.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/admin/plugin/daily-checkin/config", auth, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"reward_type":"traffic"`)
	assert.Contains(t, w.Body.String(), `"max_continuous_days":30`)
}

func TestAdminSweepEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/admin/plugin/daily-checkin/sweep", bearer(t, 1, true), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, resp.Code)
}

func TestUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t)
	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/plugin/daily-checkin/nope", bearer(t, 1, false), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40400, resp.Code)
}
