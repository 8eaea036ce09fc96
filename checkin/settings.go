package checkin

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/panelkit/daily-checkin/models"
)

// SettingsSource hands the engine its feature configuration. Implementations
// must reflect admin updates on the next read; the engine itself never caches.
type SettingsSource interface {
	Get(ctx context.Context) (Settings, error)
}

const (
	settingsCacheKey = "checkin:config:" + ConfigNamespace
	settingsCacheTTL = time.Hour
	redisTimeout     = 2 * time.Second
)

// ConfigStore reads and writes the namespace settings row, with a Redis
// read-through cache invalidated on update. A nil Redis client degrades to
// database reads only.
type ConfigStore struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewConfigStore builds a ConfigStore; rdb may be nil.
func NewConfigStore(db *gorm.DB, rdb *redis.Client) *ConfigStore {
	return &ConfigStore{db: db, rdb: rdb}
}

// Get returns the current settings, falling back to defaults when the
// namespace row does not exist yet.
func (s *ConfigStore) Get(ctx context.Context) (Settings, error) {
	if cached, ok := s.cacheGet(ctx); ok {
		return cached, nil
	}

	var row models.FeatureConfig
	err := s.db.WithContext(ctx).Where("namespace = ?", ConfigNamespace).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, err
	}

	set := DefaultSettings()
	if err := json.Unmarshal([]byte(row.Payload), &set); err != nil {
		return Settings{}, err
	}
	s.cacheSet(ctx, set)
	return set, nil
}

// Update upserts the namespace row and drops the cache so the next read sees
// the new values.
func (s *ConfigStore) Update(ctx context.Context, set Settings) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "namespace"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"payload": string(payload), "updated_at": time.Now()}),
	}).Create(&models.FeatureConfig{Namespace: ConfigNamespace, Payload: string(payload)}).Error
	if err != nil {
		return err
	}
	s.cacheDrop(ctx)
	return nil
}

func (s *ConfigStore) cacheGet(ctx context.Context) (Settings, bool) {
	if s.rdb == nil {
		return Settings{}, false
	}
	cctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	b, err := s.rdb.Get(cctx, settingsCacheKey).Bytes()
	if err != nil {
		return Settings{}, false
	}
	set := DefaultSettings()
	if err := json.Unmarshal(b, &set); err != nil {
		return Settings{}, false
	}
	return set, true
}

func (s *ConfigStore) cacheSet(ctx context.Context, set Settings) {
	if s.rdb == nil {
		return
	}
	b, err := json.Marshal(set)
	if err != nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	_ = s.rdb.Set(cctx, settingsCacheKey, b, settingsCacheTTL).Err()
}

func (s *ConfigStore) cacheDrop(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, redisTimeout)
	defer cancel()
	_ = s.rdb.Del(cctx, settingsCacheKey).Err()
}
