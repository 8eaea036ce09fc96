package checkin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/panelkit/daily-checkin/models"
)

// Service is the check-in engine: the transactional orchestrator plus the
// read-side queries. All aggregate mutation in the system flows through it
// (and nothing else) so the event history and the running stats cannot
// diverge.
type Service struct {
	db     *gorm.DB
	clock  Clock
	config SettingsSource
	ledger Ledger
	log    *zap.SugaredLogger
}

// NewService wires the engine with its collaborators. A nil logger is
// replaced with a no-op one.
func NewService(db *gorm.DB, clock Clock, config SettingsSource, ledger Ledger, log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{db: db, clock: clock, config: config, ledger: ledger, log: log}
}

// CheckIn performs one attendance action for the user: reject duplicates,
// resolve the streak, compute the reward, persist the event and the aggregate
// update, and credit the ledger, all inside one transaction. The unique index
// on (user_id, day) is the final arbiter when two requests race past the
// duplicate check; the loser surfaces as ErrAlreadyCheckedIn.
func (s *Service) CheckIn(ctx context.Context, userID uint, prov Provenance) (*Result, error) {
	set, err := s.config.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if !set.Enable {
		return nil, ErrFeatureDisabled
	}

	today := s.clock.Today()
	var result *Result

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var dup int64
		if err := tx.Model(&models.CheckinEvent{}).
			Where("user_id = ? AND day = ?", userID, today.String()).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyCheckedIn
		}

		stats, err := statsForUpdate(tx, userID)
		if err != nil {
			return err
		}

		streak := ResolveStreak(stats.CurrentStreak, stats.LastCheckinDay, today)
		reward := ComputeReward(streak, set)

		event := models.CheckinEvent{
			UserID:        userID,
			Day:           today.String(),
			RewardKind:    set.RewardKind.String(),
			BalanceCredit: reward.Balance,
			TrafficCredit: reward.Traffic,
			StreakLength:  streak,
			Multiplier:    reward.Multiplier.StringFixed(2),
			IPAddress:     prov.IPAddress,
			UserAgent:     prov.UserAgent,
		}
		if err := tx.Create(&event).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrAlreadyCheckedIn
			}
			return err
		}

		stats.TotalCheckins++
		stats.CurrentStreak = streak
		if streak > stats.BestStreak {
			stats.BestStreak = streak
		}
		stats.LastCheckinDay = today.String()
		if stats.FirstCheckinDay == "" {
			stats.FirstCheckinDay = today.String()
		}
		stats.TotalBalanceEarned += reward.Balance
		stats.TotalTrafficEarned += reward.Traffic
		if err := tx.Save(stats).Error; err != nil {
			return err
		}

		if err := s.ledger.Credit(tx, userID, reward.Balance, reward.Traffic); err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrCreditFailed, err)
		}

		result = &Result{
			EventID:       event.ID,
			StreakLength:  streak,
			BalanceCredit: reward.Balance,
			TrafficCredit: reward.Traffic,
			Multiplier:    reward.Multiplier,
		}
		return nil
	})
	if err != nil {
		if !expectedError(err) {
			s.log.Errorw("check-in failed", "user_id", userID, "day", today.String(), "error", err)
		}
		return nil, err
	}
	return result, nil
}

// Status returns the user's current check-in view, including the reward the
// next successful check-in would grant.
func (s *Service) Status(ctx context.Context, userID uint) (*Status, error) {
	set, err := s.config.Get(ctx)
	if err != nil {
		return nil, err
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, ErrUserNotFound
	}

	stats, err := loadStats(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	todayChecked := stats.LastCheckinDay == today.String()

	// The streak the next check-in will be credited for: tomorrow extends an
	// action taken today, otherwise the resolver decides from the last day.
	var nextStreak int
	if todayChecked {
		nextStreak = stats.CurrentStreak + 1
	} else {
		nextStreak = ResolveStreak(stats.CurrentStreak, stats.LastCheckinDay, today)
	}

	return &Status{
		TodayChecked:    todayChecked,
		CurrentStreak:   stats.CurrentStreak,
		TotalCheckins:   stats.TotalCheckins,
		BestStreak:      stats.BestStreak,
		LastCheckinDay:  stats.LastCheckinDay,
		FirstCheckinDay: stats.FirstCheckinDay,
		NextReward:      ComputeReward(nextStreak, set),
		CanCheckin:      !todayChecked && set.Enable,
	}, nil
}

// History returns the user's check-in records, newest first, with the total
// row count for pagination.
func (s *Service) History(ctx context.Context, userID uint, page, limit int) ([]models.CheckinEvent, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 30
	}

	q := s.db.WithContext(ctx).Model(&models.CheckinEvent{}).Where("user_id = ?", userID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.CheckinEvent
	err := q.Order("day DESC").Offset((page - 1) * limit).Limit(limit).Find(&events).Error
	return events, total, err
}

// rankingColumns whitelists the metric names accepted by Ranking.
var rankingColumns = map[string]string{
	"current_streak":       "current_streak",
	"best_streak":          "best_streak",
	"total_checkins":       "total_checkins",
	"total_balance_earned": "total_balance_earned",
	"total_traffic_earned": "total_traffic_earned",
}

// Ranking returns the top aggregates for the chosen metric, descending, ties
// broken by lowest user id for a deterministic order.
func (s *Service) Ranking(ctx context.Context, metric string, limit int) ([]RankingEntry, error) {
	col, ok := rankingColumns[metric]
	if !ok {
		col = "current_streak"
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	var entries []RankingEntry
	err := s.db.WithContext(ctx).Model(&models.CheckinStats{}).
		Select("user_id, " + col + " AS value").
		Order(col + " DESC").Order("user_id ASC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}

// statsForUpdate loads the aggregate row inside the transaction, creating it
// with zero defaults on the user's first contact.
func statsForUpdate(tx *gorm.DB, userID uint) (*models.CheckinStats, error) {
	var stats models.CheckinStats
	err := tx.Where(models.CheckinStats{UserID: userID}).FirstOrCreate(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// loadStats reads the aggregate outside a transaction, returning zero values
// for users who never checked in.
func loadStats(db *gorm.DB, userID uint) (*models.CheckinStats, error) {
	var stats models.CheckinStats
	err := db.Where("user_id = ?", userID).First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.CheckinStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// expectedError reports whether err is a user-facing outcome rather than an
// infrastructure failure.
func expectedError(err error) bool {
	return errors.Is(err, ErrAlreadyCheckedIn) ||
		errors.Is(err, ErrFeatureDisabled) ||
		errors.Is(err, ErrUserNotFound)
}

// isDuplicateKey detects a lost race at the (user_id, day) unique index.
// gorm translates driver errors when TranslateError is on; the string checks
// cover drivers that do not.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
