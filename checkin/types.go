package checkin

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ConfigNamespace is the settings namespace this feature reads and writes.
const ConfigNamespace = "daily_checkin"

// Sentinel errors exposed to the transport layer. The first three are expected
// outcomes, not infrastructure failures, and are never logged as errors.
var (
	ErrAlreadyCheckedIn = errors.New("already checked in today")
	ErrFeatureDisabled  = errors.New("check-in is disabled")
	ErrUserNotFound     = errors.New("user not found")
	ErrCreditFailed     = errors.New("reward credit failed")
)

// RewardKind is the closed set of credit types a check-in can produce.
type RewardKind int

const (
	RewardBalance RewardKind = iota
	RewardTraffic
	RewardBoth
)

// IncludesBalance reports whether the kind grants a balance credit.
func (k RewardKind) IncludesBalance() bool { return k == RewardBalance || k == RewardBoth }

// IncludesTraffic reports whether the kind grants a traffic credit.
func (k RewardKind) IncludesTraffic() bool { return k == RewardTraffic || k == RewardBoth }

func (k RewardKind) String() string {
	switch k {
	case RewardTraffic:
		return "traffic"
	case RewardBoth:
		return "both"
	default:
		return "balance"
	}
}

// ParseRewardKind maps the stored config string onto the variant.
func ParseRewardKind(s string) (RewardKind, error) {
	switch s {
	case "balance", "":
		return RewardBalance, nil
	case "traffic":
		return RewardTraffic, nil
	case "both":
		return RewardBoth, nil
	default:
		return RewardBalance, fmt.Errorf("unknown reward kind %q", s)
	}
}

// MarshalJSON encodes the kind as its config string.
func (k RewardKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes the config string form.
func (k *RewardKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseRewardKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Settings is the feature configuration consumed at the start of every
// operation. It is passed by value into the pure functions so they stay
// testable without any environment. JSON keys match the stored config payload.
type Settings struct {
	Enable          bool       `json:"enable"`
	RewardKind      RewardKind `json:"reward_type"`
	BaseBalance     int64      `json:"base_balance_reward"`         // smallest currency unit
	BaseTrafficMB   int64      `json:"base_traffic_reward"`         // megabytes, converted to bytes
	BonusEnable     bool       `json:"continuous_bonus_enable"`
	BonusMultiplier float64    `json:"continuous_bonus_multiplier"` // ceiling M, reached at MaxStreakDays
	MaxStreakDays   int        `json:"max_continuous_days"`         // D; D < 2 disables the bonus
}

// DefaultSettings mirrors the defaults the feature ships with. The feature
// itself starts disabled until an admin turns it on.
func DefaultSettings() Settings {
	return Settings{
		Enable:          false,
		RewardKind:      RewardBalance,
		BaseBalance:     100,
		BaseTrafficMB:   100,
		BonusEnable:     true,
		BonusMultiplier: 1.5,
		MaxStreakDays:   7,
	}
}

// Reward is the computed credit for one check-in.
type Reward struct {
	Balance    int64           `json:"balance"`
	Traffic    int64           `json:"traffic"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

// Provenance carries inert request metadata written onto the event record.
type Provenance struct {
	IPAddress string
	UserAgent string
}

// Result describes a successful check-in.
type Result struct {
	EventID       uint            `json:"event_id"`
	StreakLength  int             `json:"streak_length"`
	BalanceCredit int64           `json:"balance_credit"`
	TrafficCredit int64           `json:"traffic_credit"`
	Multiplier    decimal.Decimal `json:"multiplier"`
}

// Status is the per-user view served to the transport layer.
type Status struct {
	TodayChecked    bool   `json:"today_checked"`
	CurrentStreak   int    `json:"current_streak"`
	TotalCheckins   int64  `json:"total_checkins"`
	BestStreak      int    `json:"best_streak"`
	LastCheckinDay  string `json:"last_checkin_day,omitempty"`
	FirstCheckinDay string `json:"first_checkin_day,omitempty"`
	NextReward      Reward `json:"next_reward"`
	CanCheckin      bool   `json:"can_checkin"`
}

// RankingEntry is one row of a leaderboard query.
type RankingEntry struct {
	UserID uint  `json:"user_id"`
	Value  int64 `json:"value"`
}
