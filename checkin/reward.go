package checkin

import "github.com/shopspring/decimal"

// BytesPerMB converts the configured traffic base (megabytes) to bytes.
const BytesPerMB = 1024 * 1024

// multiplierScale is the decimal precision the interpolation is rounded to.
const multiplierScale = 4

// BonusMultiplier interpolates the streak bonus linearly from 1.0 at day 1 to
// the configured ceiling M at day D, flat beyond D. With the bonus disabled,
// or D < 2 (which would divide by zero), the multiplier is 1.0.
func BonusMultiplier(streakLength int, s Settings) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if !s.BonusEnable || s.MaxStreakDays < 2 {
		return one
	}

	effectiveDays := streakLength
	if effectiveDays > s.MaxStreakDays {
		effectiveDays = s.MaxStreakDays
	}
	if effectiveDays <= 1 {
		return one
	}

	ceiling := decimal.NewFromFloat(s.BonusMultiplier)
	bonus := ceiling.Sub(one).
		Mul(decimal.NewFromInt(int64(effectiveDays - 1))).
		DivRound(decimal.NewFromInt(int64(s.MaxStreakDays-1)), multiplierScale)
	return one.Add(bonus)
}

// ComputeReward maps a streak length and settings onto the credit amounts.
// Pure and total: every well-formed input yields a reward. Credits are floored
// to whole units after applying the multiplier; kinds the config does not
// include stay zero.
func ComputeReward(streakLength int, s Settings) Reward {
	mult := BonusMultiplier(streakLength, s)
	r := Reward{Multiplier: mult}

	if s.RewardKind.IncludesBalance() {
		r.Balance = decimal.NewFromInt(s.BaseBalance).Mul(mult).IntPart()
	}
	if s.RewardKind.IncludesTraffic() {
		r.Traffic = decimal.NewFromInt(s.BaseTrafficMB * BytesPerMB).Mul(mult).IntPart()
	}
	return r
}
