package checkin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"translated", gorm.ErrDuplicatedKey, true},
		{"wrapped translated", errors.Join(errors.New("create event"), gorm.ErrDuplicatedKey), true},
		{"mysql message", errors.New("Error 1062: Duplicate entry '1-2025-06-10' for key 'idx_checkin_user_day'"), true},
		{"sqlite message", errors.New("UNIQUE constraint failed: checkin_events.user_id, checkin_events.day"), true},
		{"unrelated", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isDuplicateKey(tc.err))
		})
	}
}

func TestExpectedError(t *testing.T) {
	assert.True(t, expectedError(ErrAlreadyCheckedIn))
	assert.True(t, expectedError(ErrFeatureDisabled))
	assert.True(t, expectedError(ErrUserNotFound))
	assert.False(t, expectedError(ErrCreditFailed))
	assert.False(t, expectedError(errors.New("disk full")))
}

func TestRetryPolicyStopsEarlyOnMissingUser(t *testing.T) {
	calls := 0
	err := RetryPolicy{Attempts: 5}.Do(func() error {
		calls++
		return ErrUserNotFound
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyRetriesTransientFailures(t *testing.T) {
	calls := 0
	err := RetryPolicy{Attempts: 3}.Do(func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyZeroAttemptsMeansOne(t *testing.T) {
	calls := 0
	_ = RetryPolicy{}.Do(func() error {
		calls++
		return errors.New("boom")
	})
	assert.Equal(t, 1, calls)
}
