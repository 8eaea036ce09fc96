package checkin

// ResolveStreak decides the streak length a check-in today is credited for.
// It is a pure function of the prior aggregate streak, the most recent event
// day (ISO string, empty when the user has never checked in) and today.
//
// A last event on exactly the previous calendar day continues the streak;
// anything else, including an unparsable stored day, restarts at 1. A last
// event equal to today never reaches this function because same-day duplicates
// are rejected first, but it still resolves to 1 rather than extending.
func ResolveStreak(priorStreak int, lastDay string, today Date) int {
	if lastDay == "" {
		return 1
	}
	last, err := ParseDate(lastDay)
	if err != nil {
		return 1
	}
	if last.Equal(today.AddDays(-1)) {
		return priorStreak + 1
	}
	return 1
}
