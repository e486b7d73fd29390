package analytics

import (
	"timeclock/models"

	"github.com/shopspring/decimal"
)

// Stats holds the totals shared by ComputeUserStats and AnalyzeUser.
// Durations are in seconds.
type Stats struct {
	TotalSessions          int             `json:"totalSessions"`
	TotalDuration          int64           `json:"totalDuration"`
	TotalRegular           int64           `json:"totalRegular"`
	TotalOvertime          int64           `json:"totalOvertime"`
	TotalAttempts          int             `json:"totalAttempts"`
	SuccessfulAttempts     int             `json:"successfulAttempts"`
	FailedAttempts         int             `json:"failedAttempts"`
	OverallSuccessRate     float64         `json:"overallSuccessRate"`
	RegularEarnings        decimal.Decimal `json:"regularEarnings"`
	OvertimeEarnings       decimal.Decimal `json:"overtimeEarnings"`
	TotalEarnings          decimal.Decimal `json:"totalEarnings"`
	AverageSessionDuration float64         `json:"averageSessionDuration"`
	LongestSession         int64           `json:"longestSession"`
	ShortestSession        int64           `json:"shortestSession"`
}

// ComputeUserStats totals every session and attempt the user has, with no
// date filtering.
func ComputeUserStats(user *models.User) Stats {
	return computeStats(user, user.ClockSessions, user.ClockAttempts)
}

func computeStats(user *models.User, sessions []models.ClockSession, attempts []models.ClockAttempt) Stats {
	st := Stats{TotalSessions: len(sessions)}

	for i, s := range sessions {
		d := int64(intValue(s.DurationMinutes)) * 60
		st.TotalDuration += d
		st.TotalRegular += int64(intValue(s.RegularMinutes)) * 60
		st.TotalOvertime += int64(intValue(s.OvertimeMinutes)) * 60
		if i == 0 || d > st.LongestSession {
			st.LongestSession = d
		}
		if i == 0 || d < st.ShortestSession {
			st.ShortestSession = d
		}
	}
	if len(sessions) > 0 {
		st.AverageSessionDuration = float64(st.TotalDuration) / float64(len(sessions))
	}

	st.TotalAttempts = len(attempts)
	for _, a := range attempts {
		if a.Success {
			st.SuccessfulAttempts++
		}
	}
	st.FailedAttempts = st.TotalAttempts - st.SuccessfulAttempts
	st.OverallSuccessRate = rate(st.SuccessfulAttempts, st.TotalAttempts)

	// Period totals pay overtime at 1.0 × extended_rate; see bucketEarnings.
	st.RegularEarnings = user.HourlyRate.Mul(decimal.NewFromInt(st.TotalRegular)).Div(secondsPerHour)
	st.OvertimeEarnings = user.ExtendedRate.Mul(decimal.NewFromInt(st.TotalOvertime)).Div(secondsPerHour)
	st.TotalEarnings = st.RegularEarnings.Add(st.OvertimeEarnings)
	return st
}
