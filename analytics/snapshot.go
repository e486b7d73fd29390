package analytics

import (
	"sort"
	"time"

	"timeclock/models"
)

// Snapshot is the full analytics view of one user over a date range.
// Durations are in seconds, rates are percentages.
type Snapshot struct {
	UserID uint      `json:"userId"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`

	Stats

	DailyStats        WeekdayStats         `json:"dailyStats"`
	MostActiveDay     string               `json:"mostActiveDay"`
	LeastActiveDay    string               `json:"leastActiveDay"`
	MostProductiveDay string               `json:"mostProductiveDay"`
	AttemptTypes      AttemptTypeBreakdown `json:"attemptTypes"`
	RecentActivity    []DayActivity        `json:"recentActivity"`
	Trends            []WeekTrend          `json:"trends"`
	LocationStats     []LocationStat       `json:"locationStats"`

	// Attempts holds the in-range attempts, most recent first.
	Attempts []models.ClockAttempt `json:"attempts"`
}

// AnalyzeUser builds a Snapshot from the user's attempts (filtered by
// timestamp) and sessions (filtered by creation time) that fall within rng.
// now stands in for a missing rng.To.
func AnalyzeUser(user *models.User, rng DateRange, now time.Time) Snapshot {
	w := rng.resolve(now)

	attempts := make([]models.ClockAttempt, 0, len(user.ClockAttempts))
	for _, a := range user.ClockAttempts {
		if w.contains(a.Timestamp) {
			attempts = append(attempts, a)
		}
	}
	sort.SliceStable(attempts, func(i, j int) bool {
		return attempts[i].Timestamp.After(attempts[j].Timestamp)
	})

	sessions := make([]models.ClockSession, 0, len(user.ClockSessions))
	for _, s := range user.ClockSessions {
		if w.contains(s.CreatedAt) {
			sessions = append(sessions, s)
		}
	}

	daily := dailyPattern(user, sessions, attempts, w.loc)
	return Snapshot{
		UserID:            user.ID,
		From:              w.start,
		To:                w.end,
		Stats:             computeStats(user, sessions, attempts),
		DailyStats:        daily,
		MostActiveDay:     daily.MostActive().String(),
		LeastActiveDay:    daily.LeastActive().String(),
		MostProductiveDay: daily.MostProductive().String(),
		AttemptTypes:      attemptTypes(attempts),
		RecentActivity:    recentActivity(user, sessions, attempts, w),
		Trends:            weeklyTrends(user, sessions, attempts, w),
		LocationStats:     locationStats(user, sessions, attempts),
		Attempts:          attempts,
	}
}
