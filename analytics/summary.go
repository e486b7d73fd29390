package analytics

import (
	"sort"
	"strings"
	"time"

	"timeclock/models"

	"github.com/shopspring/decimal"
)

// UserSummary is one row of the cross-user payroll report.
type UserSummary struct {
	UserID           uint            `json:"userId"`
	Name             string          `json:"name"`
	Role             models.Role     `json:"role"`
	Sessions         int             `json:"sessions"`
	TotalHours       decimal.Decimal `json:"totalHours"`
	OvertimeHours    decimal.Decimal `json:"overtimeHours"`
	RegularEarnings  decimal.Decimal `json:"regularEarnings"`
	OvertimeEarnings decimal.Decimal `json:"overtimeEarnings"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings"`
}

// SummarizeUsers analyses every user over rng and returns one row per user
// ordered by display name.
func SummarizeUsers(users []models.User, rng DateRange, now time.Time) []UserSummary {
	out := make([]UserSummary, 0, len(users))
	for i := range users {
		u := &users[i]
		snap := AnalyzeUser(u, rng, now)
		out = append(out, UserSummary{
			UserID:           u.ID,
			Name:             u.DisplayName(),
			Role:             u.Role,
			Sessions:         snap.TotalSessions,
			TotalHours:       decimal.NewFromInt(snap.TotalDuration).Div(secondsPerHour).Round(2),
			OvertimeHours:    decimal.NewFromInt(snap.TotalOvertime).Div(secondsPerHour).Round(2),
			RegularEarnings:  snap.RegularEarnings,
			OvertimeEarnings: snap.OvertimeEarnings,
			TotalEarnings:    snap.TotalEarnings,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
