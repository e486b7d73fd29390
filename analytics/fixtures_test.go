package analytics

import (
	"time"

	"timeclock/models"

	"github.com/shopspring/decimal"
)

func newUser(hourly, extended int64) *models.User {
	return &models.User{
		ID:           1,
		FullName:     "Ana Torres",
		Role:         models.RoleEmployee,
		HourlyRate:   decimal.NewFromInt(hourly),
		ExtendedRate: decimal.NewFromInt(extended),
	}
}

func ts(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func strPtr(s string) *string { return &s }

func addAttempt(u *models.User, typ models.AttemptType, at time.Time, success bool, location *string) *models.ClockAttempt {
	u.ClockAttempts = append(u.ClockAttempts, models.ClockAttempt{
		ID:        uint(len(u.ClockAttempts) + 1),
		UserID:    u.ID,
		Type:      typ,
		Timestamp: at,
		Success:   success,
		Location:  location,
	})
	return &u.ClockAttempts[len(u.ClockAttempts)-1]
}

// addSession records a successful clock-in/clock-out pair and the closed
// session linking them, the same way the clock service does.
func addSession(u *models.User, in, out time.Time, location *string) {
	inID := addAttempt(u, models.AttemptIn, in, true, location).ID
	outID := addAttempt(u, models.AttemptOut, out, true, location).ID
	total, regular, overtime := SplitDuration(in, out)
	u.ClockSessions = append(u.ClockSessions, models.ClockSession{
		ID:              uint(len(u.ClockSessions) + 1),
		CreatedAt:       in,
		UserID:          u.ID,
		ClockInEventID:  inID,
		ClockOutEventID: &outID,
		DurationMinutes: &total,
		RegularMinutes:  &regular,
		OvertimeMinutes: &overtime,
	})
}

func dayRange(from, to string) DateRange {
	f := ts(from + "T00:00:00Z")
	t := ts(to + "T00:00:00Z")
	return DateRange{From: f, To: &t}
}
