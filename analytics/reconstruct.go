package analytics

import (
	"time"

	"timeclock/models"

	"github.com/shopspring/decimal"
)

// ReconstructedSession is a work session joined with its clock-in and
// clock-out attempts.
type ReconstructedSession struct {
	SessionID        uint            `json:"session_id"`
	ClockIn          time.Time       `json:"clock_in"`
	ClockOut         time.Time       `json:"clock_out"`
	DurationMinutes  int             `json:"duration_minutes"`
	RegularMinutes   int             `json:"regular_minutes"`
	OvertimeMinutes  int             `json:"overtime_minutes"`
	EarningsRegular  decimal.Decimal `json:"earnings_regular"`
	EarningsOvertime decimal.Decimal `json:"earnings_overtime"`
	ClockInLocation  *string         `json:"clock_in_location"`
	ClockOutLocation *string         `json:"clock_out_location"`
	ClockInNotes     *string         `json:"clock_in_notes"`
	ClockOutNotes    *string         `json:"clock_out_notes"`
	FieldNotes       *string         `json:"field_notes,omitempty"`
}

// ReconstructSessions resolves the attempt references of every session in
// user.ClockSessions, keeping their order. A session whose clock-in or
// clock-out attempt cannot be found (including a still-open session) becomes
// a zero-valued placeholder stamped with the session's creation time.
//
// Overtime here is paid at 1.5 × hourly_rate; see bucketEarnings.
func ReconstructSessions(user *models.User) []ReconstructedSession {
	byID := make(map[uint]*models.ClockAttempt, len(user.ClockAttempts))
	for i := range user.ClockAttempts {
		byID[user.ClockAttempts[i].ID] = &user.ClockAttempts[i]
	}

	out := make([]ReconstructedSession, 0, len(user.ClockSessions))
	for _, s := range user.ClockSessions {
		in := byID[s.ClockInEventID]
		var outAttempt *models.ClockAttempt
		if s.ClockOutEventID != nil {
			outAttempt = byID[*s.ClockOutEventID]
		}
		if in == nil || outAttempt == nil {
			out = append(out, placeholder(s))
			continue
		}

		regular := intValue(s.RegularMinutes)
		overtime := intValue(s.OvertimeMinutes)
		out = append(out, ReconstructedSession{
			SessionID:        s.ID,
			ClockIn:          in.Timestamp,
			ClockOut:         outAttempt.Timestamp,
			DurationMinutes:  intValue(s.DurationMinutes),
			RegularMinutes:   regular,
			OvertimeMinutes:  overtime,
			EarningsRegular:  pay(user.HourlyRate, regular),
			EarningsOvertime: pay(user.HourlyRate.Mul(overtimeMultiplier), overtime),
			ClockInLocation:  in.Location,
			ClockOutLocation: outAttempt.Location,
			ClockInNotes:     in.Notes,
			ClockOutNotes:    outAttempt.Notes,
			FieldNotes:       s.FieldNotes,
		})
	}
	return out
}

func placeholder(s models.ClockSession) ReconstructedSession {
	return ReconstructedSession{
		SessionID:        s.ID,
		ClockIn:          s.CreatedAt,
		ClockOut:         s.CreatedAt,
		EarningsRegular:  decimal.Zero,
		EarningsOvertime: decimal.Zero,
	}
}
