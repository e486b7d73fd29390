package analytics

import (
	"encoding/json"
	"sort"
	"time"

	"timeclock/models"

	"github.com/shopspring/decimal"
)

// Weekday indexes WeekdayStats with Monday as 0 and Sunday as 6.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Weekday) String() string {
	return weekdayNames[d]
}

func isoWeekday(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// DayStats accumulates everything that fell on one weekday. Durations are in seconds.
type DayStats struct {
	Sessions           int             `json:"sessions"`
	Duration           int64           `json:"duration"`
	Overtime           int64           `json:"overtime"`
	Regular            int64           `json:"regular"`
	Earnings           decimal.Decimal `json:"earnings"`
	Attempts           int             `json:"attempts"`
	SuccessfulAttempts int             `json:"successfulAttempts"`
}

// WeekdayStats always carries all seven days, zero-valued when empty.
type WeekdayStats [7]DayStats

func (w WeekdayStats) MarshalJSON() ([]byte, error) {
	m := make(map[string]DayStats, len(w))
	for i, d := range w {
		m[weekdayNames[i]] = d
	}
	return json.Marshal(m)
}

func dailyPattern(user *models.User, sessions []models.ClockSession, attempts []models.ClockAttempt, loc *time.Location) WeekdayStats {
	var w WeekdayStats
	for i := range w {
		w[i].Earnings = decimal.Zero
	}
	for _, s := range sessions {
		d := &w[isoWeekday(s.CreatedAt.In(loc))]
		regular, overtime := intValue(s.RegularMinutes), intValue(s.OvertimeMinutes)
		d.Sessions++
		d.Duration += int64(intValue(s.DurationMinutes)) * 60
		d.Overtime += int64(overtime) * 60
		d.Regular += int64(regular) * 60
		d.Earnings = d.Earnings.Add(bucketEarnings(user.HourlyRate, user.ExtendedRate, regular, overtime))
	}
	for _, a := range attempts {
		d := &w[isoWeekday(a.Timestamp.In(loc))]
		d.Attempts++
		if a.Success {
			d.SuccessfulAttempts++
		}
	}
	return w
}

// MostActive returns the weekday with the most sessions; ties go to the
// earlier day and an empty week reports Monday.
func (w WeekdayStats) MostActive() Weekday {
	best := Monday
	for d := Tuesday; d <= Sunday; d++ {
		if w[d].Sessions > w[best].Sessions {
			best = d
		}
	}
	return best
}

// LeastActive returns the weekday with the fewest sessions among days that
// have at least one, or Monday when none do.
func (w WeekdayStats) LeastActive() Weekday {
	best, found := Monday, false
	for d := Monday; d <= Sunday; d++ {
		if w[d].Sessions == 0 {
			continue
		}
		if !found || w[d].Sessions < w[best].Sessions {
			best, found = d, true
		}
	}
	return best
}

// MostProductive returns the weekday with the greatest total duration.
func (w WeekdayStats) MostProductive() Weekday {
	best := Monday
	for d := Tuesday; d <= Sunday; d++ {
		if w[d].Duration > w[best].Duration {
			best = d
		}
	}
	return best
}

type AttemptTypeStats struct {
	Attempts    int     `json:"attempts"`
	Successful  int     `json:"successful"`
	SuccessRate float64 `json:"successRate"`
}

type AttemptTypeBreakdown struct {
	In  AttemptTypeStats `json:"in"`
	Out AttemptTypeStats `json:"out"`
}

func attemptTypes(attempts []models.ClockAttempt) AttemptTypeBreakdown {
	var b AttemptTypeBreakdown
	for _, a := range attempts {
		t := &b.In
		if a.Type == models.AttemptOut {
			t = &b.Out
		}
		t.Attempts++
		if a.Success {
			t.Successful++
		}
	}
	b.In.SuccessRate = rate(b.In.Successful, b.In.Attempts)
	b.Out.SuccessRate = rate(b.Out.Successful, b.Out.Attempts)
	return b
}

// DayActivity summarises one calendar day of the recent-activity series.
type DayActivity struct {
	Date        string          `json:"date"`
	Sessions    int             `json:"sessions"`
	Duration    int64           `json:"duration"`
	Overtime    int64           `json:"overtime"`
	Attempts    int             `json:"attempts"`
	SuccessRate float64         `json:"successRate"`
	Earnings    decimal.Decimal `json:"earnings"`
}

// recentActivity covers the last min(7, days) days of w, oldest first.
func recentActivity(user *models.User, sessions []models.ClockSession, attempts []models.ClockAttempt, w window) []DayActivity {
	total := w.days()
	n := min(7, total)
	out := make([]DayActivity, 0, n)
	for offset := total - n; offset < total; offset++ {
		day := w.day(offset)
		b := collect(user, sessions, attempts, day)
		out = append(out, DayActivity{
			Date:        day.start.Format(isoDate),
			Sessions:    b.sessions,
			Duration:    b.duration,
			Overtime:    b.overtime,
			Attempts:    b.attempts,
			SuccessRate: rate(b.successful, b.attempts),
			Earnings:    b.earnings,
		})
	}
	return out
}

// WeekTrend is one seven-day bucket of a range longer than a week.
type WeekTrend struct {
	Week        int             `json:"week"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Sessions    int             `json:"sessions"`
	Duration    int64           `json:"duration"`
	SuccessRate float64         `json:"successRate"`
	Earnings    decimal.Decimal `json:"earnings"`
}

// weeklyTrends is empty unless w spans more than seven days. The last bucket
// is cut short at the end of w.
func weeklyTrends(user *models.User, sessions []models.ClockSession, attempts []models.ClockAttempt, w window) []WeekTrend {
	days := w.days()
	if days <= 7 {
		return []WeekTrend{}
	}
	weeks := (days + 6) / 7
	out := make([]WeekTrend, 0, weeks)
	for i := 0; i < weeks; i++ {
		start := w.start.AddDate(0, 0, 7*i)
		end := endOfDay(start.AddDate(0, 0, 6), w.loc)
		if end.After(w.end) {
			end = w.end
		}
		b := collect(user, sessions, attempts, window{start: start, end: end, loc: w.loc})
		out = append(out, WeekTrend{
			Week:        i + 1,
			StartDate:   start.Format(isoDate),
			EndDate:     end.Format(isoDate),
			Sessions:    b.sessions,
			Duration:    b.duration,
			SuccessRate: rate(b.successful, b.attempts),
			Earnings:    b.earnings,
		})
	}
	return out
}

type bucket struct {
	sessions   int
	duration   int64
	overtime   int64
	attempts   int
	successful int
	earnings   decimal.Decimal
}

func collect(user *models.User, sessions []models.ClockSession, attempts []models.ClockAttempt, w window) bucket {
	b := bucket{earnings: decimal.Zero}
	for _, s := range sessions {
		if !w.contains(s.CreatedAt) {
			continue
		}
		regular, overtime := intValue(s.RegularMinutes), intValue(s.OvertimeMinutes)
		b.sessions++
		b.duration += int64(intValue(s.DurationMinutes)) * 60
		b.overtime += int64(overtime) * 60
		b.earnings = b.earnings.Add(bucketEarnings(user.HourlyRate, user.ExtendedRate, regular, overtime))
	}
	for _, a := range attempts {
		if !w.contains(a.Timestamp) {
			continue
		}
		b.attempts++
		if a.Success {
			b.successful++
		}
	}
	return b
}

const unknownLocation = "Unknown"

// LocationStat groups attempts by their location label and sessions by the
// label of their clock-in attempt.
type LocationStat struct {
	Location           string  `json:"location"`
	Attempts           int     `json:"attempts"`
	SuccessfulAttempts int     `json:"successfulAttempts"`
	SuccessRate        float64 `json:"successRate"`
	Sessions           int     `json:"sessions"`
	Duration           int64   `json:"duration"`
}

func locationStats(user *models.User, sessions []models.ClockSession, attempts []models.ClockAttempt) []LocationStat {
	byName := make(map[string]*LocationStat)
	get := func(label *string) *LocationStat {
		name := unknownLocation
		if label != nil && *label != "" {
			name = *label
		}
		ls, ok := byName[name]
		if !ok {
			ls = &LocationStat{Location: name}
			byName[name] = ls
		}
		return ls
	}

	for _, a := range attempts {
		ls := get(a.Location)
		ls.Attempts++
		if a.Success {
			ls.SuccessfulAttempts++
		}
	}

	// Sessions may reference clock-ins outside the filtered attempts, so
	// resolve against the full history.
	byID := make(map[uint]*string, len(user.ClockAttempts))
	for _, a := range user.ClockAttempts {
		byID[a.ID] = a.Location
	}
	for _, s := range sessions {
		ls := get(byID[s.ClockInEventID])
		ls.Sessions++
		ls.Duration += int64(intValue(s.DurationMinutes)) * 60
	}

	out := make([]LocationStat, 0, len(byName))
	for _, ls := range byName {
		ls.SuccessRate = rate(ls.SuccessfulAttempts, ls.Attempts)
		out = append(out, *ls)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Attempts != out[j].Attempts {
			return out[i].Attempts > out[j].Attempts
		}
		return out[i].Location < out[j].Location
	})
	return out
}
