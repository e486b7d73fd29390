// Package analytics turns a user's clock attempts and work sessions into
// reconstructed sessions, per-user totals, and calendar-bucketed views.
// Every function here is pure: callers pass the current time explicitly.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// OvertimeThresholdMinutes is the per-session cap on regular minutes.
const OvertimeThresholdMinutes = 600

var (
	sixty              = decimal.NewFromInt(60)
	secondsPerHour     = decimal.NewFromInt(3600)
	overtimeMultiplier = decimal.NewFromFloat(1.5)
)

// SplitDuration returns the whole minutes between clockIn and clockOut and
// splits them at OvertimeThresholdMinutes. A clockOut before clockIn yields a
// negative total and negative regular minutes; the value is not clamped.
func SplitDuration(clockIn, clockOut time.Time) (total, regular, overtime int) {
	total = int(clockOut.Sub(clockIn).Milliseconds() / 60000)
	regular, overtime = SplitMinutes(total)
	return total, regular, overtime
}

// SplitMinutes divides total at OvertimeThresholdMinutes into regular and overtime minutes.
func SplitMinutes(total int) (regular, overtime int) {
	return min(OvertimeThresholdMinutes, total), max(0, total-OvertimeThresholdMinutes)
}

// pay returns rate × minutes / 60.
func pay(rate decimal.Decimal, minutes int) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(int64(minutes))).Div(sixty)
}

// bucketEarnings is the earnings formula used by the weekday, recent-activity
// and weekly-trend buckets: overtime is paid at 1.5 × extended_rate.
//
// NOTE: three overtime conventions coexist and are intentionally not unified
// until payroll confirms the business rule:
//   - reconstructed sessions: overtime at 1.5 × hourly_rate
//   - period totals:          overtime at 1.0 × extended_rate
//   - calendar buckets:       overtime at 1.5 × extended_rate (this function)
func bucketEarnings(hourly, extended decimal.Decimal, regularMinutes, overtimeMinutes int) decimal.Decimal {
	return pay(hourly, regularMinutes).Add(pay(extended.Mul(overtimeMultiplier), overtimeMinutes))
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// rate returns part/whole as a percentage, or 0 when whole is zero.
func rate(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
