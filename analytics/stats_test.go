package analytics

import (
	"testing"

	"timeclock/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeUserStats_Unscoped(t *testing.T) {
	u := newUser(500, 700)
	addSession(u, ts("2020-06-01T08:00:00Z"), ts("2020-06-01T19:00:00Z"), nil)
	addSession(u, ts("2024-01-01T08:00:00Z"), ts("2024-01-01T10:00:00Z"), nil)
	addAttempt(u, models.AttemptIn, ts("2024-01-02T08:00:00Z"), false, nil)

	st := ComputeUserStats(u)

	assert.Equal(t, 2, st.TotalSessions)
	assert.Equal(t, int64((660+120)*60), st.TotalDuration)
	assert.Equal(t, int64((600+120)*60), st.TotalRegular)
	assert.Equal(t, int64(60*60), st.TotalOvertime)
	assert.Equal(t, 5, st.TotalAttempts)
	assert.Equal(t, 4, st.SuccessfulAttempts)
	assert.Equal(t, 1, st.FailedAttempts)
	assert.Equal(t, float64(80), st.OverallSuccessRate)
	assert.Equal(t, int64(7200), st.ShortestSession)
	assert.Equal(t, int64(39600), st.LongestSession)
	assert.Equal(t, float64(23400), st.AverageSessionDuration)
	assert.True(t, decimal.NewFromInt(6000).Equal(st.RegularEarnings), st.RegularEarnings.String())
	assert.True(t, decimal.NewFromInt(700).Equal(st.OvertimeEarnings), st.OvertimeEarnings.String())
}

func TestComputeUserStats_Empty(t *testing.T) {
	st := ComputeUserStats(newUser(500, 700))
	assert.Equal(t, Stats{
		RegularEarnings:  st.RegularEarnings,
		OvertimeEarnings: st.OvertimeEarnings,
		TotalEarnings:    st.TotalEarnings,
	}, st)
	assert.True(t, st.TotalEarnings.IsZero())
}

func TestSummarizeUsers(t *testing.T) {
	ana := newUser(500, 700)
	addSession(ana, ts("2024-01-01T08:00:00Z"), ts("2024-01-01T19:00:00Z"), nil)
	bo := newUser(100, 100)
	bo.ID = 2
	bo.FullName = "bo Lin"

	rows := SummarizeUsers([]models.User{*bo, *ana}, dayRange("2024-01-01", "2024-01-31"), now)

	require.Len(t, rows, 2)
	assert.Equal(t, "Ana Torres", rows[0].Name)
	assert.Equal(t, "11", rows[0].TotalHours.String())
	assert.Equal(t, "1", rows[0].OvertimeHours.String())
	assert.True(t, decimal.NewFromInt(5700).Equal(rows[0].TotalEarnings))
	assert.Equal(t, "bo Lin", rows[1].Name)
	assert.Equal(t, 0, rows[1].Sessions)
}
