package clock

import (
	"context"
	"testing"
	"time"

	"timeclock/analytics"
	"timeclock/apperror"
	"timeclock/database"
	"timeclock/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig("silent"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, hourly, extended int64) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		FullName:     username,
		PasswordHash: "x",
		Role:         models.RoleEmployee,
		HourlyRate:   decimal.NewFromInt(hourly),
		ExtendedRate: decimal.NewFromInt(extended),
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestRepository_FindOpenSession(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "ana", 10, 15)

	open, err := repo.FindOpenSession(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, open)

	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	closedOut := uint(1)
	require.NoError(t, repo.CreateSession(ctx, &models.ClockSession{UserID: u.ID, CreatedAt: base, ClockInEventID: 1, ClockOutEventID: &closedOut}))
	require.NoError(t, repo.CreateSession(ctx, &models.ClockSession{UserID: u.ID, CreatedAt: base.Add(time.Hour), ClockInEventID: 2}))

	open, err = repo.FindOpenSession(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, uint(2), open.ClockInEventID)
}

func TestRepository_OneOpenSessionPerUser(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	ana := createUser(t, db, "ana", 10, 15)
	bob := createUser(t, db, "bob", 10, 15)
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	first := &models.ClockSession{UserID: ana.ID, CreatedAt: base, ClockInEventID: 1}
	require.NoError(t, repo.CreateSession(ctx, first))

	err := repo.CreateSession(ctx, &models.ClockSession{UserID: ana.ID, CreatedAt: base.Add(time.Minute), ClockInEventID: 2})
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)

	// another user is unaffected
	require.NoError(t, repo.CreateSession(ctx, &models.ClockSession{UserID: bob.ID, CreatedAt: base, ClockInEventID: 3}))

	// closing frees the slot
	outID := uint(4)
	first.ClockOutEventID = &outID
	require.NoError(t, repo.UpdateSession(ctx, first))
	second := &models.ClockSession{UserID: ana.ID, CreatedAt: base.Add(time.Hour), ClockInEventID: 5}
	require.NoError(t, repo.CreateSession(ctx, second))

	// so does deleting
	require.NoError(t, repo.DeleteSession(ctx, second.ID))
	require.NoError(t, repo.CreateSession(ctx, &models.ClockSession{UserID: ana.ID, CreatedAt: base.Add(2 * time.Hour), ClockInEventID: 6}))

	var open int64
	require.NoError(t, db.Model(&models.ClockSession{}).Where("user_id = ? AND clock_out_event_id IS NULL", ana.ID).Count(&open).Error)
	assert.Equal(t, int64(1), open)
}

func TestRepository_ClockInRaceLosesToCommittedSession(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "ana", 10, 15)

	// Both transactions saw no open session; the second insert must fail
	// and take its attempt down with it.
	require.NoError(t, repo.CreateSession(ctx, &models.ClockSession{UserID: u.ID, CreatedAt: time.Now(), ClockInEventID: 1}))
	err := repo.Transaction(ctx, func(tx Repository) error {
		a := &models.ClockAttempt{UserID: u.ID, Type: models.AttemptIn, Timestamp: time.Now(), Success: true}
		require.NoError(t, tx.CreateAttempt(ctx, a))
		return tx.CreateSession(ctx, &models.ClockSession{UserID: u.ID, CreatedAt: time.Now(), ClockInEventID: a.ID})
	})
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)

	loaded, err := repo.LoadUserWithHistory(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.ClockAttempts)
	assert.Len(t, loaded.ClockSessions, 1)
}

func TestRepository_ListUsersWithHistoryByRole(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	createUser(t, db, "ana", 10, 15)
	boss := createUser(t, db, "boss", 20, 30)
	require.NoError(t, db.Model(boss).Update("role", models.RoleManager).Error)

	all, err := repo.ListUsersWithHistory(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	employees, err := repo.ListUsersWithHistory(ctx, models.RoleEmployee)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "ana", employees[0].Username)
}

func TestRepository_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.FindAttempt(ctx, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = repo.LoadUserWithHistory(ctx, 42)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	assert.ErrorIs(t, repo.DeleteSession(ctx, 42), apperror.ErrNotFound)
}

func TestRepository_TransactionRollsBack(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "ana", 10, 15)

	err := repo.Transaction(ctx, func(tx Repository) error {
		require.NoError(t, tx.CreateAttempt(ctx, &models.ClockAttempt{UserID: u.ID, Type: models.AttemptIn, Timestamp: time.Now(), Success: true}))
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	loaded, err := repo.LoadUserWithHistory(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.ClockAttempts)
}

func TestService_WithDatabase(t *testing.T) {
	db := openTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	u := createUser(t, db, "ana", 500, 700)
	require.NoError(t, db.Create(&models.Location{Name: "HQ", Latitude: 40.7128, Longitude: -74.0060, RadiusMeters: 100, Active: true}).Error)

	clk := &fakeClock{t: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)}
	svc := NewService(repo, &fakeStore{}, Options{GeofenceRequired: true, Now: clk.Now}, nil)
	lat, lng := 40.7128, -74.0060

	_, err := svc.ClockIn(ctx, u.ID, ClockRequest{
		Latitude:  &lat,
		Longitude: &lng,
		Evidence:  []Evidence{{ContentType: "image/jpeg", Size: 3}},
	})
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, u.ID, ClockRequest{Latitude: &lat, Longitude: &lng})
	assert.ErrorIs(t, err, ErrSessionAlreadyOpen)

	clk.t = time.Date(2024, 1, 1, 19, 0, 0, 0, time.UTC)
	out, err := svc.ClockOut(ctx, u.ID, ClockRequest{Latitude: &lat, Longitude: &lng})
	require.NoError(t, err)
	assert.Equal(t, 660, *out.Session.DurationMinutes)

	loaded, err := repo.LoadUserWithHistory(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, loaded.ClockAttempts, 3)
	require.Len(t, loaded.ClockSessions, 1)
	assert.Len(t, loaded.ClockAttempts[0].EvidenceImages, 1)

	to := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := analytics.AnalyzeUser(loaded, analytics.DateRange{From: to, To: &to}, clk.t)
	assert.Equal(t, int64(36000), snap.TotalRegular)
	assert.Equal(t, int64(3600), snap.TotalOvertime)
	assert.True(t, decimal.NewFromInt(5700).Equal(snap.TotalEarnings), snap.TotalEarnings.String())
	assert.Equal(t, 3, snap.TotalAttempts)
	assert.Equal(t, 1, snap.FailedAttempts)

	sessions := analytics.ReconstructSessions(loaded)
	require.Len(t, sessions, 1)
	assert.Equal(t, "HQ", *sessions[0].ClockInLocation)

	users, err := repo.ListUsersWithHistory(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Len(t, users[0].ClockSessions, 1)
}
