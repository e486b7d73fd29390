package clock

import (
	"context"
	"errors"

	"timeclock/apperror"
	"timeclock/models"

	"gorm.io/gorm"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction, committing when fn returns nil.
	Transaction(ctx context.Context, fn func(repo Repository) error) error
	// FindOpenSession returns the user's most recently created open session, or nil.
	FindOpenSession(ctx context.Context, userID uint) (*models.ClockSession, error)
	FindAttempt(ctx context.Context, id uint) (*models.ClockAttempt, error)
	CreateAttempt(ctx context.Context, a *models.ClockAttempt) error
	CreateSession(ctx context.Context, s *models.ClockSession) error
	UpdateSession(ctx context.Context, s *models.ClockSession) error
	DeleteSession(ctx context.Context, id uint) error
	ListLocations(ctx context.Context) ([]models.Location, error)
	// LoadUserWithHistory returns the user with attempts (and their evidence)
	// and sessions preloaded.
	LoadUserWithHistory(ctx context.Context, userID uint) (*models.User, error)
	// ListUsersWithHistory returns users holding any of roles, or every user
	// when roles is empty, ordered by full name.
	ListUsersWithHistory(ctx context.Context, roles ...models.Role) ([]models.User, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) FindOpenSession(ctx context.Context, userID uint) (*models.ClockSession, error) {
	var s models.ClockSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND clock_out_event_id IS NULL", userID).
		Order("created_at DESC, id DESC").
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAttempt(ctx context.Context, id uint) (*models.ClockAttempt, error) {
	var a models.ClockAttempt
	err := r.db.WithContext(ctx).First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) CreateAttempt(ctx context.Context, a *models.ClockAttempt) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// CreateSession reports ErrSessionAlreadyOpen when s is open and the user
// already has an open session.
func (r *repository) CreateSession(ctx context.Context, s *models.ClockSession) error {
	err := r.db.WithContext(ctx).Create(s).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrSessionAlreadyOpen
	}
	return err
}

func (r *repository) UpdateSession(ctx context.Context, s *models.ClockSession) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) DeleteSession(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.ClockSession{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

func (r *repository) ListLocations(ctx context.Context) ([]models.Location, error) {
	var rows []models.Location
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("name").Find(&rows).Error
	return rows, err
}

func (r *repository) LoadUserWithHistory(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).
		Preload("ClockAttempts.EvidenceImages").
		Preload("ClockSessions").
		First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) ListUsersWithHistory(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	var users []models.User
	q := r.db.WithContext(ctx)
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	err := q.
		Preload("ClockAttempts").
		Preload("ClockSessions").
		Order("full_name").
		Find(&users).Error
	return users, err
}
