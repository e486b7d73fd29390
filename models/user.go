package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	}
	return false
}

type User struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
	Username           string          `gorm:"uniqueIndex:idx_users_username,where:deleted_at IS NULL;not null;size:100" json:"username"`
	FullName           string          `gorm:"not null;size:200" json:"full_name"`
	PasswordHash       string          `gorm:"not null" json:"-"`
	Role               Role            `gorm:"not null;size:20" json:"role"`
	MustChangePassword bool            `gorm:"default:true" json:"must_change_password"`
	HourlyRate         decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"hourly_rate"`
	ExtendedRate       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"extended_rate"`
	ClockAttempts      []ClockAttempt  `gorm:"foreignKey:UserID" json:"clock_attempts,omitempty"`
	ClockSessions      []ClockSession  `gorm:"foreignKey:UserID" json:"clock_sessions,omitempty"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsManager() bool {
	return u.Role == RoleManager
}

func (u *User) IsEmployee() bool {
	return u.Role == RoleEmployee
}

// CanViewAnalyticsFor reports whether u may read another user's sessions and analytics.
func (u *User) CanViewAnalyticsFor(userID uint) bool {
	if u.IsAdmin() || u.IsManager() {
		return true
	}
	return u.ID == userID
}

func (u *User) CanViewReports() bool {
	return u.IsAdmin() || u.IsManager()
}

func (u *User) CanCreateInvites() bool {
	return u.IsAdmin()
}
