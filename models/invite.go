package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Invite struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
	Code         string          `gorm:"uniqueIndex;not null;size:64" json:"code"`
	FullName     string          `gorm:"not null;size:200" json:"full_name"`
	Role         Role            `gorm:"not null;size:20" json:"role"`
	HourlyRate   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"hourly_rate"`
	ExtendedRate decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"extended_rate"`
	Used         bool            `gorm:"default:false" json:"used"`
	CreatedBy    uint            `gorm:"not null" json:"created_by"`
	ExpiresAt    time.Time       `gorm:"not null" json:"expires_at"`
}

func GenerateInviteCode() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (i *Invite) IsValid(now time.Time) bool {
	return !i.Used && now.Before(i.ExpiresAt)
}
