package models

import (
	"time"

	"gorm.io/gorm"
)

type AttemptType string

const (
	AttemptIn  AttemptType = "IN"
	AttemptOut AttemptType = "OUT"
)

// ClockAttempt is one recorded clock-in or clock-out action. Attempts are
// immutable once written; failed attempts are never linked to a session.
type ClockAttempt struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	UserID         uint            `gorm:"not null;index" json:"user_id"`
	Type           AttemptType     `gorm:"not null;size:3" json:"type"`
	Timestamp      time.Time       `gorm:"not null;index" json:"timestamp"`
	Success        bool            `gorm:"not null" json:"success"`
	Location       *string         `gorm:"size:200" json:"location"`
	Latitude       *float64        `json:"latitude,omitempty"`
	Longitude      *float64        `json:"longitude,omitempty"`
	Notes          *string         `gorm:"size:1000" json:"notes"`
	FailureReason  *string         `gorm:"size:200" json:"failure_reason,omitempty"`
	EvidenceImages []EvidenceImage `gorm:"foreignKey:ClockAttemptID" json:"evidence_images,omitempty"`
}

type EvidenceImage struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	ClockAttemptID uint      `gorm:"not null;index" json:"clock_attempt_id"`
	ObjectKey      string    `gorm:"not null;size:300" json:"object_key"`
	ContentType    string    `gorm:"not null;size:50" json:"content_type"`
	SizeBytes      int64     `json:"size_bytes"`
}

// ClockSession is one work period. It is open while ClockOutEventID is nil;
// the minute fields are written once, when the session is closed. A user has
// at most one open session, enforced by a partial unique index.
type ClockSession struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	UserID          uint           `gorm:"not null;index;uniqueIndex:idx_clock_sessions_open_user,where:clock_out_event_id IS NULL AND deleted_at IS NULL" json:"user_id"`
	ClockInEventID  uint           `gorm:"not null" json:"clock_in_event_id"`
	ClockOutEventID *uint          `gorm:"index" json:"clock_out_event_id"`
	DurationMinutes *int           `json:"duration_minutes"`
	RegularMinutes  *int           `json:"regular_minutes"`
	OvertimeMinutes *int           `json:"overtime_minutes"`
	FieldNotes      *string        `gorm:"size:2000" json:"field_notes,omitempty"`
}

func (s *ClockSession) IsOpen() bool {
	return s.ClockOutEventID == nil
}
