package models

import "time"

// Location is a named geofence that clock attempts are validated against.
type Location struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"uniqueIndex;not null;size:200" json:"name"`
	Latitude     float64   `gorm:"not null" json:"latitude"`
	Longitude    float64   `gorm:"not null" json:"longitude"`
	RadiusMeters float64   `gorm:"not null;default:0" json:"radius_meters"`
	Active       bool      `gorm:"default:true" json:"active"`
}
