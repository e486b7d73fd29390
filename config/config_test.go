package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("JWT_EXPIRATION", "")
	t.Setenv("GEOFENCE_REQUIRED", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiration)
	assert.False(t, cfg.GeofenceRequired)
	assert.Equal(t, float64(150), cfg.GeofenceDefaultRadius)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("GEOFENCE_REQUIRED", "true")
	t.Setenv("CLOCK_RATE_BURST", "10")
	t.Setenv("EVIDENCE_MAX_BYTES", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
	assert.True(t, cfg.GeofenceRequired)
	assert.Equal(t, 10, cfg.ClockRateBurst)
	assert.Equal(t, int64(5<<20), cfg.EvidenceMaxBytes)
}
