package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL      string
	DBMaxRetries     int
	DBLogLevel       string
	JWTSecret        string
	JWTExpiration    time.Duration
	ServerPort       string
	InviteExpiration time.Duration
	LogLevel         string
	LogDevelopment   bool

	// Geofence
	GeofenceRequired      bool
	GeofenceDefaultRadius float64

	// Evidence image storage; disabled when EvidenceEndpoint is empty.
	EvidenceEndpoint  string
	EvidenceAccessKey string
	EvidenceSecretKey string
	EvidenceBucket    string
	EvidenceUseSSL    bool
	EvidenceMaxBytes  int64

	// Per-user clock submissions.
	ClockRatePerMinute float64
	ClockRateBurst     int
}

// Load reads the environment, after merging in a .env file when one exists.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DatabaseURL:           getEnv("DATABASE_URL", "postgresql://postgres@localhost:5432/timeclock"),
		DBMaxRetries:          getInt("DB_MAX_RETRIES", 5),
		DBLogLevel:            getEnv("DB_LOG_LEVEL", "warn"),
		JWTSecret:             getEnv("JWT_SECRET", "your-super-secret-key-change-in-production"),
		JWTExpiration:         getDuration("JWT_EXPIRATION", 24*time.Hour),
		ServerPort:            getEnv("SERVER_PORT", "8080"),
		InviteExpiration:      getDuration("INVITE_EXPIRATION", 7*24*time.Hour),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogDevelopment:        getBool("LOG_DEVELOPMENT", false),
		GeofenceRequired:      getBool("GEOFENCE_REQUIRED", false),
		GeofenceDefaultRadius: getFloat("GEOFENCE_DEFAULT_RADIUS_METERS", 150),
		EvidenceEndpoint:      getEnv("EVIDENCE_ENDPOINT", ""),
		EvidenceAccessKey:     getEnv("EVIDENCE_ACCESS_KEY", ""),
		EvidenceSecretKey:     getEnv("EVIDENCE_SECRET_KEY", ""),
		EvidenceBucket:        getEnv("EVIDENCE_BUCKET", "clock-evidence"),
		EvidenceUseSSL:        getBool("EVIDENCE_USE_SSL", false),
		EvidenceMaxBytes:      int64(getInt("EVIDENCE_MAX_BYTES", 5<<20)),
		ClockRatePerMinute:    getFloat("CLOCK_RATE_PER_MINUTE", 6),
		ClockRateBurst:        getInt("CLOCK_RATE_BURST", 3),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
