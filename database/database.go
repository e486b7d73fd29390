package database

import (
	"fmt"
	"time"

	"timeclock/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

var retryDelay = 5 * time.Second

// Init connects to postgres, retrying up to maxRetries times, then migrates
// the schema and seeds the default admin.
func Init(dsn string, maxRetries int, logLevel string) error {
	var lastErr error
	for i := 1; i <= maxRetries; i++ {
		db, err := gorm.Open(postgres.Open(dsn), GormConfig(logLevel))
		if err == nil {
			err = ping(db)
		}
		if err != nil {
			lastErr = err
			zap.L().Warn("database connect failed", zap.Int("attempt", i), zap.Int("max", maxRetries), zap.Error(err))
			time.Sleep(retryDelay)
			continue
		}
		return Setup(db)
	}
	return fmt.Errorf("database connection failed after %d retries: %w", maxRetries, lastErr)
}

// Setup migrates db, seeds the default admin and installs db as the global handle.
func Setup(db *gorm.DB) error {
	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if err := seedDefaultAdmin(db); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	DB = db
	return nil
}

// GormConfig translates driver constraint errors into gorm.ErrDuplicatedKey,
// which the repositories rely on to report conflicts.
func GormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(logLevel)),
		TranslateError: true,
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ClockAttempt{},
		&models.EvidenceImage{},
		&models.ClockSession{},
		&models.Location{},
		&models.Invite{},
	)
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Ping(); err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func seedDefaultAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username:           "admin",
		FullName:           "Administrator",
		PasswordHash:       string(hashedPassword),
		Role:               models.RoleAdmin,
		MustChangePassword: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	zap.L().Info("default admin user created", zap.String("username", "admin"))
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
