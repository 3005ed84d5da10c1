package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect ouvre la connexion Postgres et la place dans DB.
func Connect(dsn, logLevel string) error {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(logLevel)),
	})
	if err != nil {
		return fmt.Errorf("connexion postgres: %w", err)
	}

	DB = db
	return nil
}

// Close ferme le pool sous-jacent.
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

func gormLogLevel(s string) logger.LogLevel {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return logger.Info
	case "WARN", "WARNING":
		return logger.Warn
	case "ERROR":
		return logger.Error
	default:
		return logger.Silent
	}
}
