package config

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"blog-toolkit/logger"
)

var DB *gorm.DB

// DSN builds the postgres connection string from the environment.
func DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_USER", "postgres"),
		GetEnv("DB_PASSWORD", ""),
		GetEnv("DB_NAME", "blog_toolkit"),
		GetEnv("DB_SSLMODE", "disable"),
	)
}

// ConnectDB opens the postgres connection and exits on failure.
func ConnectDB() {
	level := gormlogger.Warn
	if GetEnv("LOG_LEVEL", "info") == "debug" {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		logger.L().Fatal("Failed to connect to database", logger.Err(err))
	}

	DB = db
	logger.L().Info("Database connected successfully")
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
