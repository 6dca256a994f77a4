package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-toolkit/config"
	"blog-toolkit/handlers"
	"blog-toolkit/logger"
	"blog-toolkit/models"
	"blog-toolkit/options"
	"blog-toolkit/routes"
	"blog-toolkit/utils"

	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	log, err := logger.New(logger.Config{
		Level:       config.GetEnv("LOG_LEVEL", "info"),
		Development: config.GetEnv("APP_ENV", "production") == "development",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create logger:", err)
		os.Exit(1)
	}
	logger.SetDefault(log)
	defer func() { _ = log.Sync() }()

	// Connect to database
	config.ConnectDB()

	// Connect to Redis for caching
	config.ConnectRedis()

	// Auto migrate database schemas
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Category{},
		&models.Post{},
		&models.Comment{},
		&models.Option{},
	); err != nil {
		log.Fatal("Failed to migrate database", logger.Err(err))
	}

	// Settings are stored in the options table
	options.SetDefault(options.NewManager(options.NewGormStore(db)))

	// Create default admin user if not exists
	if err := createDefaultAdmin(db, log); err != nil {
		log.Error("Failed to create default admin", logger.Err(err))
	}

	// Shortcodes registered with the site; empty strips any [name] markup
	handlers.UseShortcodes(config.GetEnvList("SHORTCODES"))

	// Setup routes
	router := routes.SetupRoutes()

	port := config.GetEnv("PORT", "8080")
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", logger.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", logger.Err(err))
	}
	log.Info("Server stopped")
}

// createDefaultAdmin adds an admin from ADMIN_EMAIL and ADMIN_PASSWORD when
// no admin exists yet.
func createDefaultAdmin(db *gorm.DB, log logger.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	email := config.GetEnv("ADMIN_EMAIL", "admin@example.com")
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Warn("No admin exists and ADMIN_PASSWORD is not set, skipping default admin")
		return nil
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := models.User{
		Name:     "Admin",
		Email:    email,
		Password: hashedPassword,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	log.Info("Default admin created", logger.String("email", email))
	return nil
}
