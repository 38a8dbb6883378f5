package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/devhub/devconnect/internal/config"
	"github.com/devhub/devconnect/internal/db"
	"github.com/devhub/devconnect/internal/repo"
	"github.com/devhub/devconnect/internal/stats"
)

func main() {

	// Load configuration
	cfg := config.Load()

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		log.Fatal("JWT_SECRET must be set in prod")
	}

	setupLogger(cfg.LogFormat)

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Migrate(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Background gauge refresh (user/post counts)
	collector := stats.NewCollector(repo.NewUserRepo(database), repo.NewPostRepo(database))
	if err := collector.Start(); err != nil {
		log.Fatalf("Failed to start stats collector: %v", err)
	}
	defer collector.Stop()

	r := newRouter(database, cfg)

	// Start server LAST
	slog.Info("starting server", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(format string) {
	if format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}
}
