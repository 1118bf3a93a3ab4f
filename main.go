package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/rick2x/fieldprofiler/adapters/api"
	"github.com/rick2x/fieldprofiler/adapters/distshape"
	"github.com/rick2x/fieldprofiler/adapters/postgres"
	"github.com/rick2x/fieldprofiler/app"
	"github.com/rick2x/fieldprofiler/internal"
	"github.com/rick2x/fieldprofiler/internal/analyze"
	"github.com/rick2x/fieldprofiler/internal/config"
)

func main() {
	// Load .env file if present (ignore errors - env vars may be set directly)
	_ = godotenv.Load()

	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var db *sqlx.DB
	if cfg.Database.URL != "" {
		db, err = postgres.Connect(cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		logger.Info("Database source enabled (schema %s)", cfg.Database.Schema)
	} else {
		logger.Info("No DATABASE_URL set; file layers only")
	}

	analyzer := analyze.New(distshape.NewAnalyzer())
	profiles := app.NewProfileService(analyzer, logger)
	exports := app.NewExportService(profiles, logger)
	sources := api.NewSourceResolver(cfg.Source.Dir, db, cfg.Database.Schema)

	apiApp := api.NewApp(profiles, exports, sources, cfg.Analysis, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      apiApp.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		logger.Info("Field profiler API listening on :%s (layers from %s)", cfg.Server.Port, cfg.Source.Dir)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed: %v", err)
	}
}
