package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"timeless/config"
	"timeless/database"
	"timeless/query"
	"timeless/services"
)

func main() {
	// Load .env file and environment
	cfg, err := config.Load(".env")
	if err != nil {
		logrus.Fatalf("Unable to load configuration: %v", err)
	}
	log := config.Logger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &query.Server{Log: log, Schema: "public"}

	// Initialize DB connection
	if cfg.Postgres.Enabled() {
		pool, err := database.Connect(ctx, cfg.Postgres)
		if err != nil {
			log.WithError(err).Fatal("Unable to connect to the database")
		}
		defer pool.Close()
		srv.DB = pool
		log.WithFields(logrus.Fields{
			"host": cfg.Postgres.Host,
			"db":   cfg.Postgres.DB,
		}).Info("Successfully connected to the database")
	} else {
		log.Warn("POSTGRES_HOST not set, only inline tables can be rendered")
	}

	suggester, err := services.NewSuggester(cfg.LLM)
	switch {
	case err == nil:
		srv.Suggester = suggester
		log.WithField("provider", cfg.LLM.Provider).Info("Query suggestion enabled")
	case errors.Is(err, services.ErrSuggesterDisabled):
		log.Warn("API_KEY not set, query suggestion disabled")
	default:
		log.WithError(err).Fatal("Unable to create query suggester")
	}

	// Create a CORS handler
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
	})

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           c.Handler(srv.Routes()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("Shutdown failed")
		}
	}()

	log.Infof("Server starting on %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("Server failed")
	}
}
