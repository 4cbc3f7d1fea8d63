package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/csv-analyst/backend/internal/api"
	"github.com/csv-analyst/backend/internal/config"
	"github.com/csv-analyst/backend/internal/logger"
	"github.com/csv-analyst/backend/internal/oracle"
	"github.com/csv-analyst/backend/internal/profile"
	"github.com/csv-analyst/backend/internal/query"
	"github.com/csv-analyst/backend/internal/store"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	tableStore, err := store.NewDiskStore(cfg.Storage.DataDirectory, log)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize session store")
	}

	// Background expiry of idle sessions
	go func() {
		ticker := time.NewTicker(cfg.CleanupInterval())
		defer ticker.Stop()
		for range ticker.C {
			tableStore.CleanupOlderThan(cfg.SessionTTL())
		}
	}()

	if cfg.Oracle.APIKey == "" {
		log.Warn("no oracle API key configured; text queries will fail until ORACLE_API_KEY is set")
	}
	oracleClient := oracle.NewClient(oracle.Options{
		BaseURL: cfg.Oracle.BaseURL,
		APIKey:  cfg.Oracle.APIKey,
		Model:   cfg.Oracle.Model,
		Timeout: cfg.OracleTimeout(),
	})

	e := echo.New()
	e.HideBanner = true

	var origins []string
	if cfg.Server.EnableCORS {
		for _, o := range strings.Split(cfg.Server.AllowOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			origins = []string{"*"}
		}
	}
	api.SetupMiddleware(e, origins, cfg.Server.BodyLimit)

	handlers := api.NewHandlers(&api.Dependencies{
		Store:    tableStore,
		Profiler: profile.NewEngine(log),
		Router:   query.NewRouter(oracleClient, log),
		Version:  Version,
		Log:      log,
	})
	api.RegisterRoutes(e, handlers)

	log.WithFields(logrus.Fields{
		"version": Version,
		"built":   BuildTime,
		"listen":  cfg.ServerAddr(),
		"data":    cfg.Storage.DataDirectory,
		"model":   cfg.Oracle.Model,
	}).Info("starting server")

	go func() {
		if err := e.Start(cfg.ServerAddr()); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
