package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ho-Thien-Sinh/news-crawler/app/api"
	"github.com/Ho-Thien-Sinh/news-crawler/app/browser"
	"github.com/Ho-Thien-Sinh/news-crawler/app/cfg"
	"github.com/Ho-Thien-Sinh/news-crawler/app/classify"
	"github.com/Ho-Thien-Sinh/news-crawler/app/crawler"
	"github.com/Ho-Thien-Sinh/news-crawler/app/database"
	"github.com/Ho-Thien-Sinh/news-crawler/app/extract"
	"github.com/Ho-Thien-Sinh/news-crawler/app/feed"
	"github.com/Ho-Thien-Sinh/news-crawler/app/httpclient"
	"github.com/Ho-Thien-Sinh/news-crawler/app/rotation"
	"github.com/Ho-Thien-Sinh/news-crawler/app/scheduler"
	"github.com/Ho-Thien-Sinh/news-crawler/app/writer"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("Starting News Crawler", "version", appCfg.Version, "storage", appCfg.Storage)

	// Article store
	var store database.Store
	var privileged database.Store
	var reader database.Reader

	switch appCfg.Storage {
	case "rest":
		store = database.NewRESTStore(appCfg.RestURL, appCfg.RestAnonKey)
		if appCfg.RestServiceKey != "" {
			privileged = database.NewRESTStore(appCfg.RestURL, appCfg.RestServiceKey)
		}
	default:
		db, err := database.NewConnection(appCfg.DBPath)
		if err != nil {
			slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
			os.Exit(1)
		}
		defer db.Close()

		version, dirty, err := database.RunMigrations(db)
		if err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

		repo := database.NewSQLiteRepository(db)
		store = repo
		reader = repo
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := store.Ping(startupCtx); err != nil {
		startupCancel()
		slog.Error("Article store unreachable", "error", err)
		os.Exit(1)
	}
	startupCancel()

	// Classifier
	classifier := classify.New()
	if appCfg.RulesFile != "" {
		classifier, err = classify.NewFromFile(appCfg.RulesFile)
		if err != nil {
			slog.Error("Failed to load classifier rules", "file", appCfg.RulesFile, "error", err)
			os.Exit(1)
		}
		slog.Info("Classifier rules loaded", "file", appCfg.RulesFile)
	}

	// Pipeline components
	var userAgents []string
	if appCfg.UserAgent != "" {
		userAgents = []string{appCfg.UserAgent}
	}
	pool := rotation.NewPool(userAgents, nil, time.Now().UnixNano())
	extractor := extract.New()
	articleWriter := writer.New(store, privileged)

	client := httpclient.New(pool, appCfg.MaxRetries,
		time.Duration(appCfg.RetryBaseMs)*time.Millisecond)
	feedFetcher := feed.NewFetcher(client, appCfg.BaseURL)

	// Browser session (owned here, shared by the crawler pool)
	browserSession := browser.NewSession(pool, extractor)
	if err := browserSession.Initialize(context.Background()); err != nil {
		slog.Error("Failed to launch browser", "error", err)
		os.Exit(1)
	}
	defer browserSession.Cleanup()

	deepCrawler := crawler.New(browserSession, articleWriter, classifier,
		time.Duration(appCfg.ItemDelayMs)*time.Millisecond, appCfg.MaxConcurrent)

	// Scheduler
	crawlScheduler := scheduler.New(feedFetcher, articleWriter, classifier, deepCrawler, reader,
		time.Duration(appCfg.IntervalMinutes)*time.Minute,
		time.Duration(appCfg.ItemDelayMs)*time.Millisecond,
		time.Duration(appCfg.CategoryDelayMs)*time.Millisecond)
	crawlScheduler.Start()
	slog.Info("Scheduler started", "interval_minutes", appCfg.IntervalMinutes)

	// Operational HTTP server
	apiHandler := api.NewHandler(store, reader, deepCrawler.Session(), browserSession, appCfg.Version)
	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      api.NewServer(apiHandler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	done := make(chan struct{})
	go func() {
		crawlScheduler.Stop()
		browserSession.Cleanup()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Warn("HTTP server shutdown error", "error", err)
		}
		close(done)
	}()

	select {
	case <-done:
		slog.Info("Shutdown complete")
	case <-time.After(30 * time.Second):
		slog.Error("Shutdown grace period exceeded, forcing exit")
		os.Exit(1)
	}
}
