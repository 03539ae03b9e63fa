package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docindex/internal/docindex/config"
	"docindex/internal/docindex/handler"
	"docindex/internal/docindex/mapping"
	"docindex/internal/docindex/metrics"
	"docindex/internal/docindex/model"
	"docindex/internal/docindex/router"
	"docindex/internal/docindex/service"
	"docindex/internal/docindex/util"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		util.GetLogger().Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	util.InitLogger(cfg.LogLevel)
	logger := util.GetLogger()

	// 2. Init MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}

	// 3. Init Layers
	db := client.Database(cfg.DBName)
	mappings := mapping.NewContext(mapping.WithLogger(logger))
	m := metrics.NewMetrics()

	articles, err := newRepository[model.Article](db, mappings, cfg.IndexPrefix, m)
	if err != nil {
		logger.Error("Failed to map Article", "error", err)
		os.Exit(1)
	}
	comments, err := newRepository[model.Comment](db, mappings, cfg.IndexPrefix, m)
	if err != nil {
		logger.Error("Failed to map Comment", "error", err)
		os.Exit(1)
	}

	// Ensure Indexes
	if err := articles.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("Failed to ensure article indexes", "error", err)
	}
	if err := comments.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("Failed to ensure comment indexes", "error", err)
	}

	svc := service.NewService(articles, comments)
	h := handler.NewArticleHandler(svc)
	mh := handler.NewMappingHandler(mappings)

	// 4. Init Echo & Routes
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
			)
			return nil
		},
	}))

	router.RegisterRoutes(e, h, mh, m)

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Info("Starting server", "port", cfg.Port, "index_prefix", cfg.IndexPrefix)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("shutting down the server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server Shutdown Failed", "error", err)
	}

	if err := client.Disconnect(ctx); err != nil {
		logger.Error("Failed to disconnect DB", "error", err)
	}

	logger.Info("Server exited properly")
}
