// Package app wires configuration, storage, workers, and the HTTP
// surfaces into a runnable server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/uisketch/uisketch/internal/ai"
	"github.com/uisketch/uisketch/internal/billing"
	"github.com/uisketch/uisketch/internal/config"
	"github.com/uisketch/uisketch/internal/credits"
	"github.com/uisketch/uisketch/internal/db"
	"github.com/uisketch/uisketch/internal/generation"
	"github.com/uisketch/uisketch/internal/http/api/admin"
	"github.com/uisketch/uisketch/internal/http/api/front"
	"github.com/uisketch/uisketch/internal/jobs"
	"github.com/uisketch/uisketch/internal/models"
	"github.com/uisketch/uisketch/internal/ratelimit"
	"github.com/uisketch/uisketch/internal/security"
)

// creditSweepSchedule resets lapsed free-tier cycles ahead of the lazy
// per-request reset so admin listings stay accurate.
const creditSweepSchedule = "@every 1h"

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the API server with database-backed components and
// blocks until ctx is cancelled.
func RunServer(ctx context.Context, cfg config.AppConfig, port int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	if errBootstrap := bootstrapAdmin(conn); errBootstrap != nil {
		return errBootstrap
	}

	jwtConfig, _ := config.LoadJWTConfig(configPath)
	if jwtConfig.Secret == "" {
		return fmt.Errorf("app: jwt secret not configured (set %s or jwt.secret)", config.EnvJWTSecret)
	}
	aiConfig, _ := config.LoadAIConfig(configPath)
	stripeConfig, _ := config.LoadStripeConfig(configPath)

	creditSvc := credits.NewService(conn)
	queue := jobs.NewQueue(conn)
	generationSvc := generation.NewService(conn, creditSvc, queue)
	billingSvc := billing.NewService(conn, stripeConfig)
	aiClient := ai.NewClient(aiConfig)

	dispatcher := jobs.NewDispatcher(queue)
	dispatcher.Register(models.JobKindGenerate, generation.NewGenerateHandler(conn, aiClient))
	dispatcher.Register(models.JobKindEdit, generation.NewEditHandler(conn, aiClient))
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	scheduler := cron.New()
	if _, errCron := scheduler.AddFunc(creditSweepSchedule, func() {
		reset, errSweep := creditSvc.SweepLapsedCycles()
		if errSweep != nil {
			log.WithError(errSweep).Error("credit cycle sweep failed")
			return
		}
		if reset > 0 {
			log.WithField("users", reset).Info("reset lapsed credit cycles")
		}
	}); errCron != nil {
		return fmt.Errorf("app: schedule credit sweep: %w", errCron)
	}
	scheduler.Start()
	defer scheduler.Stop()

	limiter := ratelimit.NewManager(func() ratelimit.Config {
		return ratelimit.LoadConfig(conn)
	}, nil, nil)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())

	front.RegisterFrontRoutes(engine, front.Deps{
		DB:         conn,
		JWT:        jwtConfig,
		Credits:    creditSvc,
		Generation: generationSvc,
		Billing:    billingSvc,
		Limiter:    limiter,
	})
	admin.RegisterAdminRoutes(engine, conn, jwtConfig)

	addr := fmt.Sprintf(":%d", port)
	srv := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			log.Errorf("server shutdown error: %v", errShutdown)
		}
	}()

	log.Infof("starting server on %s", addr)
	if errListen := srv.ListenAndServe(); errListen != nil && !errors.Is(errListen, http.ErrServerClosed) {
		return errListen
	}
	return nil
}

// bootstrapAdmin creates the initial operator account from the
// environment when the admins table is empty.
func bootstrapAdmin(conn *gorm.DB) error {
	boot, ok := config.LoadAdminBootstrap()
	if !ok {
		return nil
	}

	var count int64
	if errCount := conn.Model(&models.Admin{}).Count(&count).Error; errCount != nil {
		return fmt.Errorf("app: count admins: %w", errCount)
	}
	if count > 0 {
		return nil
	}

	hash, errHash := security.HashPassword(boot.Password)
	if errHash != nil {
		return errHash
	}
	adminRow := models.Admin{Username: boot.Username, Password: hash, Active: true}
	if errCreate := conn.Create(&adminRow).Error; errCreate != nil {
		return fmt.Errorf("app: create bootstrap admin: %w", errCreate)
	}
	log.WithField("username", adminRow.Username).Info("created bootstrap admin")
	return nil
}

// corsMiddleware enables permissive CORS for the API server.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, Stripe-Signature")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
