package main // Entry point package

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/takedown-tracker/internal/config"
	"github.com/iliyamo/takedown-tracker/internal/database"
	"github.com/iliyamo/takedown-tracker/internal/handler"
	"github.com/iliyamo/takedown-tracker/internal/middleware"
	"github.com/iliyamo/takedown-tracker/internal/monitor"
	"github.com/iliyamo/takedown-tracker/internal/probe"
	"github.com/iliyamo/takedown-tracker/internal/queue"
	"github.com/iliyamo/takedown-tracker/internal/repository"
	"github.com/iliyamo/takedown-tracker/internal/router"
	"github.com/iliyamo/takedown-tracker/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	schemaCtx, cancelSchema := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.EnsureSchema(schemaCtx, db); err != nil {
		cancelSchema()
		log.Fatalf("ensure schema: %v", err)
	}
	cancelSchema()

	// Redis backs the rate limiter and the response cache. Both fall
	// back to passthrough when it is unavailable.
	rdb := config.NewRedisClient()

	userRepo := repository.NewUserRepo(db)
	missionRepo := repository.NewMissionRepo(db)
	reportRepo := repository.NewReportRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	toolRepo := repository.NewToolRepo(db)

	checker := probe.New(cfg.ProbeTimeout)
	missionSvc := service.NewMissionService(missionRepo, userRepo, checker, queue.AMQPPublisher{})
	reportSvc := service.NewReportService(reportRepo, userRepo, checker)

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	missionH := handler.NewMissionHandler(missionSvc)
	reportH := handler.NewReportHandler(reportSvc)
	userH := handler.NewUserHandler(userRepo, tokenRepo)
	badgeH := handler.NewBadgeHandler(userRepo)
	statsH := handler.NewStatsHandler(missionRepo, reportRepo, userRepo)
	toolH := handler.NewToolHandler(toolRepo, cfg.UploadDir)
	siteH := handler.NewSiteCheckHandler(checker)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterPublic(e, authH, cfg.JWTSecret)
	router.RegisterMissions(e, missionH, cfg.JWTSecret)
	router.RegisterReports(e, reportH, cfg.JWTSecret)
	router.RegisterCommunity(e, userH, badgeH, statsH, toolH, siteH, cfg.JWTSecret, cacheMW)
	router.RegisterAdmin(e, userH, toolH, cfg.JWTSecret)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background workers: the site monitor drives the reconcile cycle,
	// the consumer turns completion events into the takedown log.
	go monitor.New(missionSvc, cfg.CheckInterval).Run(ctx)
	go queue.StartTakedownConsumer(ctx)

	go func() {
		addr := ":" + cfg.Port
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil {
			log.Printf("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
