// Package main is the entry point for the PortSure investment compliance
// platform. It wires the investor, portfolio, compliance, risk and alert
// modules onto one HTTP server backed by per-module SQLite databases.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/portsure/platform/internal/auth"
	"github.com/portsure/platform/internal/clientdata"
	"github.com/portsure/platform/internal/clients/investorapi"
	"github.com/portsure/platform/internal/clients/portfolioapi"
	"github.com/portsure/platform/internal/config"
	"github.com/portsure/platform/internal/database"
	"github.com/portsure/platform/internal/events"
	"github.com/portsure/platform/internal/modules/adminusers"
	adminhandlers "github.com/portsure/platform/internal/modules/adminusers/handlers"
	"github.com/portsure/platform/internal/modules/alerts"
	alerthandlers "github.com/portsure/platform/internal/modules/alerts/handlers"
	"github.com/portsure/platform/internal/modules/compliance"
	compliancehandlers "github.com/portsure/platform/internal/modules/compliance/handlers"
	"github.com/portsure/platform/internal/modules/investors"
	investorhandlers "github.com/portsure/platform/internal/modules/investors/handlers"
	"github.com/portsure/platform/internal/modules/portfolios"
	portfoliohandlers "github.com/portsure/platform/internal/modules/portfolios/handlers"
	"github.com/portsure/platform/internal/modules/riskscores"
	riskhandlers "github.com/portsure/platform/internal/modules/riskscores/handlers"
	"github.com/portsure/platform/internal/reliability"
	"github.com/portsure/platform/internal/scheduler"
	"github.com/portsure/platform/internal/server"
	"github.com/portsure/platform/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.DevMode,
		Service: "portsure",
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting PortSure platform")

	// Per-module databases. Each service owns its tables; cross-module reads
	// go through the HTTP lookup clients.
	dbNames := []string{"investors", "portfolios", "compliance", "risk", "alerts"}
	databases := make(map[string]*database.DB, len(dbNames)+1)
	var allDBs []*database.DB

	for _, name := range dbNames {
		db, err := database.New(database.Config{
			Path:    filepath.Join(cfg.DataDir, name+".db"),
			Profile: database.ProfileStandard,
			Name:    name,
		})
		if err != nil {
			log.Fatal().Err(err).Str("database", name).Msg("Failed to open database")
		}
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", name).Msg("Failed to migrate database")
		}
		databases[name] = db
		allDBs = append(allDBs, db)
	}

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "clientdata.db"),
		Profile: database.ProfileCache,
		Name:    "clientdata",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open lookup cache database")
	}
	if err := cacheDB.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate lookup cache database")
	}
	databases["clientdata"] = cacheDB
	allDBs = append(allDBs, cacheDB)

	defer func() {
		for _, db := range allDBs {
			if err := db.Close(); err != nil {
				log.Error().Err(err).Str("database", db.Name()).Msg("Failed to close database")
			}
		}
	}()

	// Shared infrastructure
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	eventBus := events.NewBus(log)
	lookupCache := clientdata.NewRepository(cacheDB.Conn())

	// The lookup clients pass back through the gateway middleware, so they
	// carry service tokens of their own.
	serviceTokens := auth.NewServiceTokenSource(tokens, "platform@portsure.internal")
	portfolioClient := portfolioapi.NewClient(cfg.PortfolioServiceURL, serviceTokens, lookupCache, log)
	investorClient := investorapi.NewClient(cfg.InvestorServiceURL, serviceTokens, lookupCache, log)

	// Module wiring: repository, service, handler per module
	investorRepo := investors.NewRepository(databases["investors"].Conn(), log)
	investorService := investors.NewService(investorRepo, tokens, log)
	investorHandlers := investorhandlers.NewHandler(investorService, log)

	adminRepo := adminusers.NewRepository(databases["investors"].Conn(), log)
	adminService := adminusers.NewService(adminRepo, tokens, cfg.AdminRegistrationKey, log)
	adminHandlers := adminhandlers.NewHandler(adminService, log)

	portfolioRepo := portfolios.NewRepository(databases["portfolios"].Conn(), log)
	portfolioService := portfolios.NewService(portfolioRepo, investorClient, log)
	portfolioHandlers := portfoliohandlers.NewHandler(portfolioService, log)

	complianceRepo := compliance.NewRepository(databases["compliance"].Conn(), log)
	auditService := compliance.NewAuditService(complianceRepo, portfolioClient, eventBus, log)
	complianceHandlers := compliancehandlers.NewHandler(auditService, log)

	riskRepo := riskscores.NewRepository(databases["risk"].Conn(), log)
	riskService := riskscores.NewService(riskRepo, portfolioClient, log)
	riskHandlers := riskhandlers.NewHandler(riskService, log)

	alertRepo := alerts.NewRepository(databases["alerts"].Conn(), log)
	alertService := alerts.NewService(alertRepo, portfolioClient, eventBus, log)
	alertHandlers := alerthandlers.NewHandler(alertService, eventBus, log)

	// Background jobs
	sched := scheduler.New(log)
	if err := sched.AddJob(scheduler.NightlyAuditSchedule, scheduler.NewAuditAllJob(auditService, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register nightly audit job")
	}
	if err := sched.AddJob(scheduler.CacheCleanupSchedule, scheduler.NewCacheCleanupJob(lookupCache, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache cleanup job")
	}

	if cfg.Archive.Enabled() {
		s3Client, err := reliability.NewS3Client(cfg.Archive, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create archive client")
		}
		archiveService := reliability.NewArchiveService(
			s3Client, allDBs, complianceRepo, cfg.DataDir, cfg.Archive.Retention, log,
		)
		if err := sched.AddJob(scheduler.ArchiveSchedule, scheduler.NewArchiveJob(archiveService, log)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register archive job")
		}
	} else {
		log.Info().Msg("Archive uploads disabled (no bucket configured)")
	}

	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:                log,
		Port:               cfg.Port,
		DevMode:            cfg.DevMode,
		Tokens:             tokens,
		Databases:          allDBs,
		InvestorHandlers:   investorHandlers,
		AdminHandlers:      adminHandlers,
		PortfolioHandlers:  portfolioHandlers,
		ComplianceHandlers: complianceHandlers,
		RiskHandlers:       riskHandlers,
		AlertHandlers:      alertHandlers,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	log.Info().Str("addr", fmt.Sprintf(":%d", cfg.Port)).Msg("PortSure platform started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("PortSure platform stopped")
}
