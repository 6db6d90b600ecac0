package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rogerio-castellano/inventory-system/internal/alert"
	"github.com/rogerio-castellano/inventory-system/internal/audit"
	"github.com/rogerio-castellano/inventory-system/internal/auth"
	"github.com/rogerio-castellano/inventory-system/internal/config"
	"github.com/rogerio-castellano/inventory-system/internal/db"
	"github.com/rogerio-castellano/inventory-system/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-system/internal/http/middleware"
	rl "github.com/rogerio-castellano/inventory-system/internal/http/rate_limiter"
	"github.com/rogerio-castellano/inventory-system/internal/http/router"
	"github.com/rogerio-castellano/inventory-system/internal/inventory"
	"github.com/rogerio-castellano/inventory-system/internal/logging"
	"github.com/rogerio-castellano/inventory-system/internal/models"
	"github.com/rogerio-castellano/inventory-system/internal/redissvc"
	"github.com/rogerio-castellano/inventory-system/internal/repo"
	"go.uber.org/zap"
)

const serviceName = "inventory-system"

type repositories struct {
	products  repo.ProductRepository
	purchases repo.PurchaseRepository
	users     repo.UserRepository
	metrics   repo.MetricsRepository
}

// @title Inventory System API
// @version 1.0
// @description Retail inventory: catalog, purchases, low stock alerts and recommendations.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", os.Getenv("INVENTORY_CONFIG"), "path to an optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Config{
		ServiceName: serviceName,
		Env:         cfg.AppEnv,
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		AddCaller:   true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("inventory stopped with error", zap.Error(err))
		logging.Sync(logger)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	recorder, closeAudit, err := openAudit(cfg.Audit, logger)
	if err != nil {
		return err
	}
	defer closeAudit()

	repos, closeDB, err := openRepositories(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	svc := inventory.NewInventoryService(repos.products, recorder, os.Stdout)
	svc.SetPurchaseRepo(repos.purchases)

	alerter, closeAlerts := buildAlerter(ctx, cfg, logger)
	defer closeAlerts()
	if alerter != nil {
		svc.SetAlerter(alerter)
	}

	if cfg.Demo {
		if err := svc.RunDemo(ctx); err != nil {
			return fmt.Errorf("demo failed: %w", err)
		}
	}

	if cfg.HTTP.Addr == "" {
		return nil
	}
	return serve(ctx, cfg, svc, repos, logger)
}

// openAudit opens the audit file. With fail_open the process logger takes
// over when the file cannot be opened.
func openAudit(cfg config.AuditConfig, logger *zap.Logger) (audit.Recorder, func(), error) {
	auditLogger, closeFn, err := audit.OpenFile(cfg.Path)
	if err != nil {
		if !cfg.FailOpen {
			return nil, nil, err
		}
		logger.Warn("audit log unavailable, recording to process log", zap.Error(err))
		return audit.NewZapRecorder(logger.Named("audit")), func() {}, nil
	}

	return audit.NewZapRecorder(auditLogger), func() {
		if err := closeFn(); err != nil {
			logger.Warn("failed to close audit log", zap.Error(err))
		}
	}, nil
}

func openRepositories(ctx context.Context, dbURL string, logger *zap.Logger) (repositories, func(), error) {
	if dbURL == "" {
		products := repo.NewInMemoryProductRepository()
		purchases := repo.NewInMemoryPurchaseRepository()
		return repositories{
			products:  products,
			purchases: purchases,
			users:     repo.NewInMemoryUserRepository(),
			metrics:   repo.NewInMemoryMetricsRepository(products, purchases),
		}, func() {}, nil
	}

	database, err := db.Connect(ctx, dbURL)
	if err != nil {
		return repositories{}, nil, err
	}
	if err := db.Migrate(ctx, database); err != nil {
		database.Close()
		return repositories{}, nil, err
	}
	logger.Info("connected to postgres")

	return postgresRepositories(database), func() {
		if err := database.Close(); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}, nil
}

func postgresRepositories(database *sql.DB) repositories {
	return repositories{
		products:  repo.NewPostgresProductRepository(database),
		purchases: repo.NewPostgresPurchaseRepository(database),
		users:     repo.NewPostgresUserRepository(database),
		metrics:   repo.NewPostgresMetricsRepository(database),
	}
}

// buildAlerter wires every configured staff alert sink. Sinks that cannot be
// reached at startup are skipped.
func buildAlerter(ctx context.Context, cfg config.Config, logger *zap.Logger) (alert.StaffAlerter, func()) {
	var sinks alert.Multi
	var closers []func()

	var mailer *alert.Mailer
	if cfg.SMTP.Server != "" {
		mailer = alert.NewMailer(alert.SMTPConfig{
			Server:       cfg.SMTP.Server,
			Port:         cfg.SMTP.Port,
			User:         cfg.SMTP.User,
			Password:     cfg.SMTP.Password,
			From:         cfg.SMTP.From,
			To:           cfg.SMTP.To,
			AuthDisabled: cfg.SMTP.AuthDisabled,
		}, logger.Named("mailer"))
		sinks = append(sinks, mailer)
		closers = append(closers, func() { _ = mailer.Close() })
	}

	if cfg.Redis.Addr != "" {
		redisService, err := redissvc.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis alert log disabled", zap.Error(err))
		} else {
			alertLog := alert.NewRedisLog(redisService.Rdb())
			sinks = append(sinks, alertLog)
			if mailer != nil {
				go alert.StartDailySummary(ctx, alertLog, mailer, logger.Named("summary"))
			}
			closers = append(closers, func() { _ = redisService.Close() })
		}
	}

	if len(cfg.Kafka.Brokers) > 0 {
		publisher := alert.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger.Named("kafka"))
		sinks = append(sinks, publisher)
		closers = append(closers, func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("failed to close kafka writer", zap.Error(err))
			}
		})
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if len(sinks) == 0 {
		return nil, closeAll
	}
	return sinks, closeAll
}

func serve(ctx context.Context, cfg config.Config, svc *inventory.InventoryService, repos repositories, logger *zap.Logger) error {
	if err := seedStaffUser(ctx, repos.users, cfg.Auth, logger); err != nil {
		return err
	}

	issuer := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	limiter := rl.NewLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	go limiter.StartVisitorCleanupLoop(ctx)

	handlers.SetInventoryService(svc)
	handlers.SetProductRepo(repos.products)
	handlers.SetPurchaseRepo(repos.purchases)
	handlers.SetUserRepo(repos.users)
	handlers.SetMetricsRepo(repos.metrics)
	handlers.SetTokenIssuer(issuer)
	handlers.SetLogger(logger.Named("http"))
	mw.SetTokenIssuer(issuer)
	mw.SetRateLimiter(limiter)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: router.NewRouter(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown failed: %w", err)
	}
	return nil
}

// seedStaffUser creates the configured staff account once. Without a
// password no account is created and login is impossible.
func seedStaffUser(ctx context.Context, users repo.UserRepository, cfg config.AuthConfig, logger *zap.Logger) error {
	if cfg.StaffPassword == "" {
		logger.Warn("auth.staff_password is empty, staff login disabled")
		return nil
	}
	if _, err := users.GetByUsername(ctx, cfg.StaffUsername); err == nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.StaffPassword)
	if err != nil {
		return fmt.Errorf("failed to hash staff password: %w", err)
	}
	_, err = users.CreateUser(ctx, models.User{Username: cfg.StaffUsername, PasswordHash: hash})
	if err != nil && !errors.Is(err, repo.ErrDuplicatedValueUnique) {
		return fmt.Errorf("failed to create staff user: %w", err)
	}
	return nil
}
