package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/DimonBel/appointment-app-sub002/internal/api/scheduling"
	"github.com/DimonBel/appointment-app-sub002/internal/config"
	"github.com/DimonBel/appointment-app-sub002/internal/db"
	"github.com/DimonBel/appointment-app-sub002/internal/logging"
	"github.com/DimonBel/appointment-app-sub002/internal/metrics"
	"github.com/DimonBel/appointment-app-sub002/internal/model"
	"github.com/DimonBel/appointment-app-sub002/internal/notify"
	"github.com/DimonBel/appointment-app-sub002/internal/repository"
	"github.com/DimonBel/appointment-app-sub002/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var migrateOnly bool

	flagSet := pflag.NewFlagSet("scheduling", pflag.ContinueOnError)
	flagSet.StringVarP(&configPath, "config", "c", "config.toml", "path to TOML config (optional)")
	flagSet.BoolVar(&migrateOnly, "migrate-only", false, "run migrations and domain seeding, then exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	// 1. Конфиг: дефолты, файл, .env, переменные окружения.
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(cfg.Log.Level)

	// 2. БД и миграции.
	gormDB, err := db.NewGormDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("sql DB: %w", err)
	}
	defer sqlDB.Close()

	if err := model.AutoMigrate(gormDB); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// 3. Репозитории.
	tx := repository.NewTxManager(gormDB)
	templateRepo := repository.NewGormTemplateRepository(gormDB)
	slotRepo := repository.NewGormSlotRepository(gormDB)
	orderRepo := repository.NewGormOrderRepository(gormDB)
	historyRepo := repository.NewGormHistoryRepository(gormDB)
	configRepo := repository.NewGormDomainConfigRepository(gormDB)
	preOrderRepo := repository.NewGormPreOrderRepository(gormDB)

	// 4. Метрики.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewSchedulingMetrics(registry)

	// 5. Приёмник событий: лог плюс Redis Streams, если включён.
	sinks := notify.MultiSink{notify.NewLogSink(logger)}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unavailable, events will only be logged", "addr", cfg.Redis.Addr, "error", err)
		}
		cancel()
		sinks = append(sinks, notify.NewRedisStreamSink(rdb, cfg.Redis.Stream, cfg.Redis.MaxLen))
	}

	// 6. Движок.
	ledger := service.NewSlotLedger(slotRepo, orderRepo, logger)
	slotSvc := service.NewSlotService(templateRepo, slotRepo, configRepo, cfg.Scheduling.DefaultSlotDuration(), m, logger)
	historySvc := service.NewHistoryService(orderRepo, historyRepo)
	intakeSvc := service.NewIntakeService(tx, orderRepo, preOrderRepo, configRepo, logger)
	orderSvc := service.NewOrderService(service.OrderDeps{
		Tx:        tx,
		Orders:    orderRepo,
		Slots:     slotRepo,
		Templates: templateRepo,
		Configs:   configRepo,
		Ledger:    ledger,
		History:   historySvc,
		Intake:    intakeSvc,
	},
		service.WithSink(sinks),
		service.WithMetrics(m),
		service.WithLogger(logger),
		service.WithNotifyTimeout(cfg.Scheduling.NotifyTimeout()),
	)

	if seeds := cfg.DomainConfigurations(); len(seeds) > 0 {
		if _, err := intakeSvc.SeedDomainConfigurations(context.Background(), seeds); err != nil {
			return fmt.Errorf("seed domain configurations: %w", err)
		}
	}
	if migrateOnly {
		logger.Info("migrations applied")
		return nil
	}

	// 7. gRPC-сервер.
	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		scheduling.RecoveryInterceptor(logger),
		scheduling.LoggingInterceptor(logger),
	))
	scheduling.RegisterSchedulingServiceServer(grpcServer, scheduling.NewServer(slotSvc, orderSvc, historySvc, intakeSvc))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(scheduling.ServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPC.Addr, err)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "addr", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc serve: %w", err)
		}
	}()

	// 8. /metrics.
	var metricsSrv *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsSrv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", "addr", cfg.Metrics.Addr, "path", cfg.Metrics.Path)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics serve: %w", err)
			}
		}()
	}

	// 9. Грейсфул-шатдаун по сигналу.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	case err = <-errCh:
		logger.Error("server failed", "error", err)
	}

	healthSrv.Shutdown()
	if metricsSrv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = metricsSrv.Shutdown(shutdownCtx)
		cancel()
	}
	grpcServer.GracefulStop()
	return err
}
