package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/rpg-battle/internal/config"
	"github.com/KirkDiggler/rpg-battle/internal/engine"
	"github.com/KirkDiggler/rpg-battle/internal/errors"
	battlev1alpha1 "github.com/KirkDiggler/rpg-battle/internal/handlers/battle/v1alpha1"
	"github.com/KirkDiggler/rpg-battle/internal/handlers/ws"
	battleorchestrator "github.com/KirkDiggler/rpg-battle/internal/orchestrators/battle"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-battle/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-battle/internal/redis"
	battlerepo "github.com/KirkDiggler/rpg-battle/internal/repositories/battle"
	"github.com/KirkDiggler/rpg-battle/internal/stream"
)

const shutdownTimeout = 30 * time.Second

var configFile string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC server and the WebSocket event stream",
	Long: `Start the battle gRPC service and an HTTP server streaming battle events.
Every flag can also be set with an RPGBATTLE_ environment variable,
e.g. RPGBATTLE_REDIS_ENDPOINT=localhost:6379.`,
	RunE: runServer,
}

func init() {
	config.AddFlags(serverCmd.Flags())
	serverCmd.Flags().StringVar(&configFile, "config", "", "optional config file (yaml, json or toml)")
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.New(), cmd.Flags(), configFile)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.SlogLevel())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := newRepository(ctx, cfg)
	if err != nil {
		return err
	}

	hub, err := stream.NewHub(&stream.Config{Buffer: cfg.EventBuffer, Logger: logger})
	if err != nil {
		return err
	}

	eng, err := engine.New(&engine.Config{
		Pacer:        engine.Sleep(cfg.Pace),
		Clock:        clock.New(),
		Observer:     hub,
		HintDuration: cfg.HintDuration,
	})
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	battleService, err := battleorchestrator.NewOrchestrator(&battleorchestrator.Config{
		Engine:      eng,
		Repository:  repo,
		IDGenerator: idgen.NewUUID("battle"),
		Clock:       clock.New(),
		Streams:     hub,
	})
	if err != nil {
		return fmt.Errorf("failed to create battle orchestrator: %w", err)
	}

	battleHandler, err := battlev1alpha1.NewHandler(&battlev1alpha1.HandlerConfig{
		BattleService: battleService,
		Streams:       hub,
	})
	if err != nil {
		return fmt.Errorf("failed to create battle handler: %w", err)
	}

	wsHandler, err := ws.NewHandler(&ws.HandlerConfig{
		BattleService:  battleService,
		Streams:        hub,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create websocket handler: %w", err)
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	recovery := grpc_recovery.WithRecoveryHandlerContext(battlev1alpha1.RecoverPanic(logger))
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger(logger)),
			grpc_recovery.UnaryServerInterceptor(recovery),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger(logger)),
			grpc_recovery.StreamServerInterceptor(recovery),
		),
	)

	battlev1alpha1.RegisterBattleServiceServer(srv, battleHandler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(battlev1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           wsHandler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 2)
	go func() {
		logger.Info("gRPC server starting", "port", cfg.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			errChan <- fmt.Errorf("failed to serve grpc: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("failed to serve http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down")
	case err := <-errChan:
		srv.Stop()
		_ = httpServer.Close()
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	healthServer.Shutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}

	stopped := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		logger.Warn("Graceful shutdown timeout exceeded, forcing stop")
		srv.Stop()
	case <-stopped:
		logger.Info("Server stopped gracefully")
	}

	return nil
}

func newRepository(ctx context.Context, cfg *config.Config) (battlerepo.Repository, error) {
	if cfg.RedisEndpoint == "" {
		slog.Info("Keeping battles in memory")
		return battlerepo.NewInMemory(), nil
	}

	client, err := redis.NewClient(cfg.RedisEndpoint, &redis.Options{DialTimeout: 5 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create redis client")
	}
	if err := redis.Ping(ctx, client); err != nil {
		return nil, errors.Unavailable(err.Error())
	}

	slog.Info("Storing battles in redis", "endpoint", cfg.RedisEndpoint, "ttl", cfg.StateTTL)
	return battlerepo.NewRedis(&battlerepo.RedisConfig{Client: client, TTL: cfg.StateTTL})
}
