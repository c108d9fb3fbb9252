package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	grpc_logging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	grpc_recovery "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/KirkDiggler/funko-battle/internal/app"
	"github.com/KirkDiggler/funko-battle/internal/config"
	"github.com/KirkDiggler/funko-battle/internal/handlers/economy/v1alpha1"
	"github.com/KirkDiggler/funko-battle/internal/handlers/rest"
)

const (
	limiterCleanupInterval = time.Minute
	limiterMaxIdle         = 10 * time.Minute
)

var (
	grpcPort    int
	httpPort    int
	storage     string
	economyFile string
	envFile     string
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the gRPC and HTTP servers",
	Long: `Start the economy server. Settings come from FUNKO_* environment
variables, optionally loaded from a dotenv file; flags override them.`,
	RunE: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&grpcPort, "grpc-port", 0, "gRPC server port (FUNKO_GRPC_PORT)")
	serverCmd.Flags().IntVar(&httpPort, "http-port", 0, "HTTP server port (FUNKO_HTTP_PORT)")
	serverCmd.Flags().StringVar(&storage, "storage", "", "storage backend: memory, redis or sqlite (FUNKO_STORAGE)")
	serverCmd.Flags().StringVar(&economyFile, "economy", "", "economy tables YAML file (FUNKO_ECONOMY_FILE)")
	serverCmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
}

// loadConfig reads the environment and applies flags the user set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("grpc-port") {
		cfg.GRPCPort = grpcPort
	}
	if flags.Changed("http-port") {
		cfg.HTTPPort = httpPort
	}
	if flags.Changed("storage") {
		cfg.Storage = storage
	}
	if flags.Changed("economy") {
		cfg.EconomyFile = economyFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	economy, err := config.LoadEconomy(cfg.EconomyFile)
	if err != nil {
		return fmt.Errorf("failed to load economy: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := app.OpenStorage(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}()

	services, err := app.NewServices(&app.ServicesConfig{
		Storage:           store,
		Economy:           economy,
		LedgerMaxAttempts: cfg.LedgerMaxAttempts,
	})
	if err != nil {
		return fmt.Errorf("failed to create services: %w", err)
	}

	grpcServer := newGRPCServer(logger, services.Handler)

	limiter := rest.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	router, err := rest.NewRouter(&rest.Config{
		Economy:     services.Handler,
		RateLimiter: limiter,
	})
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("gRPC server starting", "port", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("failed to serve gRPC: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("HTTP server starting", "port", cfg.HTTPPort, "storage", cfg.Storage)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		limiter.Run(gctx, limiterCleanupInterval, limiterMaxIdle)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down servers")
		return shutdown(grpcServer, httpServer, cfg.ShutdownTimeout)
	})

	return g.Wait()
}

func newGRPCServer(logger *slog.Logger, handler v1alpha1.EconomyServiceServer) *grpc.Server {
	recoveryOpts := []grpc_recovery.Option{
		grpc_recovery.WithRecoveryHandlerContext(func(ctx context.Context, p any) error {
			slog.ErrorContext(ctx, "panic recovered", "panic", p)
			return status.Error(codes.Internal, "internal error")
		}),
	}
	loggingOpts := []grpc_logging.Option{
		grpc_logging.WithLogOnEvents(grpc_logging.FinishCall),
	}

	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc_logging.UnaryServerInterceptor(interceptorLogger(logger), loggingOpts...),
			grpc_recovery.UnaryServerInterceptor(recoveryOpts...),
		),
		grpc.ChainStreamInterceptor(
			grpc_logging.StreamServerInterceptor(interceptorLogger(logger), loggingOpts...),
			grpc_recovery.StreamServerInterceptor(recoveryOpts...),
		),
	)

	v1alpha1.RegisterEconomyServiceServer(srv, handler)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(srv, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(v1alpha1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return srv
}

// shutdown stops both servers, forcing the gRPC server once timeout passes
func shutdown(grpcServer *grpc.Server, httpServer *http.Server, timeout time.Duration) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	httpErr := httpServer.Shutdown(shutdownCtx)

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.Warn("graceful shutdown timeout exceeded, forcing stop")
		grpcServer.Stop()
	case <-stopped:
		slog.Info("servers stopped gracefully")
	}

	if httpErr != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", httpErr)
	}
	return nil
}
