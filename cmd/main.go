package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"repairdesk/internal/auth"
	"repairdesk/internal/config"
	"repairdesk/internal/events"
	httpapi "repairdesk/internal/http"
	"repairdesk/internal/logger"
	"repairdesk/internal/repository"
	"repairdesk/internal/seed"
	"repairdesk/internal/service"
	"repairdesk/internal/telemetry"

	_ "repairdesk/docs"
)

// @title Repair Desk API
// @version 1.0
// @description Parts inventory, unlock device profiles, supplier quotes and the repair order board.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer <token>
func main() {
	app := &cli.App{
		Name:  "repairdesk",
		Usage: "phone repair shop back office API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "listen address, overrides HTTP_ADDR"},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before reading the environment"},
			&cli.StringFlag{Name: "seed", Usage: "seed catalog YAML, overrides SEED_FILE"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.HTTPAddr = c.String("addr")
	}
	if c.IsSet("seed") {
		cfg.SeedFile = c.String("seed")
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	promHandler, shutdownMeter, err := telemetry.InitMeterProvider(cfg.ServiceName, cfg.ServiceVersion)
	if err != nil {
		return fmt.Errorf("init meter: %w", err)
	}

	store := repository.NewMemoryStore()
	devicesRepo := repository.NewMemoryDevices(store)
	quotesRepo := repository.NewMemoryQuotes(store)
	ordersRepo := repository.NewMemoryOrders(store)
	tx := repository.NewMemoryTx(store)

	var catalog seed.Catalog
	if !cfg.SeedDisabled {
		if catalog, err = seed.Load(cfg.SeedFile); err != nil {
			return err
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn("close kafka writer", zap.Error(err))
			}
		}()
		publisher = kp
		log.Info("publishing order events", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
	}

	productsSvc := service.NewProductService(store)
	devicesSvc := service.NewDeviceService(devicesRepo, catalog.Brands)
	quotesSvc := service.NewQuoteService(quotesRepo)
	ordersSvc := service.NewOrderService(store, devicesRepo, quotesRepo, ordersRepo, tx,
		service.WithPublisher(publisher),
		service.WithLogger(log.Named("orders")),
	)

	if err := seed.Apply(ctx, catalog, productsSvc, devicesSvc, quotesSvc); err != nil {
		return err
	}
	log.Info("catalog seeded",
		zap.Int("products", len(catalog.Products)),
		zap.Int("unlock_devices", len(catalog.UnlockDevices)),
		zap.Int("quotes", len(catalog.Quotes)),
	)

	verifier, closeVerifier, err := buildVerifier(cfg, log)
	if err != nil {
		return err
	}
	defer closeVerifier()

	srv := httpapi.NewServer(httpapi.Services{
		Products: productsSvc,
		Devices:  devicesSvc,
		Quotes:   quotesSvc,
		Orders:   ordersSvc,
	}, verifier,
		httpapi.WithLogger(log.Named("http")),
		httpapi.WithPrometheus(promHandler),
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(srv.Engine(), cfg.ServiceName),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	if err := shutdownMeter(shutdownCtx); err != nil {
		log.Warn("meter shutdown", zap.Error(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Warn("tracer shutdown", zap.Error(err))
	}
	log.Info("stopped")
	return nil
}

func buildVerifier(cfg config.Config, log *zap.Logger) (auth.Verifier, func(), error) {
	noop := func() {}
	if cfg.AuthDisabled {
		log.Warn("authentication disabled, every request is accepted")
		return auth.AllowAll{}, noop, nil
	}

	var chain auth.Chain
	closer := noop
	if len(cfg.AuthTokens) > 0 {
		chain = append(chain, auth.NewStaticTokens(cfg.AuthTokens))
	}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		chain = append(chain, auth.NewRedisSessions(client))
		closer = func() { _ = client.Close() }
	}
	if len(chain) == 0 {
		return nil, noop, errors.New("no authentication configured: set AUTH_TOKENS, REDIS_ADDR or AUTH_DISABLED=true")
	}
	return chain, closer, nil
}
