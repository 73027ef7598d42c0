// README: Entry point; loads config, wires pricing and order services, serves HTTP until signalled.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linguaschool/internal/config"
	httptransport "linguaschool/internal/http"
	"linguaschool/internal/infra"
	"linguaschool/internal/modules/order"
	"linguaschool/internal/modules/pricing"
	"linguaschool/internal/orderapi"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := infra.NewLogger(cfg.Env, cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pricingStore, closeDB := openQuoteStore(ctx, cfg, logger)
	defer closeDB()

	redisClient := infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable; quotes will be computed uncached", zap.Error(err))
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("pricing timezone", zap.Error(err))
	}
	calendar := pricing.NewCalendar(time.Now, loc)
	quoteCache := pricing.NewCache(redisClient, cfg.Pricing.CacheTTL)
	pricingSvc := pricing.NewService(pricingStore, quoteCache, calendar, logger.Named("pricing"))

	remote := orderapi.NewClient(cfg.OrderAPI.BaseURL, cfg.OrderAPI.Timeout, cfg.OrderAPI.BreakerTimeout, logger.Named("orderapi"))
	orderSvc := order.NewService(pricingSvc, remote, logger.Named("order"))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := httptransport.NewServer(httptransport.ServerDeps{
		Order:       orderSvc,
		Pricing:     pricingSvc,
		Log:         logger.Named("http"),
		CORSOrigins: cfg.HTTP.CORSOrigins,
		RateLimit:   cfg.HTTP.RateLimit,
		RateBurst:   cfg.HTTP.RateBurst,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown", zap.Error(err))
		}
	}()

	logger.Info("http listening", zap.String("addr", cfg.HTTP.Addr), zap.String("env", cfg.Env))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("http serve", zap.Error(err))
	}
	logger.Info("http stopped")
}

// openQuoteStore connects the quote history database. Quote history is
// optional: with no DSN, or when migration or connect fails, it returns a
// nil store and pricing and orders keep working.
func openQuoteStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (*pricing.Store, func()) {
	noop := func() {}
	if cfg.DB.DSN == "" {
		logger.Warn("no database configured; quote history disabled")
		return nil, noop
	}
	if cfg.DB.Migrate {
		if err := infra.Migrate(cfg.DB.DSN); err != nil {
			logger.Warn("migrate failed; quote history disabled", zap.Error(err))
			return nil, noop
		}
	}
	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Warn("db unreachable; quote history disabled", zap.Error(err))
		return nil, noop
	}
	return pricing.NewStore(dbPool), dbPool.Close
}
