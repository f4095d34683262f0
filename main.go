package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"player-auction/internal/auth"
	bidding "player-auction/internal/biddingService"
	"player-auction/internal/broadcast"
	"player-auction/internal/config"
	"player-auction/internal/repository"
	"player-auction/internal/server"
	"player-auction/internal/timerloop"
	"player-auction/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		utils.Fatal("cannot load config", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("unknown log level, keeping info", map[string]any{"level": cfg.LogLevel})
	}
	if cfg.AuthSecret == "" {
		utils.Warn("AUTH_SECRET is empty, every bearer token will be rejected", nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeStore := openStore(ctx, cfg)
	defer closeStore()

	hub := broadcast.NewHub()
	sinks := []broadcast.Publisher{hub}
	if cfg.RedisAddr != "" {
		redisPub, err := broadcast.NewRedisPublisher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			utils.Fatal("cannot connect to redis", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
		}
		defer redisPub.Close()
		sinks = append(sinks, redisPub)
	}
	if cfg.NATSURL != "" {
		natsPub, err := broadcast.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			utils.Fatal("cannot connect to nats", map[string]any{"url": cfg.NATSURL, "error": err.Error()})
		}
		defer natsPub.Close()
		sinks = append(sinks, natsPub)
	}

	dispatcher := broadcast.NewDispatcher(cfg.EventBuffer, sinks...)
	go dispatcher.Run(ctx)

	biddingSvc := bidding.NewBiddingService(repo, dispatcher, bidding.OptionsFromConfig(cfg))

	loop := timerloop.New(biddingSvc, cfg.TickInterval, 0)
	go loop.Run(ctx)

	gin.SetMode(gin.ReleaseMode)
	router := server.SetupRouter(biddingSvc, auth.NewAuthenticator(cfg.AuthSecret), hub)

	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		utils.Info("starting auction server", map[string]any{"addr": cfg.ServerAddress, "store": cfg.StoreDriver, "sinks": len(sinks)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server failed", map[string]any{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	utils.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.Error("server forced to shutdown", map[string]any{"error": err.Error()})
	}
	hub.Close()
	<-loop.Done()
	<-dispatcher.Done()
	utils.Info("server stopped", map[string]any{"dropped_events": dispatcher.Dropped()})
}

// openStore returns the configured catalog store and a function releasing it
func openStore(ctx context.Context, cfg config.Config) (repository.AuctionDB, func()) {
	if cfg.StoreDriver != config.DriverPostgres {
		utils.Warn("using the in-memory store, state is lost on restart", nil)
		return repository.NewMemoryRepo(), func() {}
	}

	runDBMigration(cfg.MigrationURL, cfg.PostgresConn)

	pool, err := repository.InitPool(ctx, cfg.PostgresConn)
	if err != nil {
		utils.Fatal("error initializing database", map[string]any{"error": err.Error()})
	}
	return repository.NewPostgresRepo(pool), pool.Close
}

func runDBMigration(migrationURL string, dbSource string) {
	migration, err := migrate.New(migrationURL, dbSource)
	if err != nil {
		utils.Fatal("cannot create a new migrate instance", map[string]any{"error": err.Error()})
	}

	if err = migration.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		utils.Fatal("failed to run migrate up", map[string]any{"error": err.Error()})
	}
	utils.Info("db migrated successfully", map[string]any{"source": migrationURL})
}
