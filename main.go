package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"commercego/internal/config"
	"commercego/internal/database/db_client"
	"commercego/internal/database/migrations"
	"commercego/internal/http/http_server"
	"commercego/internal/redis/listingevents"
	"commercego/internal/redis/redis_client"
	"commercego/internal/redis/sessionstore"
	"commercego/internal/services/account"
	"commercego/internal/services/listing"
	"commercego/internal/ws"

	"go.uber.org/zap"
)

//go:generate go tool swag init --outputTypes yaml,json -o api_specs

//	@title			commercego API
//	@version		1.0
//	@description	Auction listings: accounts, listings, bids, comments and watchlists.
//	@BasePath		/

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully",
		zap.String("postgres_host", cfg.PostgresHost),
		zap.String("redis_host", cfg.RedisHost),
		zap.Duration("session_ttl", cfg.SessionTTL),
	)

	// 2. Form tables are static; a broken one is a programming error.
	if err := listing.ValidateForms(); err != nil {
		Log.Fatal("invalid form configuration", zap.Error(err))
	}

	// 3. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 4. Postgres
	pgDb, err := db_client.Open(cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresDb)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	if cfg.RunMigrations {
		if err := migrations.Up(pgDb); err != nil {
			Log.Fatal("pg-migrate", zap.Error(err))
		}
	}

	// 5. Redis: sessions and listing events
	redisClient, err := redis_client.NewRedisClient(cfg.RedisHost, int(cfg.RedisPort))
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()

	// 6. Services
	listingService := listing.NewListingService(pgDb, listingevents.NewPublisher(redisClient))
	accountService := account.NewAccountService(pgDb, sessionstore.New(redisClient, cfg.SessionTTL))

	// 7. WebSockets hub + Redis fan-out
	hub := ws.NewHub()
	wsSrv := ws.NewWsServer(hub, redisClient, listingService)

	// 8. HTTP + WS server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, wsSrv, listingService, accountService, cfg.SessionTTL)

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			Log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	case <-ctx.Done():
		Log.Info("shutdown_requested")
		_ = httpServer.Dispose()
		<-errCh
	}
}
