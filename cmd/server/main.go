package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/forgo/gildr/internal/cache"
	"github.com/forgo/gildr/internal/codec"
	"github.com/forgo/gildr/internal/config"
	"github.com/forgo/gildr/internal/database"
	"github.com/forgo/gildr/internal/handler"
	"github.com/forgo/gildr/internal/jobs"
	"github.com/forgo/gildr/internal/middleware"
	"github.com/forgo/gildr/internal/model"
	"github.com/forgo/gildr/internal/repository"
	"github.com/forgo/gildr/internal/service"
	"github.com/forgo/gildr/internal/telemetry"
	"github.com/forgo/gildr/pkg/jwt"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	slog.SetDefault(logger)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	// Initialize tracing
	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		slog.Error("failed to initialize telemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Open record stores. A data directory that cannot be created is fatal.
	recordCodec := codec.New()
	playerFiles, err := openStore[model.Player](cfg.Data.Dir, model.KindPlayer, recordCodec, logger)
	if err != nil {
		fatalStorage(err)
	}
	guildFiles, err := openStore[model.Guild](cfg.Data.Dir, model.KindGuild, recordCodec, logger)
	if err != nil {
		fatalStorage(err)
	}
	inviteFiles, err := openStore[model.Invite](cfg.Data.Dir, model.KindInvite, recordCodec, logger)
	if err != nil {
		fatalStorage(err)
	}

	slog.Info("opened record stores",
		slog.String("dir", cfg.Data.Dir),
		slog.Int("players", playerFiles.Len()),
		slog.Int("guilds", guildFiles.Len()),
		slog.Int("invites", inviteFiles.Len()),
	)

	// Wrap the stores with caches
	cacheManager, err := cache.NewManager(cache.Config{
		HeapEntries:   cfg.Cache.HeapEntries,
		DiskEntries:   cfg.Cache.DiskEntries,
		TTL:           cfg.Cache.TTL,
		Dir:           cfg.CacheDir(),
		Persist:       cfg.Cache.Persist,
		Remote:        cfg.Cache.Remote,
		MemcachedAddr: cfg.Cache.MemcachedAddr,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		Logger:        logger,
	}, recordCodec)
	if err != nil {
		fatalStorage(err)
	}
	players := cache.Wrap[model.Player](cacheManager, model.KindPlayer, playerFiles)
	guilds := cache.Wrap[model.Guild](cacheManager, model.KindGuild, guildFiles)
	invites := cache.Wrap[model.Invite](cacheManager, model.KindInvite, inviteFiles)

	// Periodic snapshot writes; Close always writes a final one
	var flusher *jobs.SnapshotFlusher
	if cfg.Cache.Persist && cfg.Cache.FlushInterval > 0 {
		flusher = jobs.NewSnapshotFlusher(cacheManager, cfg.Cache.FlushInterval, logger)
		flusher.Start()
	}

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		Secret:         []byte(cfg.JWT.Secret),
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	playerCfg := repository.PlayerRepositoryConfig{Players: players, Guilds: guilds}
	if cfg.Features.InvitesEnabled {
		playerCfg.Invites = invites
	}
	playerRepo := repository.NewPlayerRepository(playerCfg)
	guildRepo := repository.NewGuildRepository(guilds, players)
	inviteRepo := repository.NewInviteRepository(invites)

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		Players:    playerRepo,
		Tokens:     jwtService,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	playerService := service.NewPlayerService(playerRepo)
	guildService := service.NewGuildService(guildRepo, playerRepo)

	// Initialize handlers
	routes := handler.RouterConfig{
		Auth:        handler.NewAuthHandler(authService),
		Players:     handler.NewPlayerHandler(playerService),
		Guilds:      handler.NewGuildHandler(guildService),
		System:      handler.NewSystemHandler(cacheManager),
		AuthService: authService,
		Owners:      guildService,
		StaticDir:   cfg.Server.StaticDir,
	}
	if cfg.Features.InvitesEnabled {
		routes.Invites = handler.NewInviteHandler(service.NewInviteService(service.InviteServiceConfig{
			Invites: inviteRepo,
			Guilds:  guildRepo,
			Players: playerRepo,
		}))
	}

	routes.LoginLimiter = middleware.NewRateLimiter(middleware.RateLimitConfig{
		Limit:  cfg.Auth.LoginRate,
		Window: cfg.Auth.LoginWindow,
	})

	mux := handler.NewRouter(routes)

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
			slog.Bool("invites", cfg.Features.InvitesEnabled),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}
	if flusher != nil {
		flusher.Stop()
	}
	if err := cacheManager.Close(); err != nil {
		slog.Error("failed to flush caches", slog.String("error", err.Error()))
	}
	if err := shutdownTracing(ctx); err != nil {
		slog.Error("failed to flush traces", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}

// openStore opens the file store for one record kind under <dataDir>/<kind>s
func openStore[T database.Record](dataDir, kind string, c database.Codec, logger *slog.Logger) (*database.FileStore[T], error) {
	return database.NewFileStore[T](database.FileStoreConfig{
		Dir:    filepath.Join(dataDir, kind+"s"),
		Kind:   kind,
		Codec:  c,
		Logger: logger,
	})
}

func fatalStorage(err error) {
	slog.Error("failed to open storage", slog.String("error", err.Error()))
	os.Exit(1)
}
