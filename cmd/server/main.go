package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ahsanfayaz52/sharednotes/internal/ai"
	"github.com/ahsanfayaz52/sharednotes/internal/auth"
	"github.com/ahsanfayaz52/sharednotes/internal/cache"
	"github.com/ahsanfayaz52/sharednotes/internal/config"
	"github.com/ahsanfayaz52/sharednotes/internal/db"
	"github.com/ahsanfayaz52/sharednotes/internal/handlers"
	"github.com/ahsanfayaz52/sharednotes/internal/logger"
	"github.com/ahsanfayaz52/sharednotes/internal/middleware"
	"github.com/ahsanfayaz52/sharednotes/internal/notes"
	"github.com/ahsanfayaz52/sharednotes/internal/sharing"
	"github.com/ahsanfayaz52/sharednotes/internal/store"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.Init(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	dbConn, dialect, err := openDB(cfg)
	if err != nil {
		zap.L().Fatal("Failed to open database", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer dbConn.Close()

	st := store.New(dbConn, dialect)

	// Redis is optional. Without it tokens are not revoked on logout and
	// logins are not rate limited.
	var (
		revoker auth.Revoker = auth.NoopRevoker{}
		limiter middleware.Limiter
		pinger  handlers.Pinger
	)
	if cfg.RedisAddr != "" {
		rc, err := cache.New(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			zap.L().Fatal("Failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}
		defer rc.Close()
		revoker = auth.NewRedisRevoker(rc)
		limiter = rc
		pinger = rc
	} else {
		zap.L().Warn("REDIS_ADDR not set, token revocation and rate limiting disabled")
	}

	var assistant ai.Assistant = ai.Mock{}
	if cfg.OpenAIKey != "" {
		assistant = ai.NewOpenAI(cfg.OpenAIKey)
	}

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxyList())
	if err != nil {
		zap.L().Fatal("Invalid TRUSTED_PROXIES", zap.Error(err))
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiration)

	router := handlers.NewRouter(handlers.Deps{
		Store:           st,
		Auth:            auth.NewService(st, jwtService, revoker),
		Notes:           notes.NewService(st, notes.WithStrictReminders(cfg.StrictReminderDates)),
		Sharing:         sharing.NewService(st),
		Assistant:       assistant,
		Cache:           pinger,
		Limiter:         limiter,
		TrustedProxies:  proxies,
		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
		AllowedOrigins:  cfg.AllowedOrigins(),
		SecureCookie:    cfg.AppEnv != "dev",
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		zap.L().Info("Starting server", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("Server shutdown failed", zap.Error(err))
	}
	zap.L().Info("Server stopped")
}

func openDB(cfg *config.Config) (*sql.DB, db.Dialect, error) {
	if cfg.DBDriver == "sqlite" {
		conn, err := db.InitSQLite(cfg.DatabasePath)
		return conn, db.SQLite, err
	}
	conn, err := db.InitMySQL(cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBName)
	return conn, db.MySQL, err
}
