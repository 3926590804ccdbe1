package main

import (
	"context"
	"crypto/rand"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"     // Load .env before reading config
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	appwriteadapter "github.com/ericfisherdev/passvault/internal/adapter/driven/appwrite"
	sqliteadapter "github.com/ericfisherdev/passvault/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/passvault/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/passvault/internal/adapter/driving/web"
	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"appwrite_endpoint", cfg.AppwriteEndpoint,
		"appwrite_project", cfg.AppwriteProject,
		"session_ttl", cfg.SessionTTL,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode) and migrate.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	version, err := db.Migrate()
	if err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath, "schema_version", version)

	// 4. Session store. Without a configured key, sessions from a previous run
	// cannot be decrypted, so they are purged.
	key := cfg.SecretKey
	ephemeral := key == nil
	if ephemeral {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
		slog.Warn("PASSVAULT_SECRET_KEY not set, browser sessions will not survive a restart")
	}

	sessionStore, err := sqliteadapter.NewSessionRepo(db, key)
	if err != nil {
		return err
	}
	if ephemeral {
		purged, err := sessionStore.Purge(ctx)
		if err != nil {
			return err
		}
		if purged > 0 {
			slog.Info("purged sessions from a previous run", "count", purged)
		}
	}

	// 5. Hosted backend client; each browser session gets a copy bound to its secret.
	backend := appwriteadapter.NewClient(appwriteadapter.Options{
		Endpoint:     cfg.AppwriteEndpoint,
		Project:      cfg.AppwriteProject,
		DatabaseID:   cfg.AppwriteDatabaseID,
		CollectionID: cfg.AppwriteCollection,
		Timeout:      cfg.RequestTimeout,
	})

	// 6. Application services.
	authSvc := application.NewAuthService(backend, sessionStore, cfg.SessionTTL, slog.Default())
	views := application.NewViewRegistry(slog.Default())

	janitor := application.NewSessionJanitor(sessionStore, views, cfg.JanitorInterval, slog.Default())
	go janitor.Start(ctx)

	// 7. Routes: JSON API, then the GUI.
	mux := http.NewServeMux()
	httphandler.RegisterAPIRoutes(mux, httphandler.NewHandler(db.Reader, slog.Default()))
	webhandler.RegisterRoutes(mux, webhandler.NewHandler(authSvc, views, cfg.SecureCookies, slog.Default()))

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 8. Wait for a shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// 9. Graceful shutdown with 10s timeout for in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
