package setup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-server/config"
	"blog-server/db"
	"blog-server/hooks"
	"blog-server/metrics"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
)

const ShutdownTimeout = 10 * time.Second
const ReadHeaderTimeout = 10 * time.Second

func InitLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetReportTimestamp(true)

	if cfg.LogFormat == "json" {
		log.SetFormatter(log.JSONFormatter)
	} else {
		log.SetFormatter(log.TextFormatter)
	}
}

func MustInitDb(cfg *config.Config) *sqlx.DB {
	conn, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("Error initializing database", "err", err)
	}

	err = db.MigrationsUp(conn, cfg.MigrationsDir)
	if err != nil {
		log.Fatal("Error running migrations", "err", err)
	}

	return conn
}

func RegisterHooks(store *db.PostStore) {
	hooks.RegisterHook(hooks.HealthCheck, func(params hooks.HookParams) *hooks.HookError {
		ctx := params.Ctx
		if ctx == nil {
			ctx = context.Background()
		}
		if err := store.Ping(ctx); err != nil {
			return &hooks.HookError{Status: http.StatusServiceUnavailable, Msg: "database unavailable: " + err.Error()}
		}
		return nil
	})

	hooks.RegisterHook(hooks.DidCreatePost, func(params hooks.HookParams) *hooks.HookError {
		metrics.PostsCreated.Inc()
		return nil
	})
}

// StartServer serves until SIGINT/SIGTERM, then drains in-flight requests.
func StartServer(cfg *config.Config, handler http.Handler) error {
	if !cfg.IsProduction() {
		log.Infof("In %s mode.", cfg.GoEnv)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("Started server on port " + cfg.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server on port %s: %v", cfg.Port, err)
	case sig := <-sigCh:
		log.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("error shutting down server: %v", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info("Server stopped")
	return nil
}
