package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/paper-explorer/internal/auth"
	"github.com/suPer8Hu/paper-explorer/internal/chat"
	"github.com/suPer8Hu/paper-explorer/internal/config"
	"github.com/suPer8Hu/paper-explorer/internal/db"
	"github.com/suPer8Hu/paper-explorer/internal/history"
	"github.com/suPer8Hu/paper-explorer/internal/httpapi"
	"github.com/suPer8Hu/paper-explorer/internal/httpapi/handlers"
	"github.com/suPer8Hu/paper-explorer/internal/models"
	"github.com/suPer8Hu/paper-explorer/internal/papers"
	"github.com/suPer8Hu/paper-explorer/internal/quiz"
	"github.com/suPer8Hu/paper-explorer/internal/store/rabbitmq"
	"github.com/suPer8Hu/paper-explorer/internal/store/redisstore"
	"github.com/suPer8Hu/paper-explorer/internal/users"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Cfg    config.Config
	DB     *gorm.DB
	Router *gin.Engine
	Log    *slog.Logger

	closers []func() error
}

// New opens every backing service, migrates the schema and builds the router.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	gdb, err := db.Open(db.Options{Driver: cfg.DBDriver, DSN: cfg.DBDSN, LogLevel: gormLevel(cfg.LogLevel)})
	if err != nil {
		return nil, err
	}
	a := &App{Cfg: cfg, DB: gdb, Log: log}
	a.closers = append(a.closers, func() error { return db.Close(gdb) })

	if err := Migrate(gdb); err != nil {
		a.Close()
		return nil, err
	}

	store, err := a.sessionStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	var recorder quiz.Recorder
	if cfg.QuizAsync {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			// results are still stored, just synchronously
			log.Warn("rabbitmq unavailable, recording quiz results directly", "err", err)
		} else {
			recorder = pub
			a.closers = append(a.closers, pub.Close)
		}
	}

	h := NewHandler(gdb, store, recorder, cfg, log)
	a.Router = httpapi.NewRouter(h, httpapi.Options{CORSOrigins: cfg.CORSOrigins, Log: log})
	return a, nil
}

func (a *App) sessionStore(ctx context.Context) (auth.SessionStore, error) {
	switch a.Cfg.SessionBackend {
	case "memory":
		a.Log.Warn("auth sessions kept in memory; they do not survive restarts")
		return auth.NewMemoryStore(), nil
	case "", "redis":
		rds := redisstore.New(a.Cfg.RedisAddr, a.Cfg.RedisPassword, a.Cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rds.Ping(pctx); err != nil {
			_ = rds.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		a.closers = append(a.closers, rds.Close)
		return rds, nil
	default:
		return nil, fmt.Errorf("unsupported SESSION_BACKEND=%q", a.Cfg.SessionBackend)
	}
}

// NewHandler wires services over gdb. A nil recorder stores quiz results
// synchronously.
func NewHandler(gdb *gorm.DB, store auth.SessionStore, recorder quiz.Recorder, cfg config.Config, log *slog.Logger) *handlers.Handler {
	return &handlers.Handler{
		Users:        users.NewService(users.NewRepo(gdb)),
		Auth:         auth.NewManager(store, cfg.JWTSecret, cfg.SessionTTL),
		History:      history.NewService(history.NewRepo(gdb)),
		Chat:         chat.NewService(chat.NewRepo(gdb)),
		Papers:       papers.NewService(),
		Quiz:         quiz.NewService(quiz.NewRepo(gdb), recorder, log),
		Log:          log,
		CookieSecure: cfg.CookieSecure,
	}
}

// Migrate creates or updates every table. Parents go first so foreign
// keys resolve.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&models.User{},
		&history.Entry{},
		&chat.Session{},
		&chat.Message{},
		&quiz.Result{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Cfg.HTTPAddr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("http server listening", "addr", a.Cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Log.Info("shutting down http server")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close failed", "err", err)
		}
	}
	a.closers = nil
}

func gormLevel(l slog.Level) logger.LogLevel {
	switch {
	case l <= slog.LevelDebug:
		return logger.Info
	case l >= slog.LevelError:
		return logger.Error
	}
	return logger.Warn
}
