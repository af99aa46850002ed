// Package server wires configuration, storage and services together and runs
// the HTTP API alongside the gRPC health endpoint until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/passvault/internal/cryptox"
	"github.com/dmitrijs2005/passvault/internal/logging"
	"github.com/dmitrijs2005/passvault/internal/server/auth"
	"github.com/dmitrijs2005/passvault/internal/server/config"
	"github.com/dmitrijs2005/passvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/passvault/internal/server/services"
	"github.com/dmitrijs2005/passvault/internal/server/storage"
	"go.uber.org/zap"

	gs "github.com/dmitrijs2005/passvault/internal/server/grpc"
	hs "github.com/dmitrijs2005/passvault/internal/server/http"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	accessLog *zap.Logger
	db        *sql.DB
	handler   *hs.Handler
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	accessLog, err := logging.NewZap(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("access log init error: %w", err)
	}

	var logger logging.Logger
	if c.LogFormat == "zap" {
		logger = logging.NewZapLogger(accessLog).With("component", "app")
	} else {
		logger = logging.NewSlog(os.Stdout, c.LogFormat, c.LogLevel)
	}

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	keys := services.NewKeyring(c.EncryptionKey())
	tokens := auth.NewTokenManager([]byte(c.SecretKey), c.AccessTokenValidityDuration)
	hasher := cryptox.NewPasswordHasher(c.BcryptCost)

	var avatars services.AvatarStorage
	if c.StorageEnabled() {
		avatars = storage.NewS3Storage(c)
	} else {
		logger.Warn(ctx, "profile picture storage is not configured")
	}

	us, err := services.NewUserService(db, rm, hasher, keys, tokens, avatars, c.TOTPIssuer)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("user service init error: %w", err)
	}
	vs := services.NewVaultService(db, rm)
	as := services.NewAccountService(db, rm, keys)
	cs := services.NewCardService(db, rm, keys)

	h := hs.NewHandler(us, vs, as, cs, logger)

	return &App{config: c, logger: logger, accessLog: accessLog, db: db, handler: h}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, hs.NewRouter(app.handler, app.accessLog))
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives or either server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	_ = app.accessLog.Sync()

	app.logger.Info(ctx, "App stopped")
}
