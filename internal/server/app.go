// Package server wires configuration, storage, the item service and the HTTP
// endpoint together and runs them until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/itemkeeper/internal/filex"
	"github.com/dmitrijs2005/itemkeeper/internal/logging"
	"github.com/dmitrijs2005/itemkeeper/internal/server/config"
	hs "github.com/dmitrijs2005/itemkeeper/internal/server/http"
	"github.com/dmitrijs2005/itemkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/itemkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	repomanager repomanager.RepositoryManager
	itemService *services.ItemService
}

// NewApp opens the configured backend and migrates its schema.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := logging.New(os.Stderr, c.LogLevel, c.LogFormat)
	if err != nil {
		return nil, err
	}

	if c.Backend == config.BackendSQLite {
		if _, err := filex.EnsureParentDir(c.SQLitePath); err != nil {
			return nil, err
		}
	}

	m, err := repomanager.Open(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return NewAppWith(c, logger, m), nil
}

// NewAppWith builds an App around an already opened repository manager.
func NewAppWith(c *config.Config, logger logging.Logger, m repomanager.RepositoryManager) *App {
	logger = logger.With("backend", m.Backend())
	return &App{
		config:      c,
		logger:      logger,
		repomanager: m,
		itemService: services.NewItemService(m.Items(), logger.With("module", "items")),
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Handler returns the HTTP handler serving every endpoint.
func (app *App) Handler() *gin.Engine {
	return hs.NewRouter(hs.RouterConfig{
		Items:  app.itemService,
		Health: app.repomanager.Items(),
		Logger: app.logger,
	})
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := hs.NewHTTPServer(app.config.HTTPAddr, app.logger, app.Handler(), app.config.ShutdownTimeout)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the storage backend.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	if app.config.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	wg.Wait()

	app.logger.Info(ctx, "Stopping app...")
	return app.repomanager.Close()
}
