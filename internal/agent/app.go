// Package agent wires the vitalsync components together and runs them.
package agent

import (
	"context"
	"database/sql"

	"github.com/careview/vitalsync/internal/agent/config"
	"github.com/careview/vitalsync/internal/agent/emr"
	"github.com/careview/vitalsync/internal/agent/netmon"
	"github.com/careview/vitalsync/internal/agent/services"
	"github.com/careview/vitalsync/internal/agent/storage"
	syncengine "github.com/careview/vitalsync/internal/agent/sync"
	"github.com/careview/vitalsync/internal/logging"
)

// App owns the assembled agent: local storage, EMR client, reachability
// monitor, sync engine, and the services exposed to the capture/UI layer.
type App struct {
	Repos   *storage.Repositories
	Engine  *syncengine.Engine
	Monitor *netmon.PingMonitor
	Capture services.CaptureService
	Auth    services.AuthService

	cfg *config.Config
	db  *sql.DB
	log logging.Logger
}

// NewApp builds the full dependency graph from cfg.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, repos, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	client := emr.NewRESTClient(cfg.APIBaseURL, cfg.APIKey, cfg.RequestTimeout)
	monitor := netmon.NewPingMonitor(client, cfg.OnlineCheckInterval, log)

	engineCfg := syncengine.DefaultConfig()
	engineCfg.BatchSize = cfg.BatchSize
	engineCfg.BackgroundInterval = cfg.BackgroundSyncInterval

	clock := syncengine.RealClock()
	engine := syncengine.NewEngine(engineCfg, repos.Readings, repos.Profile, client, monitor, clock, log)

	return &App{
		Repos:   repos,
		Engine:  engine,
		Monitor: monitor,
		Capture: services.NewCaptureService(repos.Readings, engine, clock),
		Auth:    services.NewAuthService(client, repos.Profile),
		cfg:     cfg,
		db:      db,
		log:     log,
	}, nil
}

// Run starts the reachability probe loop and the sync engine and blocks
// until ctx is canceled.
func (a *App) Run(ctx context.Context) {
	a.log.Info(ctx, "agent starting",
		"api", a.cfg.APIBaseURL,
		"db", a.cfg.DatabasePath,
		"batch_size", a.cfg.BatchSize)

	go a.Monitor.Start(ctx)
	a.Engine.Start(ctx)

	a.log.Info(ctx, "agent stopped")
}

// Close releases the database handle.
func (a *App) Close() error {
	return a.db.Close()
}
