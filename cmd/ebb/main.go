package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nathanfields/ebb/internal/cli"
	"github.com/nathanfields/ebb/internal/config"
	"github.com/nathanfields/ebb/internal/db"
	"github.com/nathanfields/ebb/internal/lifecycle"
	"github.com/nathanfields/ebb/internal/repository"
	"github.com/nathanfields/ebb/internal/sched"
	"github.com/nathanfields/ebb/internal/service"
	ebbsync "github.com/nathanfields/ebb/internal/sync"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.ebb/ebb.db
	dbPath := os.Getenv("EBB_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".ebb", "ebb.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	cfgPath := os.Getenv("EBB_CONFIG")
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("finding config path: %w", err)
		}
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open database
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	taskRepo := repository.NewSQLiteTaskRepo(database)
	categoryRepo := repository.NewSQLiteCategoryRepo(database)
	inboxRepo := repository.NewSQLiteInboxRepo(database)
	syncStateRepo := repository.NewSQLiteSyncStateRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	ctx := context.Background()
	taskStore, err := service.LoadStore(ctx, taskRepo, categoryRepo)
	if err != nil {
		return err
	}
	engine := lifecycle.NewEngine(taskStore, nil)

	logger := log.New(os.Stderr, "", log.LstdFlags)

	// Sync is optional; without an endpoint the reconciler stays nil and
	// task mutations are purely local.
	var reconciler *ebbsync.Reconciler
	var syncSvc service.SyncService
	if cfg.SyncEnabled() {
		remote := ebbsync.NewHTTPRemote(ebbsync.RemoteConfig{
			Endpoint: cfg.Sync.Endpoint,
			Token:    cfg.Sync.Token,
			Timeout:  cfg.Timeout(),
		})
		reconciler = ebbsync.NewReconciler(remote, taskStore, cfg.Sync.UserID, logger)
	}

	// Wire services
	taskSvc := service.NewTaskService(taskStore, engine, taskRepo, uow, reconciler)
	sweepSvc := service.NewSweepService(taskStore, engine, taskRepo, nil)
	if reconciler != nil {
		syncSvc = service.NewSyncService(taskStore, reconciler, inboxRepo, syncStateRepo, uow)
	}

	app := &cli.App{
		Tasks:         taskSvc,
		Categories:    service.NewCategoryService(taskStore, categoryRepo, uow),
		Inbox:         service.NewInboxService(inboxRepo, taskSvc, nil),
		Sweeper:       sweepSvc,
		Sync:          syncSvc,
		Daemon:        sched.NewDaemon(syncSvc, sweepSvc, logger),
		SyncSchedule:  cfg.Daemon.SyncSchedule,
		SweepSchedule: cfg.Daemon.SweepSchedule,
	}

	return cli.NewRootCmd(app).Execute()
}
