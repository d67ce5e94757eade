package service

import (
	"context"
	"database/sql"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nathanfields/ebb/internal/db"
	"github.com/nathanfields/ebb/internal/lifecycle"
	"github.com/nathanfields/ebb/internal/repository"
	"github.com/nathanfields/ebb/internal/store"
	"github.com/nathanfields/ebb/internal/testutil"
)

// fixture wires the full local stack over an in-memory database. The clock
// is mutable so tests can move time forward.
type fixture struct {
	db         *sql.DB
	store      *store.TaskStore
	engine     *lifecycle.Engine
	taskRepo   repository.TaskRepo
	catRepo    repository.CategoryRepo
	inboxRepo  repository.InboxRepo
	stateRepo  repository.SyncStateRepo
	uow        db.UnitOfWork
	now        time.Time
	tasks      TaskService
	categories CategoryService
	inbox      InboxService
	sweeper    SweepService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)

	f := &fixture{
		db:        database,
		taskRepo:  repository.NewSQLiteTaskRepo(database),
		catRepo:   repository.NewSQLiteCategoryRepo(database),
		inboxRepo: repository.NewSQLiteInboxRepo(database),
		stateRepo: repository.NewSQLiteSyncStateRepo(database),
		uow:       testutil.NewTestUoW(database),
		now:       testutil.FixedNow,
	}

	s, err := LoadStore(context.Background(), f.taskRepo, f.catRepo)
	require.NoError(t, err)
	f.store = s
	f.engine = lifecycle.NewEngine(s, func() time.Time { return f.now })
	f.tasks = NewTaskService(s, f.engine, f.taskRepo, f.uow, nil)
	f.categories = NewCategoryService(s, f.catRepo, f.uow)
	f.inbox = NewInboxService(f.inboxRepo, f.tasks, func() time.Time { return f.now })
	f.sweeper = NewSweepService(s, f.engine, f.taskRepo, func() time.Time { return f.now })
	return f
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// reload hydrates a fresh store from the database, proving persistence.
func (f *fixture) reload(t *testing.T) *store.TaskStore {
	t.Helper()
	s, err := LoadStore(context.Background(), f.taskRepo, f.catRepo)
	require.NoError(t, err)
	return s
}
