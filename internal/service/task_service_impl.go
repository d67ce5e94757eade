package service

import (
	"context"
	"fmt"

	"github.com/nathanfields/ebb/internal/db"
	"github.com/nathanfields/ebb/internal/domain"
	"github.com/nathanfields/ebb/internal/lifecycle"
	"github.com/nathanfields/ebb/internal/repository"
	"github.com/nathanfields/ebb/internal/store"
	ebbsync "github.com/nathanfields/ebb/internal/sync"
)

// taskService routes every task mutation through the lifecycle engine, then
// persists the outcome and mirrors it to the remote when sync is configured.
// Remote pushes are fire-and-forget; the periodic full sync heals any drift.
type taskService struct {
	store  *store.TaskStore
	engine *lifecycle.Engine
	tasks  repository.TaskRepo
	uow    db.UnitOfWork
	remote *ebbsync.Reconciler // nil when sync is disabled
}

func NewTaskService(
	s *store.TaskStore,
	engine *lifecycle.Engine,
	tasks repository.TaskRepo,
	uow db.UnitOfWork,
	remote *ebbsync.Reconciler,
) TaskService {
	return &taskService{store: s, engine: engine, tasks: tasks, uow: uow, remote: remote}
}

func (s *taskService) Create(ctx context.Context, p lifecycle.CreateParams) (*domain.Task, error) {
	task, err := s.engine.Create(p)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("persisting task: %w", err)
	}
	s.pushUpsert(ctx, task)
	return task, nil
}

func (s *taskService) AddSubtask(ctx context.Context, parentID string, p lifecycle.CreateParams) (*domain.Task, error) {
	task, err := s.engine.AddSubtask(parentID, p)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("persisting subtask: %w", err)
	}
	s.pushUpsert(ctx, task)
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.Task, error) {
	return s.store.Get(id)
}

func (s *taskService) List(ctx context.Context) ([]*domain.Task, error) {
	return s.store.Snapshot(), nil
}

func (s *taskService) ListByCategory(ctx context.Context, categoryID string) ([]*domain.Task, error) {
	return s.store.TasksInCategory(categoryID), nil
}

func (s *taskService) Subtasks(ctx context.Context, parentID string) ([]*domain.Task, error) {
	if _, err := s.store.Get(parentID); err != nil {
		return nil, err
	}
	return s.store.ChildrenOf(parentID), nil
}

func (s *taskService) Start(ctx context.Context, id string) (*domain.Task, error) {
	return s.persistTransition(ctx, func() (*domain.Task, error) {
		return s.engine.Start(id)
	})
}

func (s *taskService) Complete(ctx context.Context, id string) (*domain.Task, domain.CompleteOutcome, error) {
	task, out, err := s.engine.Complete(id)
	if err != nil {
		return nil, domain.CompleteOutcome{}, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, domain.CompleteOutcome{}, fmt.Errorf("persisting completion: %w", err)
	}
	s.pushUpsert(ctx, task)
	return task, out, nil
}

func (s *taskService) Uncomplete(ctx context.Context, id string) (*domain.Task, error) {
	return s.persistTransition(ctx, func() (*domain.Task, error) {
		return s.engine.Uncomplete(id)
	})
}

func (s *taskService) Defer(ctx context.Context, id string) (*domain.Task, error) {
	return s.persistTransition(ctx, func() (*domain.Task, error) {
		return s.engine.Defer(id)
	})
}

func (s *taskService) Archive(ctx context.Context, id string) (*domain.Task, error) {
	return s.persistTransition(ctx, func() (*domain.Task, error) {
		return s.engine.Archive(id)
	})
}

func (s *taskService) Revive(ctx context.Context, id string) (*domain.Task, error) {
	return s.persistTransition(ctx, func() (*domain.Task, error) {
		return s.engine.Revive(id)
	})
}

func (s *taskService) Edit(ctx context.Context, id string, edits lifecycle.FieldEdits) (*domain.Task, error) {
	return s.persistTransition(ctx, func() (*domain.Task, error) {
		return s.engine.EditFields(id, edits)
	})
}

func (s *taskService) Delete(ctx context.Context, id string) ([]*domain.Task, error) {
	removed, err := s.engine.DeleteCascade(id)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(removed))
	for i, t := range removed {
		ids[i] = t.ID
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteTaskRepo(tx).DeleteMany(ctx, ids)
	})
	if err != nil {
		return nil, fmt.Errorf("deleting task subtree: %w", err)
	}

	if s.remote != nil {
		s.remote.DeleteTasks(ctx, ids)
	}
	return removed, nil
}

func (s *taskService) persistTransition(ctx context.Context, fn func() (*domain.Task, error)) (*domain.Task, error) {
	task, err := fn()
	if err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("persisting task update: %w", err)
	}
	s.pushUpsert(ctx, task)
	return task, nil
}

func (s *taskService) pushUpsert(ctx context.Context, task *domain.Task) {
	if s.remote != nil {
		s.remote.UpsertTask(ctx, task)
	}
}
