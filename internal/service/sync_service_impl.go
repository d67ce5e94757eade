package service

import (
	"context"
	"fmt"

	"github.com/nathanfields/ebb/internal/db"
	"github.com/nathanfields/ebb/internal/domain"
	"github.com/nathanfields/ebb/internal/repository"
	"github.com/nathanfields/ebb/internal/store"
	ebbsync "github.com/nathanfields/ebb/internal/sync"
)

type syncService struct {
	store      *store.TaskStore
	reconciler *ebbsync.Reconciler
	inbox      repository.InboxRepo
	state      repository.SyncStateRepo
	uow        db.UnitOfWork
}

func NewSyncService(
	s *store.TaskStore,
	reconciler *ebbsync.Reconciler,
	inbox repository.InboxRepo,
	state repository.SyncStateRepo,
	uow db.UnitOfWork,
) SyncService {
	return &syncService{store: s, reconciler: reconciler, inbox: inbox, state: state, uow: uow}
}

// Sync pushes local state, then pulls the remote truth and swaps it in, both
// in memory and on disk. When the push could not deliver every task chunk or
// the category set, the pull is skipped entirely: the remote is missing rows
// that exist only here, and replacing local state with it would delete them
// with nothing left to re-push. The next pass retries the push first.
func (s *syncService) Sync(ctx context.Context) (*SyncOutcome, error) {
	inboxItems, err := s.inbox.List(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.reconciler.FullSync(ctx, inboxItems)
	if err != nil {
		return nil, err
	}
	if report.Tasks.FailedChunks > 0 || !report.CategoriesPushed {
		return &SyncOutcome{Report: report, PullSkipped: true}, nil
	}

	since, err := s.state.Watermark(ctx)
	if err != nil {
		return nil, err
	}
	var result *ebbsync.PullResult
	if since == nil {
		result, err = s.reconciler.Pull(ctx)
	} else {
		result, err = s.reconciler.PullSince(ctx, *since)
	}
	if err != nil {
		return nil, err
	}

	tasks := result.Tasks()
	categories := ensureDefaultCategory(result.Categories)
	if err := s.store.Replace(tasks, categories); err != nil {
		return nil, fmt.Errorf("applying pulled state: %w", err)
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		// Tasks reference categories, so clear them first and restore last.
		if err := repository.NewSQLiteTaskRepo(tx).ReplaceAll(ctx, nil); err != nil {
			return err
		}
		if err := repository.NewSQLiteCategoryRepo(tx).ReplaceAll(ctx, categories); err != nil {
			return err
		}
		if err := repository.NewSQLiteTaskRepo(tx).ReplaceAll(ctx, tasks); err != nil {
			return err
		}
		if !result.Watermark.IsZero() {
			return repository.NewSQLiteSyncStateRepo(tx).SetWatermark(ctx, result.Watermark)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persisting pulled state: %w", err)
	}

	return &SyncOutcome{
		Report:     report,
		Active:     len(result.Active),
		Archived:   len(result.Archived),
		Categories: len(categories),
	}, nil
}

// Resync drops the incremental-pull watermark so this pass pulls the
// complete remote state, including rows whose updated_at predates the
// watermark and would never appear in a delta.
func (s *syncService) Resync(ctx context.Context) (*SyncOutcome, error) {
	if err := s.state.ClearWatermark(ctx); err != nil {
		return nil, err
	}
	return s.Sync(ctx)
}

// ensureDefaultCategory guarantees the built-in category survives a pull even
// when the remote set omits it.
func ensureDefaultCategory(categories []*domain.Category) []*domain.Category {
	for _, c := range categories {
		if c.ID == domain.DefaultCategoryID {
			return categories
		}
	}
	return append([]*domain.Category{domain.DefaultCategory()}, categories...)
}
