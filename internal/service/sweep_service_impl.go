package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nathanfields/ebb/internal/decay"
	"github.com/nathanfields/ebb/internal/lifecycle"
	"github.com/nathanfields/ebb/internal/repository"
	"github.com/nathanfields/ebb/internal/store"
)

// sweepService runs the periodic decay pass: stamp tasks that crossed their
// deadline, then archive the ones whose overdue spell has fully decayed.
type sweepService struct {
	store  *store.TaskStore
	engine *lifecycle.Engine
	tasks  repository.TaskRepo
	now    lifecycle.Clock
}

func NewSweepService(
	s *store.TaskStore,
	engine *lifecycle.Engine,
	tasks repository.TaskRepo,
	clock lifecycle.Clock,
) SweepService {
	if clock == nil {
		clock = time.Now
	}
	return &sweepService{store: s, engine: engine, tasks: tasks, now: clock}
}

func (s *sweepService) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	now := s.now()

	for _, task := range s.store.Snapshot() {
		if !decay.Stamp(task, now) {
			continue
		}
		if err := s.store.Upsert(task); err != nil {
			return result, err
		}
		if err := s.tasks.Update(ctx, task); err != nil {
			return result, fmt.Errorf("persisting overdue stamp: %w", err)
		}
		result.Stamped++
	}

	for _, task := range decay.SweepArchivable(s.store.Snapshot(), now) {
		archived, err := s.engine.Archive(task.ID)
		if err != nil {
			return result, err
		}
		if err := s.tasks.Update(ctx, archived); err != nil {
			return result, fmt.Errorf("persisting decay archive: %w", err)
		}
		result.Archived++
	}
	return result, nil
}
