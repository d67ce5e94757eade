package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nathanfields/ebb/internal/domain"
	"github.com/nathanfields/ebb/internal/lifecycle"
	"github.com/nathanfields/ebb/internal/repository"
)

type inboxService struct {
	inbox repository.InboxRepo
	tasks TaskService
	now   lifecycle.Clock
}

func NewInboxService(inbox repository.InboxRepo, tasks TaskService, clock lifecycle.Clock) InboxService {
	if clock == nil {
		clock = time.Now
	}
	return &inboxService{inbox: inbox, tasks: tasks, now: clock}
}

func (s *inboxService) Capture(ctx context.Context, rawText string) (*domain.InboxTask, error) {
	rawText = strings.TrimSpace(rawText)
	if rawText == "" {
		return nil, fmt.Errorf("inbox capture cannot be empty")
	}
	item := &domain.InboxTask{
		ID:         uuid.New().String(),
		RawText:    rawText,
		CapturedAt: s.now(),
	}
	if err := s.inbox.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("persisting inbox capture: %w", err)
	}
	return item, nil
}

func (s *inboxService) List(ctx context.Context) ([]*domain.InboxTask, error) {
	return s.inbox.List(ctx)
}

func (s *inboxService) Delete(ctx context.Context, id string) error {
	return s.inbox.Delete(ctx, id)
}

// Promote turns a raw capture into a task titled with its text, then drops
// the capture. The new task lands in the given category, or the default one.
func (s *inboxService) Promote(ctx context.Context, id string, categoryID string) (*domain.Task, error) {
	items, err := s.inbox.List(ctx)
	if err != nil {
		return nil, err
	}
	var item *domain.InboxTask
	for _, it := range items {
		if it.ID == id {
			item = it
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("inbox task %s: %w", id, repository.ErrNotFound)
	}

	task, err := s.tasks.Create(ctx, lifecycle.CreateParams{
		Title:      item.RawText,
		CategoryID: categoryID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.inbox.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("removing promoted capture: %w", err)
	}
	return task, nil
}
