// Package store holds the canonical in-memory collection of tasks and
// categories. It is a deliberately dumb invariant checker: it enforces
// referential integrity on every mutation and answers structural queries,
// but contains no lifecycle policy. Child links are always derived from
// ParentID, never stored as ground truth.
package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nathanfields/ebb/internal/domain"
)

// ErrNotFound indicates the requested task or category does not exist.
var ErrNotFound = errors.New("not found")

// TaskStore is an arena of tasks keyed by id, plus the category set.
// Mutations are expected to run on a single logical thread of control;
// callers serialize concurrent operations themselves.
type TaskStore struct {
	tasks      map[string]*domain.Task
	categories map[string]*domain.Category
}

// NewTaskStore creates an empty store seeded with the default category.
func NewTaskStore() *TaskStore {
	s := &TaskStore{
		tasks:      make(map[string]*domain.Task),
		categories: make(map[string]*domain.Category),
	}
	def := domain.DefaultCategory()
	s.categories[def.ID] = def
	return s
}

// Get returns a copy of the task with the given id.
func (s *TaskStore) Get(id string) (*domain.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return t.Clone(), nil
}

// Upsert inserts or replaces a task by id. It rejects structural corruption:
// a missing or self-referential parent, a depth that does not match
// parent.Depth+1 (or 0 for roots), a depth beyond the maximum, or a depth
// change on a task that still has children at the old level.
func (s *TaskStore) Upsert(task *domain.Task) error {
	if task.ID == "" {
		return fmt.Errorf("%w: task id is empty", domain.ErrInvariantViolation)
	}
	if task.ParentID == nil {
		if task.Depth != 0 {
			return fmt.Errorf("%w: root task %s has depth %d", domain.ErrInvariantViolation, task.ID, task.Depth)
		}
	} else {
		if *task.ParentID == task.ID {
			return fmt.Errorf("%w: task %s is its own parent", domain.ErrInvariantViolation, task.ID)
		}
		parent, ok := s.tasks[*task.ParentID]
		if !ok {
			return fmt.Errorf("%w: task %s references missing parent %s", domain.ErrInvariantViolation, task.ID, *task.ParentID)
		}
		if task.Depth != parent.Depth+1 {
			return fmt.Errorf("%w: task %s depth %d does not match parent depth %d",
				domain.ErrInvariantViolation, task.ID, task.Depth, parent.Depth)
		}
	}
	if task.Depth > domain.MaxDepth {
		return fmt.Errorf("%w: task %s depth %d exceeds maximum %d",
			domain.ErrInvariantViolation, task.ID, task.Depth, domain.MaxDepth)
	}
	if existing, ok := s.tasks[task.ID]; ok && existing.Depth != task.Depth {
		if len(s.ChildrenOf(task.ID)) > 0 {
			return fmt.Errorf("%w: cannot change depth of task %s while it has children",
				domain.ErrInvariantViolation, task.ID)
		}
	}

	s.tasks[task.ID] = task.Clone()
	return nil
}

// Delete removes a single task. It refuses to orphan a subtree: callers must
// cascade to descendants first (the lifecycle engine does this).
func (s *TaskStore) Delete(id string) error {
	if _, ok := s.tasks[id]; !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if n := len(s.ChildrenOf(id)); n > 0 {
		return fmt.Errorf("%w: task %s still has %d children", domain.ErrInvariantViolation, id, n)
	}
	delete(s.tasks, id)
	return nil
}

// ChildrenOf returns copies of the direct children of id, recomputed from
// ParentID on every call.
func (s *TaskStore) ChildrenOf(id string) []*domain.Task {
	var children []*domain.Task
	for _, t := range s.tasks {
		if t.ParentID != nil && *t.ParentID == id {
			children = append(children, t.Clone())
		}
	}
	sortTasks(children)
	return children
}

// AncestorsOf returns the chain of ancestors from direct parent up to the
// root, nearest first.
func (s *TaskStore) AncestorsOf(id string) []*domain.Task {
	var ancestors []*domain.Task
	t, ok := s.tasks[id]
	if !ok {
		return nil
	}
	for t.ParentID != nil {
		parent, ok := s.tasks[*t.ParentID]
		if !ok {
			break
		}
		ancestors = append(ancestors, parent.Clone())
		t = parent
	}
	return ancestors
}

// DescendantsOf returns the full subtree below id (children, grandchildren,
// and so on), breadth first.
func (s *TaskStore) DescendantsOf(id string) []*domain.Task {
	var out []*domain.Task
	queue := []string{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range s.ChildrenOf(cur) {
			out = append(out, child)
			queue = append(queue, child.ID)
		}
	}
	return out
}

// IsLocked reports whether the task has at least one direct child that is
// not completed. A locked parent cannot be completed.
func (s *TaskStore) IsLocked(id string) bool {
	for _, child := range s.ChildrenOf(id) {
		if !child.IsCompleted {
			return true
		}
	}
	return false
}

// Snapshot returns a copied, stable-ordered slice of every task. Sync passes
// iterate the snapshot instead of the live collection so local mutations
// during a push never corrupt the pass.
func (s *TaskStore) Snapshot() []*domain.Task {
	out := make([]*domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t.Clone())
	}
	sortTasks(out)
	return out
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Replace swaps the whole task and category collection, validating the new
// set as a unit. Parents must exist and depths must be consistent; the
// default category is re-seeded if absent. On error the store is unchanged.
func (s *TaskStore) Replace(tasks []*domain.Task, categories []*domain.Category) error {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("%w: task with empty id", domain.ErrInvariantViolation)
		}
		if _, dup := byID[t.ID]; dup {
			return fmt.Errorf("%w: duplicate task id %s", domain.ErrInvariantViolation, t.ID)
		}
		byID[t.ID] = t
	}
	for _, t := range tasks {
		if t.ParentID == nil {
			if t.Depth != 0 {
				return fmt.Errorf("%w: root task %s has depth %d", domain.ErrInvariantViolation, t.ID, t.Depth)
			}
			continue
		}
		parent, ok := byID[*t.ParentID]
		if !ok {
			return fmt.Errorf("%w: task %s references missing parent %s", domain.ErrInvariantViolation, t.ID, *t.ParentID)
		}
		if t.Depth != parent.Depth+1 || t.Depth > domain.MaxDepth {
			return fmt.Errorf("%w: task %s has inconsistent depth %d", domain.ErrInvariantViolation, t.ID, t.Depth)
		}
	}

	newTasks := make(map[string]*domain.Task, len(tasks))
	for id, t := range byID {
		newTasks[id] = t.Clone()
	}
	newCats := make(map[string]*domain.Category, len(categories)+1)
	for _, c := range categories {
		newCats[c.ID] = c.Clone()
	}
	if _, ok := newCats[domain.DefaultCategoryID]; !ok {
		def := domain.DefaultCategory()
		newCats[def.ID] = def
	}

	s.tasks = newTasks
	s.categories = newCats
	return nil
}

// Category returns a copy of the category with the given id.
func (s *TaskStore) Category(id string) (*domain.Category, error) {
	c, ok := s.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return c.Clone(), nil
}

// Categories returns copies of all categories ordered by rank.
func (s *TaskStore) Categories() []*domain.Category {
	out := make([]*domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// UpsertCategory inserts or replaces a category.
func (s *TaskStore) UpsertCategory(c *domain.Category) error {
	if c.ID == "" {
		return fmt.Errorf("%w: category id is empty", domain.ErrInvariantViolation)
	}
	s.categories[c.ID] = c.Clone()
	return nil
}

// DeleteCategory removes a category. The default category is protected, and
// a category still referenced by tasks cannot be removed; callers reassign
// those tasks first.
func (s *TaskStore) DeleteCategory(id string) error {
	c, ok := s.categories[id]
	if !ok {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if c.IsDefault {
		return fmt.Errorf("%w: cannot delete default category %s", domain.ErrInvariantViolation, id)
	}
	for _, t := range s.tasks {
		if t.CategoryID == id {
			return fmt.Errorf("%w: category %s still referenced by task %s", domain.ErrInvariantViolation, id, t.ID)
		}
	}
	delete(s.categories, id)
	return nil
}

// TasksInCategory returns copies of all tasks referencing the category.
func (s *TaskStore) TasksInCategory(id string) []*domain.Task {
	var out []*domain.Task
	for _, t := range s.tasks {
		if t.CategoryID == id {
			out = append(out, t.Clone())
		}
	}
	sortTasks(out)
	return out
}

func sortTasks(tasks []*domain.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
}
