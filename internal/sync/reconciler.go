package sync

import (
	"context"
	"log"
	"time"

	"github.com/nathanfields/ebb/internal/domain"
	"github.com/nathanfields/ebb/internal/store"
)

// Batch ceilings imposed by the remote transport.
const (
	TaskChunkSize     = 200
	CategoryChunkSize = 50
)

// Reconciler keeps the local TaskStore and the remote datastore convergent.
// All writes are idempotent upserts, so an abandoned or partially failed
// pass never leaves unrecoverable state: the next pass simply re-pushes.
type Reconciler struct {
	remote    Remote
	store     *store.TaskStore
	userID    string
	chunkSize int
	logger    *log.Logger

	// lastMap caches the category map from the most recent pass for the
	// fire-and-forget single-row path. Full passes always rebuild it.
	lastMap *CategoryMap
}

// NewReconciler creates a Reconciler. A nil logger falls back to the
// standard logger.
func NewReconciler(remote Remote, s *store.TaskStore, userID string, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Default()
	}
	return &Reconciler{
		remote:    remote,
		store:     s,
		userID:    userID,
		chunkSize: TaskChunkSize,
		logger:    logger,
	}
}

// PullResult carries the translated remote state, partitioned the way local
// views consume it. Watermark is the newest updated_at seen among the
// pulled rows (zero when the pull returned none); callers persist it to
// drive the next incremental pull.
type PullResult struct {
	Active     []*domain.Task
	Archived   []*domain.Task
	Categories []*domain.Category
	Map        *CategoryMap
	Watermark  time.Time
}

// Tasks returns the active and archived partitions as one slice.
func (p *PullResult) Tasks() []*domain.Task {
	out := make([]*domain.Task, 0, len(p.Active)+len(p.Archived))
	out = append(out, p.Active...)
	return append(out, p.Archived...)
}

// Pull fetches all remote tasks and categories and translates them into
// local shapes. Hierarchy is rebuilt locally from parent_id relationships;
// a remote childIds field would not be trusted even if one existed. The
// store is not mutated; applying the result is the caller's decision.
func (r *Reconciler) Pull(ctx context.Context) (*PullResult, error) {
	return r.pull(ctx, nil)
}

// PullSince fetches only the tasks updated after the watermark and lays
// them over a snapshot of the current local state, yielding the same full
// PullResult shape as Pull. Remote deletions are invisible to a watermark
// query; a periodic full Pull reconciles those.
func (r *Reconciler) PullSince(ctx context.Context, since time.Time) (*PullResult, error) {
	return r.pull(ctx, &since)
}

func (r *Reconciler) pull(ctx context.Context, since *time.Time) (*PullResult, error) {
	remoteCats, err := r.remote.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	m := BuildMap(r.store.Categories(), remoteCats)

	rows, err := r.remote.ListTasks(ctx, since)
	if err != nil {
		return nil, err
	}

	result := &PullResult{Map: m}
	var pulled []*domain.Task
	for _, row := range rows {
		task, err := RowToTask(row, m)
		if err != nil {
			r.logger.Printf("[sync] skipping malformed remote task %s: %v", row.ID, err)
			continue
		}
		pulled = append(pulled, task)
		if task.UpdatedAt.After(result.Watermark) {
			result.Watermark = task.UpdatedAt
		}
	}

	tasks := pulled
	if since != nil {
		tasks = overlayTasks(r.store.Snapshot(), pulled)
	}
	tasks = normalizeHierarchy(tasks, r.logger)

	for _, c := range remoteCats {
		result.Categories = append(result.Categories, RowToCategory(c, m))
	}

	// A task may arrive pointing at a category id that is neither mapped
	// nor part of this pull (a row orphaned server-side). Only then does
	// the reference fall back to the default category.
	catIDs := make(map[string]bool, len(result.Categories)+1)
	catIDs[domain.DefaultCategoryID] = true
	for _, c := range result.Categories {
		catIDs[c.ID] = true
	}
	for _, t := range tasks {
		if !catIDs[t.CategoryID] {
			r.logger.Printf("[sync] task %s references unknown category %s, using default", t.ID, t.CategoryID)
			t.CategoryID = domain.DefaultCategoryID
		}
		if t.IsArchived {
			result.Archived = append(result.Archived, t)
		} else {
			result.Active = append(result.Active, t)
		}
	}
	r.lastMap = m
	return result, nil
}

// overlayTasks lays the pulled delta over the local base set: a delta row
// replaces the base task with the same id, unseen ids are appended, and
// base tasks absent from the delta survive untouched.
func overlayTasks(base, delta []*domain.Task) []*domain.Task {
	byID := make(map[string]int, len(base))
	out := make([]*domain.Task, len(base))
	for i, t := range base {
		byID[t.ID] = i
		out[i] = t
	}
	for _, t := range delta {
		if i, ok := byID[t.ID]; ok {
			out[i] = t
		} else {
			out = append(out, t)
		}
	}
	return out
}

// PushCategories pushes all locally created categories. Built-in defaults
// are assumed pre-seeded on the remote side and are never pushed, so a
// client with stale defaults can never clobber server-seeded rows.
func (r *Reconciler) PushCategories(ctx context.Context, m *CategoryMap) error {
	var rows []CategoryRow
	for _, c := range r.store.Categories() {
		if c.IsDefault {
			continue
		}
		rows = append(rows, CategoryToRow(c, r.userID, m))
	}

	for start := 0; start < len(rows); start += CategoryChunkSize {
		end := min(start+CategoryChunkSize, len(rows))
		if err := r.remote.UpsertCategories(ctx, rows[start:end]); err != nil {
			r.logger.Printf("[sync] category chunk %d-%d failed: %v", start, end, err)
			return err
		}
	}
	return nil
}

// PushStats summarizes a chunked push.
type PushStats struct {
	Total        int
	Pushed       int
	FailedChunks int
}

// PushTasks translates and upserts tasks in fixed-size chunks. A failed
// chunk is logged and skipped; the remaining chunks still go out, since
// idempotent upserts let the next pass repair the hole.
func (r *Reconciler) PushTasks(ctx context.Context, tasks []*domain.Task, m *CategoryMap) PushStats {
	stats := PushStats{Total: len(tasks)}

	rows := make([]TaskRow, len(tasks))
	for i, t := range tasks {
		rows[i] = TaskToRow(t, r.userID, m)
	}

	for start := 0; start < len(rows); start += r.chunkSize {
		end := min(start+r.chunkSize, len(rows))
		if err := r.remote.UpsertTasks(ctx, rows[start:end]); err != nil {
			stats.FailedChunks++
			r.logger.Printf("[sync] task chunk %d-%d failed (will retry next pass): %v", start, end, err)
			continue
		}
		stats.Pushed += end - start
	}
	return stats
}

// PushInbox forwards local captures the remote side has not seen yet.
// The inbox endpoint is append-only with server-assigned ids, so dedup is
// by raw text against the current remote listing.
func (r *Reconciler) PushInbox(ctx context.Context, items []*domain.InboxTask) PushStats {
	stats := PushStats{Total: len(items)}
	if len(items) == 0 {
		return stats
	}

	remoteRows, err := r.remote.ListInbox(ctx)
	if err != nil {
		r.logger.Printf("[sync] listing remote inbox failed: %v", err)
		stats.FailedChunks++
		return stats
	}
	seen := make(map[string]bool, len(remoteRows))
	for _, row := range remoteRows {
		seen[row.RawText] = true
	}

	for _, item := range items {
		if seen[item.RawText] {
			continue
		}
		if err := r.remote.CaptureInbox(ctx, item.RawText); err != nil {
			r.logger.Printf("[sync] pushing inbox capture failed: %v", err)
			stats.FailedChunks++
			continue
		}
		stats.Pushed++
	}
	return stats
}

// UpsertTask is the fire-and-forget single-row path used for optimistic
// sync right after a local mutation. Failures are logged, not retried
// inline; the next full pass reconciles any drift.
func (r *Reconciler) UpsertTask(ctx context.Context, task *domain.Task) {
	row := TaskToRow(task, r.userID, r.lastMap)
	if err := r.remote.UpsertTasks(ctx, []TaskRow{row}); err != nil {
		r.logger.Printf("[sync] optimistic upsert of task %s failed: %v", task.ID, err)
	}
}

// DeleteTask is the fire-and-forget single-row delete counterpart.
func (r *Reconciler) DeleteTask(ctx context.Context, id string) {
	if err := r.remote.DeleteTask(ctx, id); err != nil {
		r.logger.Printf("[sync] optimistic delete of task %s failed: %v", id, err)
	}
}

// DeleteTasks propagates a cascade delete, chunked to the batch ceiling.
func (r *Reconciler) DeleteTasks(ctx context.Context, ids []string) {
	for start := 0; start < len(ids); start += r.chunkSize {
		end := min(start+r.chunkSize, len(ids))
		if err := r.remote.DeleteTasks(ctx, ids[start:end]); err != nil {
			r.logger.Printf("[sync] batch delete chunk %d-%d failed: %v", start, end, err)
		}
	}
}

// SyncReport summarizes one full pass.
type SyncReport struct {
	CategoriesPushed bool
	Tasks            PushStats
	Inbox            PushStats
}

// FullSync runs one complete pass in fixed order: push categories, re-pull
// the remote category set to rebuild the map (never cached across passes,
// so renames cannot leave a stale mapping), push every task active and
// archived from a store snapshot, then push inbox captures. Tasks go last
// among the category steps because their rows need a valid mapping first.
// Chunk failures are logged and skipped; only a failure to establish the
// category map aborts the pass.
func (r *Reconciler) FullSync(ctx context.Context, inbox []*domain.InboxTask) (*SyncReport, error) {
	report := &SyncReport{}

	m := r.lastMap
	if err := r.PushCategories(ctx, m); err != nil {
		r.logger.Printf("[sync] category push failed, continuing with pull: %v", err)
	} else {
		report.CategoriesPushed = true
	}

	remoteCats, err := r.remote.ListCategories(ctx)
	if err != nil {
		return report, err
	}
	m = BuildMap(r.store.Categories(), remoteCats)
	r.lastMap = m

	report.Tasks = r.PushTasks(ctx, r.store.Snapshot(), m)
	report.Inbox = r.PushInbox(ctx, inbox)

	r.logger.Printf("[sync] full pass: %d/%d tasks pushed, %d failed chunks, %d inbox captures",
		report.Tasks.Pushed, report.Tasks.Total, report.Tasks.FailedChunks, report.Inbox.Pushed)
	return report, nil
}

// normalizeHierarchy recomputes depths from parent chains and detaches
// tasks whose parent is missing, cyclic, or too deep. Remote data is not
// trusted to satisfy local structural invariants. Detaching can shorten
// chains below the depth ceiling, so the fixpoint loop reruns until the set
// is stable; it terminates because each round only ever removes links.
func normalizeHierarchy(tasks []*domain.Task, logger *log.Logger) []*domain.Task {
	byID := make(map[string]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	for {
		depths := make(map[string]int, len(tasks))
		var depthOf func(t *domain.Task, trail map[string]bool) int
		depthOf = func(t *domain.Task, trail map[string]bool) int {
			if d, ok := depths[t.ID]; ok {
				return d
			}
			d := 0
			if t.ParentID != nil {
				parent, ok := byID[*t.ParentID]
				if !ok || trail[parent.ID] {
					depths[t.ID] = -1
					return -1
				}
				trail[t.ID] = true
				pd := depthOf(parent, trail)
				if pd < 0 {
					depths[t.ID] = -1
					return -1
				}
				d = pd + 1
			}
			depths[t.ID] = d
			return d
		}

		detached := false
		for _, t := range tasks {
			d := depthOf(t, map[string]bool{})
			if d < 0 || d > domain.MaxDepth {
				logger.Printf("[sync] detaching task %s: unresolvable hierarchy", t.ID)
				t.ParentID = nil
				detached = true
				continue
			}
			t.Depth = d
		}
		if !detached {
			return tasks
		}
	}
}
