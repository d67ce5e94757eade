package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanfields/ebb/internal/domain"
)

func treeTask(id string, parentID *string, archived bool) *domain.Task {
	return &domain.Task{ID: id, Title: id, ParentID: parentID, IsArchived: archived}
}

func TestBuildTree_NestsChildrenUnderParents(t *testing.T) {
	parent := "parent"
	tasks := []*domain.Task{
		treeTask("parent", nil, false),
		treeTask("child-a", &parent, false),
		treeTask("child-b", &parent, false),
		treeTask("solo", nil, false),
	}

	lines := buildTree(tasks, false)
	require.Len(t, lines, 4)

	assert.Equal(t, "parent", lines[0].Task.ID)
	assert.Equal(t, 0, lines[0].Level)
	assert.Equal(t, "child-a", lines[1].Task.ID)
	assert.Equal(t, 1, lines[1].Level)
	assert.False(t, lines[1].IsLast)
	assert.Equal(t, "child-b", lines[2].Task.ID)
	assert.True(t, lines[2].IsLast)
	assert.Equal(t, "solo", lines[3].Task.ID)
	assert.True(t, lines[3].IsLast)
}

func TestBuildTree_OrphanSurfacesAtTopLevel(t *testing.T) {
	parent := "archived-parent"
	tasks := []*domain.Task{
		treeTask("archived-parent", nil, true),
		treeTask("orphan", &parent, false),
	}

	lines := buildTree(tasks, false)
	require.Len(t, lines, 1)
	assert.Equal(t, "orphan", lines[0].Task.ID)
	assert.Equal(t, 0, lines[0].Level)
}

func TestBuildTree_ArchivedViewHidesActive(t *testing.T) {
	tasks := []*domain.Task{
		treeTask("active", nil, false),
		treeTask("retired", nil, true),
	}

	lines := buildTree(tasks, true)
	require.Len(t, lines, 1)
	assert.Equal(t, "retired", lines[0].Task.ID)
}
