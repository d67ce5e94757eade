package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanfields/ebb/internal/domain"
)

func TestBuildMap_MatchesByName(t *testing.T) {
	local := []*domain.Category{
		{ID: "work", Name: "Work"},
		{ID: domain.DefaultCategoryID, Name: "Overview"},
	}
	remote := []CategoryRow{
		{ID: "550e8400-e29b-41d4-a716-446655440000", Name: "Work"},
		{ID: "6ba7b810-9dad-11d1-80b4-00c04fd430c8", Name: "Overview"},
	}

	m := BuildMap(local, remote)
	assert.Equal(t, 2, m.Len())

	remoteID, ok := m.RemoteID("work")
	require.True(t, ok)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", remoteID)

	localID, ok := m.LocalID("550e8400-e29b-41d4-a716-446655440000")
	require.True(t, ok)
	assert.Equal(t, "work", localID)
}

func TestBuildMap_CaseInsensitive(t *testing.T) {
	local := []*domain.Category{{ID: "work", Name: "WORK"}}
	remote := []CategoryRow{{ID: "r1", Name: "work"}}

	m := BuildMap(local, remote)
	_, ok := m.RemoteID("work")
	assert.True(t, ok)
}

func TestBuildMap_TrimsWhitespace(t *testing.T) {
	local := []*domain.Category{{ID: "work", Name: " Work "}}
	remote := []CategoryRow{{ID: "r1", Name: "Work"}}

	m := BuildMap(local, remote)
	assert.Equal(t, 1, m.Len())
}

func TestBuildMap_UnmatchedLeftUnmapped(t *testing.T) {
	local := []*domain.Category{{ID: "hobby", Name: "Hobby"}}
	remote := []CategoryRow{{ID: "r1", Name: "Work"}}

	m := BuildMap(local, remote)
	assert.Equal(t, 0, m.Len())
	_, ok := m.RemoteID("hobby")
	assert.False(t, ok)
	_, ok = m.LocalID("r1")
	assert.False(t, ok)
}

func TestBuildMap_DuplicateRemoteNameMappedOnce(t *testing.T) {
	local := []*domain.Category{
		{ID: "a", Name: "Work"},
		{ID: "b", Name: "Work"},
	}
	remote := []CategoryRow{{ID: "r1", Name: "Work"}}

	m := BuildMap(local, remote)
	assert.Equal(t, 1, m.Len())
	remoteID, ok := m.RemoteID("a")
	require.True(t, ok)
	assert.Equal(t, "r1", remoteID)
	_, ok = m.RemoteID("b")
	assert.False(t, ok, "a remote row maps to at most one local category")
}
