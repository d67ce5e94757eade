package sync

import (
	"strings"

	"github.com/nathanfields/ebb/internal/domain"
)

// CategoryMap is a bidirectional mapping between local category identifiers
// and remote-assigned ones. Neither space is authoritative: built-in
// categories have fixed local string ids that exist before any remote round
// trip, while the remote side assigns its own opaque ids.
type CategoryMap struct {
	localToRemote map[string]string
	remoteToLocal map[string]string
}

// BuildMap matches local and remote categories by case-insensitive name
// equality; identifier equality is useless since the two spaces are
// disjoint. Categories with no name match are left unmapped; tasks
// referencing them push with a NULL remote foreign key until the category
// itself is pushed. Name matching is intentionally fragile (a simultaneous
// rename on both sides silently orphans the mapping); see DESIGN.md.
func BuildMap(local []*domain.Category, remote []CategoryRow) *CategoryMap {
	m := &CategoryMap{
		localToRemote: make(map[string]string),
		remoteToLocal: make(map[string]string),
	}
	for _, lc := range local {
		name := normalizeName(lc.Name)
		for _, rc := range remote {
			if normalizeName(rc.Name) != name {
				continue
			}
			if _, taken := m.remoteToLocal[rc.ID]; taken {
				continue
			}
			m.localToRemote[lc.ID] = rc.ID
			m.remoteToLocal[rc.ID] = lc.ID
			break
		}
	}
	return m
}

// RemoteID returns the remote counterpart of a local category id.
func (m *CategoryMap) RemoteID(localID string) (string, bool) {
	id, ok := m.localToRemote[localID]
	return id, ok
}

// LocalID returns the local counterpart of a remote category id.
func (m *CategoryMap) LocalID(remoteID string) (string, bool) {
	id, ok := m.remoteToLocal[remoteID]
	return id, ok
}

// Len returns the number of mapped pairs.
func (m *CategoryMap) Len() int {
	return len(m.localToRemote)
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
