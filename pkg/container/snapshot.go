package container

import (
	"context"
	"slices"

	"github.com/codenest/ahem/pkg/notice"
)

// Snapshot is the persisted set of notices: notice type to notices in id
// insertion order. Ids are unique per type.
type Snapshot map[string][]*notice.Notice

// SnapshotStore persists a Snapshot across one request boundary with flash
// semantics: Save replaces the whole snapshot, which is readable during the
// next cycle and gone after it unless saved again.
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

// Set inserts n or replaces the notice with the same type and id in place.
func (s Snapshot) Set(n *notice.Notice) {
	list := s[n.Type()]
	for i, existing := range list {
		if existing.ID() == n.ID() {
			list[i] = n
			return
		}
	}
	s[n.Type()] = append(list, n)
}

// Find returns the notice stored at (typ, id), or nil.
func (s Snapshot) Find(typ string, id notice.ID) *notice.Notice {
	for _, n := range s[typ] {
		if n.ID() == id {
			return n
		}
	}
	return nil
}

// Remove deletes the given ids of typ. With no ids the whole type is removed.
func (s Snapshot) Remove(typ string, ids ...notice.ID) {
	if len(ids) == 0 {
		delete(s, typ)
		return
	}
	list, ok := s[typ]
	if !ok {
		return
	}
	s[typ] = slices.DeleteFunc(list, func(n *notice.Notice) bool {
		return slices.Contains(ids, n.ID())
	})
}

// Types returns the snapshot's types in ascending order.
func (s Snapshot) Types() []string {
	types := make([]string, 0, len(s))
	for typ := range s {
		types = append(types, typ)
	}
	slices.Sort(types)
	return types
}

// Len returns the number of notices across all types.
func (s Snapshot) Len() int {
	total := 0
	for _, list := range s {
		total += len(list)
	}
	return total
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	c := make(Snapshot, len(s))
	for typ, list := range s {
		cl := make([]*notice.Notice, len(list))
		for i, n := range list {
			cl[i] = n.Clone()
		}
		c[typ] = cl
	}
	return c
}
