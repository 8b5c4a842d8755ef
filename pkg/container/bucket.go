package container

import (
	"slices"

	"github.com/codenest/ahem/pkg/notice"
)

// bucket holds the live notices of one type in id insertion order.
type bucket struct {
	ids   []notice.ID
	items map[notice.ID]*notice.Notice
}

func newBucket() *bucket {
	return &bucket{items: make(map[notice.ID]*notice.Notice)}
}

// set replaces the notice with the same id in place or appends n.
func (b *bucket) set(n *notice.Notice) {
	if _, ok := b.items[n.ID()]; !ok {
		b.ids = append(b.ids, n.ID())
	}
	b.items[n.ID()] = n
}

func (b *bucket) has(id notice.ID) bool {
	_, ok := b.items[id]
	return ok
}

func (b *bucket) remove(id notice.ID) {
	if _, ok := b.items[id]; !ok {
		return
	}
	delete(b.items, id)
	b.ids = slices.DeleteFunc(b.ids, func(v notice.ID) bool { return v == id })
}

func (b *bucket) list() []*notice.Notice {
	out := make([]*notice.Notice, len(b.ids))
	for i, id := range b.ids {
		out[i] = b.items[id]
	}
	return out
}

func (b *bucket) len() int {
	return len(b.ids)
}

func (b *bucket) reset() {
	b.ids = nil
	b.items = make(map[notice.ID]*notice.Notice)
}
