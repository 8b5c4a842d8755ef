package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/codenest/ahem/pkg/logger"
	"github.com/codenest/ahem/pkg/notice"
)

// Container owns the live notices of one request, grouped by type, and keeps
// them in sync with the flashed snapshot.
//
// A Container is meant to be owned by a single request and is not safe for
// concurrent use.
type Container struct {
	store   SnapshotStore
	logger  *slog.Logger
	types   []string
	buckets map[string]*bucket
}

// Option configures a Container.
type Option func(*Container)

// WithTypes registers types at construction.
func WithTypes(types ...string) Option {
	return func(c *Container) {
		c.AddTypes(types...)
	}
}

// WithLogger sets the logger used for store and clear events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Container persisting to store. A nil store keeps notices in
// memory only.
func New(store SnapshotStore, opts ...Option) *Container {
	if store == nil {
		store = nopStore{}
	}
	c := &Container{
		store:   store,
		logger:  slog.Default(),
		buckets: make(map[string]*bucket),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("ahem.container"))
	return c
}

// AddTypes registers types. Already known types keep their position and
// notices; new ones get an empty bucket.
func (c *Container) AddTypes(types ...string) {
	for _, typ := range types {
		if _, ok := c.buckets[typ]; ok {
			continue
		}
		c.types = append(c.types, typ)
		c.buckets[typ] = newBucket()
	}
}

// Types returns the registered types in registration order.
func (c *Container) Types() []string {
	return slices.Clone(c.types)
}

// HasType reports whether typ is registered.
func (c *Container) HasType(typ string) bool {
	_, ok := c.buckets[typ]
	return ok
}

// Boot merges the flashed snapshot into memory. Types only present in the
// snapshot are registered and adopted whole; for known types, stored notices
// replace live ones with the same id and other live notices are kept.
func (c *Container) Boot(ctx context.Context) error {
	snap, err := c.store.Load(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load flashed notices", logger.Error(err))
		return errors.Join(ErrStore, err)
	}

	for _, typ := range snap.Types() {
		c.AddTypes(typ)
		b := c.buckets[typ]
		for _, n := range snap[typ] {
			b.set(n)
		}
	}

	c.logger.DebugContext(ctx, "container booted",
		logger.Count(snap.Len()),
		logger.NoticeTypes(c.types),
	)
	return nil
}

// MakeNewID returns id unchanged when it is set. Otherwise it returns the
// largest numeric id of typ plus one, or 0 when there is none, incremented
// until it is not taken.
func (c *Container) MakeNewID(typ string, id notice.ID) (notice.ID, error) {
	b, err := c.bucket(typ)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}

	next, found := 0, false
	for _, existing := range b.ids {
		if n, ok := existing.Int(); ok && n < math.MaxInt && (!found || n >= next) {
			next, found = n+1, true
		}
	}
	for b.has(notice.IntID(next)) {
		if next == math.MaxInt {
			next = 0
			continue
		}
		next++
	}
	return notice.IntID(next), nil
}

// Add allocates an id for n when it has none, then saves it.
func (c *Container) Add(ctx context.Context, n *notice.Notice) (*notice.Notice, error) {
	id, err := c.MakeNewID(n.Type(), n.ID())
	if err != nil {
		return nil, err
	}
	n.SetID(id)
	return c.Save(ctx, n)
}

// Save inserts or replaces n in memory and flashes it when it is flashable.
// When flashing fails the previous occupant of (type, id) is restored.
func (c *Container) Save(ctx context.Context, n *notice.Notice) (*notice.Notice, error) {
	b, err := c.bucket(n.Type())
	if err != nil {
		return nil, err
	}
	prev, had := b.items[n.ID()]
	b.set(n)
	if err := c.Store(ctx, n); err != nil {
		if had {
			b.set(prev)
		} else {
			b.remove(n.ID())
		}
		return nil, err
	}
	return n, nil
}

// Store writes n into the flashed snapshot when it is flashable. The whole
// snapshot is read and written back.
func (c *Container) Store(ctx context.Context, n *notice.Notice) error {
	if !n.Flashable() {
		return nil
	}
	snap, err := c.load(ctx)
	if err != nil {
		return err
	}
	snap.Set(n)
	if err := c.save(ctx, snap); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "notice flashed",
		logger.NoticeType(n.Type()),
		logger.NoticeID(n.ID()),
	)
	return nil
}

// StoreAll flashes every flashable live notice in one write.
func (c *Container) StoreAll(ctx context.Context) error {
	snap, err := c.load(ctx)
	if err != nil {
		return err
	}
	for _, typ := range c.types {
		for _, n := range c.buckets[typ].list() {
			if n.Flashable() {
				snap.Set(n)
			}
		}
	}
	return c.save(ctx, snap)
}

// Get returns the notices of typ in id insertion order.
func (c *Container) Get(typ string) ([]*notice.Notice, error) {
	b, err := c.bucket(typ)
	if err != nil {
		return nil, err
	}
	return b.list(), nil
}

// GetIDs returns the notices of typ with the given ids, in the requested
// order. Missing and repeated ids are skipped.
func (c *Container) GetIDs(typ string, ids ...notice.ID) ([]*notice.Notice, error) {
	b, err := c.bucket(typ)
	if err != nil {
		return nil, err
	}
	out := make([]*notice.Notice, 0, len(ids))
	seen := make(map[notice.ID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if n, ok := b.items[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

// Find returns the notice at (typ, id).
func (c *Container) Find(typ string, id notice.ID) (*notice.Notice, error) {
	b, err := c.bucket(typ)
	if err != nil {
		return nil, err
	}
	n, ok := b.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", ErrNoticeNotFound, typ, id)
	}
	return n, nil
}

// HasAny reports whether typ has live notices. Unknown types report false.
func (c *Container) HasAny(typ string) bool {
	b, ok := c.buckets[typ]
	return ok && b.len() > 0
}

// Has reports whether a notice exists at (typ, id).
func (c *Container) Has(typ string, id notice.ID) bool {
	b, ok := c.buckets[typ]
	return ok && b.has(id)
}

// HasMessage reports whether the notice at (typ, id) holds messages under key.
func (c *Container) HasMessage(typ string, id notice.ID, key string) bool {
	b, ok := c.buckets[typ]
	if !ok {
		return false
	}
	n, ok := b.items[id]
	return ok && n.Messages().Has(key)
}

// Count returns the number of live notices, not messages, across types or
// across all types when none are given.
func (c *Container) Count(types ...string) (int, error) {
	types, err := c.resolve(types)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, typ := range types {
		total += c.buckets[typ].len()
	}
	return total, nil
}

// MessageCount returns the number of messages held by the notice at (typ, id).
func (c *Container) MessageCount(typ string, id notice.ID) (int, error) {
	n, err := c.Find(typ, id)
	if err != nil {
		return 0, err
	}
	return n.Count(), nil
}

// All returns the live notices of types in the given order, or of all types
// in registration order. Notices of one type keep id insertion order.
func (c *Container) All(types ...string) ([]*notice.Notice, error) {
	types, err := c.resolve(types)
	if err != nil {
		return nil, err
	}
	var out []*notice.Notice
	for _, typ := range types {
		out = append(out, c.buckets[typ].list()...)
	}
	return out, nil
}

// Export returns the live notices of types, or of all types, as a Snapshot.
// Types without notices are included with an empty list.
func (c *Container) Export(types ...string) (Snapshot, error) {
	types, err := c.resolve(types)
	if err != nil {
		return nil, err
	}
	snap := make(Snapshot, len(types))
	for _, typ := range types {
		snap[typ] = c.buckets[typ].list()
	}
	return snap, nil
}

// Clear removes the given ids of typ from the flashed snapshot and from
// memory. With no ids the whole type is cleared.
func (c *Container) Clear(ctx context.Context, typ string, ids ...notice.ID) error {
	if len(ids) == 0 {
		return c.ClearAll(ctx, typ)
	}
	if err := c.ClearFromStore(ctx, typ, ids...); err != nil {
		return err
	}
	return c.Forget(typ, ids...)
}

// ClearAll empties types, or every type when none are given, in the flashed
// snapshot and in memory. Types stay registered.
func (c *Container) ClearAll(ctx context.Context, types ...string) error {
	if err := c.ClearStore(ctx, types...); err != nil {
		return err
	}
	return c.ForgetAll(types...)
}

// Forget removes the given ids of typ from memory only. With no ids the
// whole type is emptied.
func (c *Container) Forget(typ string, ids ...notice.ID) error {
	b, err := c.bucket(typ)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		b.reset()
		return nil
	}
	for _, id := range ids {
		b.remove(id)
	}
	return nil
}

// ForgetAll empties types, or every type when none are given, in memory only.
func (c *Container) ForgetAll(types ...string) error {
	types, err := c.resolve(types)
	if err != nil {
		return err
	}
	for _, typ := range types {
		c.buckets[typ].reset()
	}
	return nil
}

// ClearStore removes types from the flashed snapshot. With no types the
// snapshot is replaced by an empty one.
func (c *Container) ClearStore(ctx context.Context, types ...string) error {
	if len(types) == 0 {
		if err := c.save(ctx, Snapshot{}); err != nil {
			return err
		}
		c.logger.DebugContext(ctx, "flashed notices cleared")
		return nil
	}

	if _, err := c.resolve(types); err != nil {
		return err
	}
	snap, err := c.load(ctx)
	if err != nil {
		return err
	}
	for _, typ := range types {
		snap.Remove(typ)
	}
	if err := c.save(ctx, snap); err != nil {
		return err
	}

	c.logger.DebugContext(ctx, "flashed notices cleared", logger.NoticeTypes(types))
	return nil
}

// ClearFromStore removes the given ids of typ from the flashed snapshot. With
// no ids the whole type is removed.
func (c *Container) ClearFromStore(ctx context.Context, typ string, ids ...notice.ID) error {
	if _, err := c.bucket(typ); err != nil {
		return err
	}
	snap, err := c.load(ctx)
	if err != nil {
		return err
	}
	snap.Remove(typ, ids...)
	return c.save(ctx, snap)
}

func (c *Container) bucket(typ string) (*bucket, error) {
	b, ok := c.buckets[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return b, nil
}

// resolve validates types, defaulting to every registered type.
func (c *Container) resolve(types []string) ([]string, error) {
	if len(types) == 0 {
		return c.types, nil
	}
	for _, typ := range types {
		if _, err := c.bucket(typ); err != nil {
			return nil, err
		}
	}
	return types, nil
}

func (c *Container) load(ctx context.Context) (Snapshot, error) {
	snap, err := c.store.Load(ctx)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load flashed notices", logger.Error(err))
		return nil, errors.Join(ErrStore, err)
	}
	if snap == nil {
		snap = Snapshot{}
	}
	return snap, nil
}

func (c *Container) save(ctx context.Context, snap Snapshot) error {
	if err := c.store.Save(ctx, snap); err != nil {
		c.logger.ErrorContext(ctx, "failed to flash notices", logger.Error(err))
		return errors.Join(ErrStore, err)
	}
	return nil
}

type nopStore struct{}

func (nopStore) Load(context.Context) (Snapshot, error) { return Snapshot{}, nil }

func (nopStore) Save(context.Context, Snapshot) error { return nil }
