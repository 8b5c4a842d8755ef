package ahem

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/codenest/ahem/pkg/container"
	"github.com/codenest/ahem/pkg/logger"
	"github.com/codenest/ahem/pkg/notice"
	"github.com/codenest/ahem/pkg/settings"
)

// Factory is the entry point for creating, querying, rendering and clearing
// notices. It validates types against the configured and extended ones and
// delegates storage to a Container.
//
// Like its Container, a Factory serves a single request.
type Factory struct {
	container *container.Container
	resolver  *settings.Resolver
	logger    *slog.Logger

	pending    []extension
	extensions map[string]*notice.Notice
	accessors  map[string]*Accessor
}

// New creates a Factory over c, registers every allowed type and boots the
// container from its store. A nil container keeps notices in memory only and
// a nil resolver uses the built-in settings.
func New(ctx context.Context, c *container.Container, r *settings.Resolver, opts ...Option) (*Factory, error) {
	if c == nil {
		c = container.New(nil)
	}
	if r == nil {
		r = settings.Default()
	}
	f := &Factory{
		container:  c,
		resolver:   r,
		logger:     slog.Default(),
		extensions: make(map[string]*notice.Notice),
		accessors:  make(map[string]*Accessor),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.logger = f.logger.With(logger.Component("ahem"))

	for _, ext := range f.pending {
		f.extend(ext.typ, ext.configure)
	}
	f.pending = nil

	allowed := f.allowedTypes()
	c.AddTypes(allowed...)
	for _, typ := range allowed {
		f.register(typ)
	}
	if err := c.Boot(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

// Container returns the underlying container.
func (f *Factory) Container() *container.Container {
	return f.container
}

// Resolver returns the settings resolver.
func (f *Factory) Resolver() *settings.Resolver {
	return f.resolver
}

// Allowed reports whether typ is configured or extended.
func (f *Factory) Allowed(typ string) bool {
	if _, ok := f.extensions[typ]; ok {
		return true
	}
	return f.resolver.HasType(typ)
}

// IsAllowed returns ErrInvalidNotificationType when typ is not allowed.
func (f *Factory) IsAllowed(typ string) error {
	return f.check(typ, "isAllowed")
}

// AllowedTypes returns the extended types followed by the configured ones.
func (f *Factory) AllowedTypes() []string {
	return f.allowedTypes()
}

// Extend defines a custom type, or overrides a configured one, with a
// template notice built from the default settings. configure runs once on
// the template; notices made afterwards copy its settings and heading key.
func (f *Factory) Extend(typ string, configure func(*notice.Notice)) *notice.Notice {
	tpl := f.extend(typ, configure)
	f.container.AddTypes(typ)
	f.register(typ)
	return tpl
}

func (f *Factory) extend(typ string, configure func(*notice.Notice)) *notice.Notice {
	tpl := notice.New(typ, "", true).Configure(
		f.resolver.DefaultSettings().Overrides(),
		f.resolver.HeadingKey(typ),
	)
	if configure != nil {
		configure(tpl)
	}
	f.extensions[typ] = tpl
	return tpl
}

// Make creates a notice of typ, saves it and flashes it unless NotFlashable
// is given. Nothing is mutated when typ is not allowed.
func (f *Factory) Make(ctx context.Context, typ string, opts ...MakeOption) (*notice.Notice, error) {
	if err := f.check(typ, "make"); err != nil {
		return nil, err
	}
	p := newMakeParams(opts)

	id, err := f.container.MakeNewID(typ, p.id)
	if err != nil {
		return nil, err
	}
	n := notice.New(typ, id, p.flashable)
	if tpl, ok := f.extensions[typ]; ok {
		n.Configure(tpl.Settings().Overrides(), tpl.HeadingKey())
	} else {
		n.Configure(f.resolver.GetSettings(typ).Overrides(), f.resolver.HeadingKey(typ))
	}
	for _, apply := range p.apply {
		apply(n)
	}

	if _, err := f.container.Save(ctx, n); err != nil {
		return nil, err
	}
	f.logger.DebugContext(ctx, "notice made",
		logger.NoticeType(typ),
		logger.NoticeID(id),
		logger.Count(n.Count()),
	)
	return n, nil
}

// Get returns the notices of typ.
func (f *Factory) Get(typ string) ([]*notice.Notice, error) {
	if err := f.check(typ, "get"); err != nil {
		return nil, err
	}
	return f.container.Get(typ)
}

// GetIDs returns the notices of typ with the given ids. Missing ids are
// skipped.
func (f *Factory) GetIDs(typ string, ids ...notice.ID) ([]*notice.Notice, error) {
	if err := f.check(typ, "get"); err != nil {
		return nil, err
	}
	return f.container.GetIDs(typ, ids...)
}

// Find returns the notice at (typ, id) or container.ErrNoticeNotFound.
func (f *Factory) Find(typ string, id notice.ID) (*notice.Notice, error) {
	if err := f.check(typ, "find"); err != nil {
		return nil, err
	}
	return f.container.Find(typ, id)
}

// Has reports whether a notice exists at (typ, id).
//
// Has, HasAny and HasMessage answer false for types that are not allowed
// instead of failing; use IsAllowed to tell an unknown type from an empty one.
func (f *Factory) Has(typ string, id notice.ID) bool {
	return f.container.Has(typ, id)
}

// HasAny reports whether typ has any notice. Unknown types report false.
func (f *Factory) HasAny(typ string) bool {
	return f.container.HasAny(typ)
}

// HasMessage reports whether the notice at (typ, id) holds messages under key.
// Unknown types report false.
func (f *Factory) HasMessage(typ string, id notice.ID, key string) bool {
	return f.container.HasMessage(typ, id, key)
}

// Count returns the number of notices of types, or of all types.
func (f *Factory) Count(types ...string) (int, error) {
	if err := f.checkAll(types, "count"); err != nil {
		return 0, err
	}
	return f.container.Count(types...)
}

// MessageCount returns the number of messages of the notice at (typ, id).
func (f *Factory) MessageCount(typ string, id notice.ID) (int, error) {
	if err := f.check(typ, "count"); err != nil {
		return 0, err
	}
	return f.container.MessageCount(typ, id)
}

// All returns the notices of types, or of all types, in type then id order.
func (f *Factory) All(types ...string) ([]*notice.Notice, error) {
	if err := f.checkAll(types, "all"); err != nil {
		return nil, err
	}
	return f.container.All(types...)
}

// Export returns the notices of types, or of all types, grouped by type.
func (f *Factory) Export(types ...string) (container.Snapshot, error) {
	if err := f.checkAll(types, "export"); err != nil {
		return nil, err
	}
	return f.container.Export(types...)
}

// JSON encodes Export(types...).
func (f *Factory) JSON(types ...string) ([]byte, error) {
	snap, err := f.Export(types...)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snap)
}

// AddMessage appends a message to an existing notice and flashes it again.
// An empty key adds an untagged message.
func (f *Factory) AddMessage(ctx context.Context, typ string, id notice.ID, key, message string) (*notice.Notice, error) {
	if err := f.check(typ, "addMessage"); err != nil {
		return nil, err
	}
	n, err := f.container.Find(typ, id)
	if err != nil {
		return nil, err
	}
	n.AddKeyed(key, message)
	if err := f.container.Store(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddMessages merges grouped messages into an existing notice and flashes it
// again.
func (f *Factory) AddMessages(ctx context.Context, typ string, id notice.ID, messages map[string][]string) (*notice.Notice, error) {
	if err := f.check(typ, "addMessages"); err != nil {
		return nil, err
	}
	n, err := f.container.Find(typ, id)
	if err != nil {
		return nil, err
	}
	n.AddMessages(messages)
	if err := f.container.Store(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// Clear removes the given ids of typ, or the whole type, from memory and
// from the flashed snapshot.
func (f *Factory) Clear(ctx context.Context, typ string, ids ...notice.ID) error {
	if err := f.check(typ, "clear"); err != nil {
		return err
	}
	return f.container.Clear(ctx, typ, ids...)
}

// ClearAll empties types, or every type, in memory and in the flashed
// snapshot.
func (f *Factory) ClearAll(ctx context.Context, types ...string) error {
	if err := f.checkAll(types, "clearAll"); err != nil {
		return err
	}
	return f.container.ClearAll(ctx, types...)
}

// ClearStore removes types, or everything, from the flashed snapshot only.
func (f *Factory) ClearStore(ctx context.Context, types ...string) error {
	if err := f.checkAll(types, "clearStore"); err != nil {
		return err
	}
	return f.container.ClearStore(ctx, types...)
}

// ClearFromStore removes the given ids of typ, or the whole type, from the
// flashed snapshot only.
func (f *Factory) ClearFromStore(ctx context.Context, typ string, ids ...notice.ID) error {
	if err := f.check(typ, "clearStored"); err != nil {
		return err
	}
	return f.container.ClearFromStore(ctx, typ, ids...)
}

// Forget removes the given ids of typ, or the whole type, from memory only.
func (f *Factory) Forget(typ string, ids ...notice.ID) error {
	if err := f.check(typ, "forget"); err != nil {
		return err
	}
	return f.container.Forget(typ, ids...)
}

// allowedTypes returns the extended types, in sorted order, followed by the
// configured ones, without duplicates.
func (f *Factory) allowedTypes() []string {
	types := make([]string, 0, len(f.extensions))
	for typ := range f.extensions {
		types = append(types, typ)
	}
	slices.Sort(types)
	for _, typ := range f.resolver.DefaultTypes() {
		if !slices.Contains(types, typ) {
			types = append(types, typ)
		}
	}
	return types
}

func (f *Factory) check(typ, op string) error {
	if !f.Allowed(typ) {
		return invalidType(typ, op)
	}
	return nil
}

// checkAll checks explicit types. No types stands for every registered type,
// including ones adopted from the flashed snapshot.
func (f *Factory) checkAll(types []string, op string) error {
	for _, typ := range types {
		if err := f.check(typ, op); err != nil {
			return err
		}
	}
	return nil
}
