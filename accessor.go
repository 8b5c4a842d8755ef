package ahem

import (
	"context"

	"github.com/codenest/ahem/pkg/notice"
)

// Accessor binds the Factory operations to one type.
//
//	f.For("success").Make(ctx, ahem.WithMessage("Saved"))
//	html, err := f.For("success").Render(ctx)
type Accessor struct {
	typ string
	f   *Factory
}

// For returns the accessor of typ. Accessors of types that are not allowed
// fail every operation with ErrInvalidNotificationType.
func (f *Factory) For(typ string) *Accessor {
	if a, ok := f.accessors[typ]; ok {
		return a
	}
	return &Accessor{typ: typ, f: f}
}

// Accessors returns the accessors of the allowed types in registration order.
func (f *Factory) Accessors() []*Accessor {
	out := make([]*Accessor, 0, len(f.accessors))
	for _, typ := range f.container.Types() {
		if a, ok := f.accessors[typ]; ok {
			out = append(out, a)
		}
	}
	return out
}

func (f *Factory) register(typ string) {
	if _, ok := f.accessors[typ]; !ok {
		f.accessors[typ] = &Accessor{typ: typ, f: f}
	}
}

// Type returns the bound type.
func (a *Accessor) Type() string { return a.typ }

func (a *Accessor) Make(ctx context.Context, opts ...MakeOption) (*notice.Notice, error) {
	return a.f.Make(ctx, a.typ, opts...)
}

func (a *Accessor) Get() ([]*notice.Notice, error) {
	return a.f.Get(a.typ)
}

func (a *Accessor) Find(id notice.ID) (*notice.Notice, error) {
	return a.f.Find(a.typ, id)
}

func (a *Accessor) Has(id notice.ID) bool {
	return a.f.Has(a.typ, id)
}

func (a *Accessor) HasAny() bool {
	return a.f.HasAny(a.typ)
}

func (a *Accessor) HasMessage(id notice.ID, key string) bool {
	return a.f.HasMessage(a.typ, id, key)
}

// Count returns the number of notices of the type.
func (a *Accessor) Count() (int, error) {
	return a.f.Count(a.typ)
}

// AddTo appends a message to the notice with id.
func (a *Accessor) AddTo(ctx context.Context, id notice.ID, key, message string) (*notice.Notice, error) {
	return a.f.AddMessage(ctx, a.typ, id, key, message)
}

func (a *Accessor) Render(ctx context.Context, opts ...RenderOption) (string, error) {
	return a.f.Render(ctx, a.typ, opts...)
}

func (a *Accessor) RenderAndKeep(ctx context.Context, opts ...RenderOption) (string, error) {
	return a.f.RenderAndKeep(ctx, a.typ, opts...)
}

func (a *Accessor) Clear(ctx context.Context, ids ...notice.ID) error {
	return a.f.Clear(ctx, a.typ, ids...)
}

// ClearStored removes notices of the type from the flashed snapshot only.
func (a *Accessor) ClearStored(ctx context.Context, ids ...notice.ID) error {
	return a.f.ClearFromStore(ctx, a.typ, ids...)
}
