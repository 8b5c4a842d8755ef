package ahem

import (
	"context"
	"strings"

	"github.com/codenest/ahem/pkg/logger"
	"github.com/codenest/ahem/pkg/notice"
)

// Render renders the notices of typ, or only those selected with WithIDs,
// and then clears them from memory and from the flashed snapshot.
// WithItemAttrs entries are looked up by notice id.
func (f *Factory) Render(ctx context.Context, typ string, opts ...RenderOption) (string, error) {
	return f.render(ctx, typ, true, opts)
}

// RenderAndKeep is Render without clearing.
func (f *Factory) RenderAndKeep(ctx context.Context, typ string, opts ...RenderOption) (string, error) {
	return f.render(ctx, typ, false, opts)
}

// RenderAll renders the notices of types, or of every registered type when
// types is empty, and then clears those types. WithItemAttrs entries are
// looked up by type. WithIDs is ignored.
func (f *Factory) RenderAll(ctx context.Context, types []string, opts ...RenderOption) (string, error) {
	return f.renderAll(ctx, types, true, opts)
}

// RenderAllAndKeep is RenderAll without clearing.
func (f *Factory) RenderAllAndKeep(ctx context.Context, types []string, opts ...RenderOption) (string, error) {
	return f.renderAll(ctx, types, false, opts)
}

func (f *Factory) render(ctx context.Context, typ string, purge bool, opts []RenderOption) (string, error) {
	if err := f.check(typ, "render"); err != nil {
		return "", err
	}
	p := newRenderParams(opts)

	var (
		notices []*notice.Notice
		err     error
	)
	if len(p.ids) > 0 {
		notices, err = f.container.GetIDs(typ, p.ids...)
	} else {
		notices, err = f.container.Get(typ)
	}
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range notices {
		b.WriteString(n.Render(p.attrsFor(n.ID().String())))
	}

	if purge {
		if err := f.container.Clear(ctx, typ, p.ids...); err != nil {
			return "", err
		}
	}
	f.logger.DebugContext(ctx, "notices rendered",
		logger.NoticeType(typ),
		logger.Count(len(notices)),
	)
	return b.String(), nil
}

func (f *Factory) renderAll(ctx context.Context, types []string, purge bool, opts []RenderOption) (string, error) {
	if err := f.checkAll(types, "renderAll"); err != nil {
		return "", err
	}
	p := newRenderParams(opts)

	notices, err := f.container.All(types...)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, n := range notices {
		b.WriteString(n.Render(p.attrsFor(n.Type())))
	}

	if purge {
		if err := f.container.ClearAll(ctx, types...); err != nil {
			return "", err
		}
	}
	f.logger.DebugContext(ctx, "notices rendered",
		logger.NoticeTypes(types),
		logger.Count(len(notices)),
	)
	return b.String(), nil
}
