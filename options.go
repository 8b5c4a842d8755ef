package ahem

import (
	"log/slog"

	"github.com/codenest/ahem/pkg/messagebag"
	"github.com/codenest/ahem/pkg/notice"
)

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the logger for factory events.
func WithLogger(l *slog.Logger) Option {
	return func(f *Factory) {
		if l != nil {
			f.logger = l
		}
	}
}

// WithExtension registers a custom type before the container boots, so
// notices of that type flashed by the previous request are adopted like
// configured ones. See Factory.Extend.
func WithExtension(typ string, configure func(*notice.Notice)) Option {
	return func(f *Factory) {
		f.pending = append(f.pending, extension{typ: typ, configure: configure})
	}
}

type extension struct {
	typ       string
	configure func(*notice.Notice)
}

// MakeOption configures a notice created by Factory.Make.
type MakeOption func(*makeParams)

type makeParams struct {
	id        notice.ID
	flashable bool
	apply     []func(*notice.Notice)
}

func newMakeParams(opts []MakeOption) makeParams {
	p := makeParams{flashable: true}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithID sets an explicit id. Without it the next free numeric id is used.
func WithID(id notice.ID) MakeOption {
	return func(p *makeParams) {
		p.id = id
	}
}

// WithMessage adds an untagged message.
func WithMessage(message string) MakeOption {
	return func(p *makeParams) {
		p.apply = append(p.apply, func(n *notice.Notice) { n.AddMessage(message) })
	}
}

// WithKeyedMessage adds a message under key.
func WithKeyedMessage(key, message string) MakeOption {
	return func(p *makeParams) {
		p.apply = append(p.apply, func(n *notice.Notice) { n.AddKeyed(key, message) })
	}
}

// WithMessages merges grouped messages. A value under the notice heading key
// becomes the heading.
func WithMessages(messages map[string][]string) MakeOption {
	return func(p *makeParams) {
		p.apply = append(p.apply, func(n *notice.Notice) { n.AddMessages(messages) })
	}
}

// WithBag merges the messages and heading of bag.
func WithBag(bag *messagebag.Bag) MakeOption {
	return func(p *makeParams) {
		p.apply = append(p.apply, func(n *notice.Notice) { n.AddBag(bag) })
	}
}

// WithHeading sets the heading.
func WithHeading(heading string) MakeOption {
	return func(p *makeParams) {
		p.apply = append(p.apply, func(n *notice.Notice) { n.SetHeading(heading) })
	}
}

// NotFlashable keeps the notice in the current request only.
func NotFlashable() MakeOption {
	return func(p *makeParams) {
		p.flashable = false
	}
}

// RenderOption configures a render call.
type RenderOption func(*renderParams)

type renderParams struct {
	ids       []notice.ID
	attrs     map[string]string
	itemAttrs map[string]map[string]string
}

func newRenderParams(opts []RenderOption) renderParams {
	var p renderParams
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// attrsFor returns the attributes registered for item, falling back to the
// flat attributes.
func (p renderParams) attrsFor(item string) map[string]string {
	if attrs := p.itemAttrs[item]; len(attrs) > 0 {
		return attrs
	}
	return p.attrs
}

// WithIDs limits Render to the given ids, in that order.
func WithIDs(ids ...notice.ID) RenderOption {
	return func(p *renderParams) {
		p.ids = append(p.ids, ids...)
	}
}

// WithAttrs sets wrapper attributes applied to every rendered notice.
func WithAttrs(attrs map[string]string) RenderOption {
	return func(p *renderParams) {
		p.attrs = attrs
	}
}

// WithItemAttrs sets wrapper attributes per item: keyed by notice id for
// Render and by type for RenderAll. Items without an entry use WithAttrs.
func WithItemAttrs(attrs map[string]map[string]string) RenderOption {
	return func(p *renderParams) {
		p.itemAttrs = attrs
	}
}
