package settings

import (
	"maps"
	"slices"

	"github.com/codenest/ahem/pkg/notice"
)

const (
	// DefaultSettingsType is the reserved pseudo-type holding library-wide
	// defaults. It is never reported as a notice type.
	DefaultSettingsType = "default_settings"

	// DefaultStoreKey is the flash key used when none is configured.
	DefaultStoreKey = "ahem_notifications"

	// DefaultHeadingKey is the message key diverted into the heading when
	// none is configured.
	DefaultHeadingKey = "notification_heading"
)

// Resolver resolves the rendering settings of notice types by overlaying
// type overrides onto the library defaults.
//
// A Resolver is immutable once built and safe for concurrent use.
type Resolver struct {
	storeKey    string
	headingKey  string
	defaults    notice.Settings
	types       []string
	overrides   map[string]notice.Overrides
	headingKeys map[string]string
}

// Option configures a Resolver built with New.
type Option func(*Resolver)

// WithStoreKey sets the flash key notices are persisted under.
func WithStoreKey(key string) Option {
	return func(r *Resolver) {
		if key != "" {
			r.storeKey = key
		}
	}
}

// WithHeadingKey sets the default heading key for every type.
func WithHeadingKey(key string) Option {
	return func(r *Resolver) {
		if key != "" {
			r.headingKey = key
		}
	}
}

// WithDefaults replaces the library-wide default settings.
func WithDefaults(s notice.Settings) Option {
	return func(r *Resolver) {
		r.defaults = s
	}
}

// WithType declares a notice type with its overrides. Declaring a type twice
// keeps its position and replaces the overrides.
func WithType(name string, o notice.Overrides) Option {
	return func(r *Resolver) {
		r.addType(name, o)
	}
}

// WithTypeHeadingKey sets a heading key for one type.
func WithTypeHeadingKey(name, key string) Option {
	return func(r *Resolver) {
		if key != "" {
			r.headingKeys[name] = key
		}
	}
}

// New creates a Resolver with no declared types and empty defaults.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		storeKey:    DefaultStoreKey,
		headingKey:  DefaultHeadingKey,
		overrides:   make(map[string]notice.Overrides),
		headingKeys: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// With returns a copy of r with opts applied.
func (r *Resolver) With(opts ...Option) *Resolver {
	c := &Resolver{
		storeKey:    r.storeKey,
		headingKey:  r.headingKey,
		defaults:    r.defaults,
		types:       slices.Clone(r.types),
		overrides:   maps.Clone(r.overrides),
		headingKeys: maps.Clone(r.headingKeys),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSettings returns the defaults overlaid with typ's overrides.
// Unknown types resolve to the defaults.
func (r *Resolver) GetSettings(typ string) notice.Settings {
	return r.defaults.Overlay(r.overrides[typ])
}

// DefaultSettings returns the library-wide defaults.
func (r *Resolver) DefaultSettings() notice.Settings {
	return r.defaults
}

// DefaultTypes returns the declared types in declaration order.
func (r *Resolver) DefaultTypes() []string {
	return slices.Clone(r.types)
}

// HasType reports whether typ is declared.
func (r *Resolver) HasType(typ string) bool {
	_, ok := r.overrides[typ]
	return ok
}

// StoreKey returns the flash key notices are persisted under.
func (r *Resolver) StoreKey() string {
	return r.storeKey
}

// HeadingKey returns the heading key for typ.
func (r *Resolver) HeadingKey(typ string) string {
	if key, ok := r.headingKeys[typ]; ok {
		return key
	}
	return r.headingKey
}

func (r *Resolver) addType(name string, o notice.Overrides) {
	if name == "" || name == DefaultSettingsType {
		return
	}
	if _, ok := r.overrides[name]; !ok {
		r.types = append(r.types, name)
	}
	r.overrides[name] = o
}
