package ahem

import "context"

type factoryKey struct{}

// WithFactory returns a copy of ctx carrying f.
func WithFactory(ctx context.Context, f *Factory) context.Context {
	return context.WithValue(ctx, factoryKey{}, f)
}

// FromContext returns the Factory stored by Provider.Middleware.
func FromContext(ctx context.Context) (*Factory, bool) {
	f, ok := ctx.Value(factoryKey{}).(*Factory)
	return f, ok && f != nil
}

// MustFromContext is FromContext that panics when no Factory is present.
func MustFromContext(ctx context.Context) *Factory {
	f, ok := FromContext(ctx)
	if !ok {
		panic("ahem: no notice factory in context")
	}
	return f
}
