package ahem

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Component renders the notices of types, or of every type, as a templ
// component and clears them once written.
//
//	templ Layout() {
//		<div id="notices">@ahem.MustFromContext(ctx).Component()</div>
//	}
func (f *Factory) Component(types ...string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		html, err := f.RenderAll(ctx, types)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	})
}
