package ahem

import (
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"
)

const (
	// DataStarAcceptHeader is the Accept header value that indicates a DataStar request
	DataStarAcceptHeader = "text/event-stream"

	// DataStarQueryParam is the query parameter used by DataStar for signals
	DataStarQueryParam = "datastar"
)

// IsDataStar checks if the request is a DataStar request.
func IsDataStar(r *http.Request) bool {
	if strings.Contains(r.Header.Get("Accept"), DataStarAcceptHeader) {
		return true
	}
	if r.URL.Query().Has(DataStarQueryParam) {
		return true
	}
	return strings.Contains(r.Header.Get("Content-Type"), "application/x-datastar")
}

// PatchNotices renders the notices of types, or of every type, into the
// element matched by selector over a DataStar SSE stream. Rendered notices
// are cleared before the stream starts, so header-bound backends such as
// cookies can still be written.
func PatchNotices(w http.ResponseWriter, r *http.Request, f *Factory, selector string, types ...string) error {
	html, err := f.RenderAll(r.Context(), types)
	if err != nil {
		return err
	}
	sse := datastar.NewSSE(w, r)
	return sse.PatchElementTempl(templ.Raw(html),
		datastar.WithSelector(selector),
		datastar.WithMode(datastar.ElementPatchModeInner),
	)
}
