package driven

import "github.com/custodia-labs/tablesite/internal/core/domain"

// DefaultPageProvider supplies the page shown when no layout is stored.
type DefaultPageProvider interface {
	// DefaultPage returns a fresh copy of the default layout.
	DefaultPage() (domain.Layout, error)
}

// TextSanitizer cleans text typed into inline editors.
type TextSanitizer interface {
	// Sanitize strips markup from s and returns plain text.
	Sanitize(s string) string
}

// MarkdownConverter converts rendered HTML into Markdown.
type MarkdownConverter interface {
	// ConvertHTML returns the Markdown form of an HTML document.
	ConvertHTML(html string) (string, error)
}

// IDGenerator produces identifiers for components and nested items.
type IDGenerator interface {
	// NewID returns a fresh id starting with prefix and a dash.
	NewID(prefix string) string
}
