// Package markdown converts rendered pages to Markdown.
package markdown

import (
	"fmt"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.MarkdownConverter = (*Converter)(nil)

// Converter turns HTML into CommonMark.
type Converter struct {
	md     *converter.Converter
	domain string
}

// New creates a converter. Relative links are resolved against domain
// when it is non-empty.
func New(domain string) *Converter {
	return &Converter{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		domain: domain,
	}
}

// ConvertHTML implements driven.MarkdownConverter.
func (c *Converter) ConvertHTML(html string) (string, error) {
	var opts []converter.ConvertOptionFunc
	if c.domain != "" {
		opts = append(opts, converter.WithDomain(c.domain))
	}
	out, err := c.md.ConvertString(html, opts...)
	if err != nil {
		return "", fmt.Errorf("converting html to markdown: %w", err)
	}
	return out, nil
}
