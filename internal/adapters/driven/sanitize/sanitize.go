// Package sanitize strips markup from user-entered text.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
)

// Ensure Sanitizer implements the interface.
var _ driven.TextSanitizer = (*Sanitizer)(nil)

// Sanitizer removes every HTML element, keeping only text content.
// The result is HTML-escaped, as bluemonday always escapes its output.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New creates a sanitizer using bluemonday's strict policy.
func New() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize implements driven.TextSanitizer.
func (s *Sanitizer) Sanitize(text string) string {
	return s.policy.Sanitize(text)
}
