// Package ids generates component and item identifiers.
package ids

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
)

// Ensure generators implement the interface.
var (
	_ driven.IDGenerator = (*UUID)(nil)
	_ driven.IDGenerator = (*Sequence)(nil)
)

// suffixLen is the number of hex characters kept from each UUID.
const suffixLen = 12

// UUID generates ids of the form "<prefix>-<12 hex chars>" from random UUIDs.
type UUID struct{}

// NewUUID creates a UUID generator.
func NewUUID() *UUID {
	return &UUID{}
}

// NewID implements driven.IDGenerator.
func (g *UUID) NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return join(prefix, hex[:suffixLen])
}

// Sequence generates predictable ids of the form "<prefix>-<n>", counting
// separately per prefix. Intended for tests and scripted demos.
type Sequence struct {
	mu   sync.Mutex
	next map[string]int
}

// NewSequence creates a sequence generator starting at 1 for every prefix.
func NewSequence() *Sequence {
	return &Sequence{next: make(map[string]int)}
}

// NewID implements driven.IDGenerator.
func (g *Sequence) NewID(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next[prefix]++
	return join(prefix, fmt.Sprint(g.next[prefix]))
}

func join(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + "-" + suffix
}
