package ids

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUID_NewID_Format(t *testing.T) {
	g := NewUUID()
	pattern := regexp.MustCompile(`^hero-[0-9a-f]{12}$`)

	id := g.NewID("hero")

	assert.Regexp(t, pattern, id)
}

func TestUUID_NewID_Unique(t *testing.T) {
	g := NewUUID()
	seen := make(map[string]bool)
	for range 1000 {
		id := g.NewID("btn")
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestUUID_NewID_NoPrefix(t *testing.T) {
	id := NewUUID().NewID("")
	assert.Len(t, id, 12)
}

func TestSequence_NewID(t *testing.T) {
	g := NewSequence()

	assert.Equal(t, "hero-1", g.NewID("hero"))
	assert.Equal(t, "hero-2", g.NewID("hero"))
	assert.Equal(t, "btn-1", g.NewID("btn"))
	assert.Equal(t, "hero-3", g.NewID("hero"))
}
