package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablesite/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/tablesite/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(nil, nil)

	require.NotNil(t, bar)
	assert.Equal(t, domain.SaveIdle, bar.SaveStatus())
	assert.Equal(t, 80, bar.Width())
	assert.Nil(t, bar.Init())
}

func TestBar_View_SaveStatus(t *testing.T) {
	tests := []struct {
		status   domain.SaveStatus
		expected string
	}{
		{domain.SaveIdle, "Ready"},
		{domain.SaveInProgress, "Saving..."},
		{domain.SaveSucceeded, "layout saved"},
		{domain.SaveCachedLocal, "changes not saved (kept in local cache)"},
		{domain.SaveFailed, "save failed"},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(200)
			bar.SetSaveStatus(tt.status)

			assert.Contains(t, bar.View(), tt.expected)
		})
	}
}

func TestBar_MessageOverridesStatus(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)
	bar.SetSaveStatus(domain.SaveSucceeded)

	bar.SetError("component not found")
	assert.True(t, bar.IsError())
	assert.Contains(t, bar.View(), "Error: component not found")
	assert.NotContains(t, bar.View(), "layout saved")

	bar.SetMessage("Added hero-2")
	assert.False(t, bar.IsError())
	assert.Contains(t, bar.View(), "Added hero-2")

	bar.ClearMessage()
	assert.Empty(t, bar.Message())
	assert.Contains(t, bar.View(), "layout saved")
}

func TestBar_Summary(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)

	bar.SetComponentCount(1)
	assert.Contains(t, bar.View(), "1 component")

	bar.SetComponentCount(3)
	bar.SetHistory(true, false)
	view := bar.View()
	assert.Contains(t, view, "3 components")
	assert.Contains(t, view, "undo")
}

func TestBar_HintsFollowView(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(300)

	bar.SetView(messages.ViewCanvas)
	assert.Contains(t, bar.View(), "a: add")

	bar.SetView(messages.ViewEditor)
	assert.Contains(t, bar.View(), "ctrl+s: apply")

	bar.SetView(messages.ViewHelp)
	assert.Contains(t, bar.View(), "?: help")
}
