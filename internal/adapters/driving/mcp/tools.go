package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// KindsInput is the input schema for the list_kinds tool.
type KindsInput struct{}

// KindsOutput is the output schema for the list_kinds tool.
type KindsOutput struct {
	Kinds []KindOutput `json:"kinds"`
}

// KindOutput describes one component kind.
type KindOutput struct {
	Kind        string `json:"kind"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// LayoutInput is the input schema for the get_layout tool.
type LayoutInput struct{}

// LayoutOutput is the working layout of the edit session.
type LayoutOutput struct {
	RestaurantID string            `json:"restaurant_id"`
	Components   []ComponentOutput `json:"components"`
	SelectedID   string            `json:"selected_id,omitempty"`
	CanUndo      bool              `json:"can_undo"`
	CanRedo      bool              `json:"can_redo"`
	SaveStatus   string            `json:"save_status"`
}

// ComponentOutput represents a single component.
type ComponentOutput struct {
	ID      string         `json:"id"`
	Type    string         `json:"type"`
	Visible bool           `json:"visible"`
	Config  map[string]any `json:"config"`
}

// AddInput is the input schema for the add_component tool.
type AddInput struct {
	Kind string `json:"kind" jsonschema:"component kind, as returned by list_kinds"`
}

// AddOutput is the output schema for the add_component tool.
type AddOutput struct {
	Component ComponentOutput `json:"component"`
	Layout    LayoutOutput    `json:"layout"`
}

// MoveInput is the input schema for the move_component tool.
type MoveInput struct {
	ID     string `json:"id" jsonschema:"id of the component to move"`
	Target string `json:"target" jsonschema:"id of the component whose position it takes"`
}

// DeleteInput is the input schema for the delete_component tool.
type DeleteInput struct {
	ID string `json:"id" jsonschema:"id of the component to delete"`
}

// EditInput is the input schema for the edit_component tool.
type EditInput struct {
	ID      string         `json:"id" jsonschema:"id of the component to edit"`
	Config  map[string]any `json:"config,omitempty" jsonschema:"partial config merged into the component; lists replace"`
	Visible *bool          `json:"visible,omitempty" jsonschema:"set visibility"`
}

// EditOutput is the output schema for the edit_component tool.
type EditOutput struct {
	Changed bool         `json:"changed"`
	Layout  LayoutOutput `json:"layout"`
}

// VisibilityInput is the input schema for the set_visibility tool.
type VisibilityInput struct {
	ID      string `json:"id" jsonschema:"id of the component"`
	Visible bool   `json:"visible" jsonschema:"true to show, false to hide"`
}

// HistoryInput is the input schema for the undo and redo tools.
type HistoryInput struct{}

// HistoryOutput is the output schema for the undo and redo tools.
type HistoryOutput struct {
	Changed bool         `json:"changed"`
	Layout  LayoutOutput `json:"layout"`
}

// SaveInput is the input schema for the save_layout tool.
type SaveInput struct{}

// SaveOutput is the output schema for the save_layout tool.
type SaveOutput struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	Remote        bool   `json:"remote"`
	CachedLocally bool   `json:"cached_locally"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_kinds",
		Description: "List the component kinds that can be added to the page",
	}, s.handleListKinds)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_layout",
		Description: "Show the page layout being edited",
	}, s.handleGetLayout)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_component",
		Description: "Append a component with its default content",
	}, s.handleAdd)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "move_component",
		Description: "Move a component to the position of another component",
	}, s.handleMove)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_component",
		Description: "Remove a component from the page",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "edit_component",
		Description: "Change a component's content or visibility",
	}, s.handleEdit)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_visibility",
		Description: "Show or hide a component without removing it",
	}, s.handleSetVisibility)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "undo",
		Description: "Undo the last change",
	}, s.handleUndo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "redo",
		Description: "Redo the last undone change",
	}, s.handleRedo)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "save_layout",
		Description: "Save the layout to the backend, keeping a local copy",
	}, s.handleSave)
}

// handleListKinds handles the list_kinds tool invocation.
func (s *Server) handleListKinds(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ KindsInput,
) (*mcp.CallToolResult, KindsOutput, error) {
	kinds := s.ports.Registry.Kinds()
	output := KindsOutput{Kinds: make([]KindOutput, len(kinds))}
	for i, k := range kinds {
		output.Kinds[i] = KindOutput{
			Kind:        k.Kind.String(),
			Label:       k.Label,
			Description: k.Description,
		}
	}
	return nil, output, nil
}

// handleGetLayout handles the get_layout tool invocation.
func (s *Server) handleGetLayout(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ LayoutInput,
) (*mcp.CallToolResult, LayoutOutput, error) {
	var output LayoutOutput
	err := s.withBuilder(ctx, func(b driving.BuilderService) error {
		var err error
		output, err = layoutOutput(b)
		return err
	})
	return nil, output, err
}

// handleAdd handles the add_component tool invocation.
func (s *Server) handleAdd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddInput,
) (*mcp.CallToolResult, AddOutput, error) {
	var output AddOutput
	err := s.withBuilder(ctx, func(b driving.BuilderService) error {
		c, err := b.AddComponent(domain.Kind(input.Kind))
		if err != nil {
			return err
		}
		if output.Component, err = componentOutput(c); err != nil {
			return err
		}
		output.Layout, err = layoutOutput(b)
		return err
	})
	return nil, output, err
}

// handleMove handles the move_component tool invocation.
func (s *Server) handleMove(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MoveInput,
) (*mcp.CallToolResult, LayoutOutput, error) {
	return s.mutate(ctx, func(b driving.BuilderService) error {
		return b.MoveComponent(input.ID, input.Target)
	})
}

// handleDelete handles the delete_component tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, LayoutOutput, error) {
	return s.mutate(ctx, func(b driving.BuilderService) error {
		return b.DeleteComponent(input.ID)
	})
}

// handleEdit handles the edit_component tool invocation. An edit with no
// config and no visibility is rejected rather than opening an editor.
func (s *Server) handleEdit(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input EditInput,
) (*mcp.CallToolResult, EditOutput, error) {
	patch := domain.Patch{Config: input.Config, Visible: input.Visible}
	if patch.IsEmpty() {
		return nil, EditOutput{}, fmt.Errorf("%w: nothing to change", domain.ErrInvalidPatch)
	}

	var output EditOutput
	err := s.withBuilder(ctx, func(b driving.BuilderService) error {
		res, err := b.EditComponent(input.ID, patch)
		if err != nil {
			return err
		}
		output.Changed = res.Changed
		output.Layout, err = layoutOutput(b)
		return err
	})
	return nil, output, err
}

// handleSetVisibility handles the set_visibility tool invocation.
func (s *Server) handleSetVisibility(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input VisibilityInput,
) (*mcp.CallToolResult, LayoutOutput, error) {
	return s.mutate(ctx, func(b driving.BuilderService) error {
		return b.SetVisibility(input.ID, input.Visible)
	})
}

// handleUndo handles the undo tool invocation.
func (s *Server) handleUndo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	return s.step(ctx, driving.BuilderService.Undo)
}

// handleRedo handles the redo tool invocation.
func (s *Server) handleRedo(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	return s.step(ctx, driving.BuilderService.Redo)
}

// handleSave handles the save_layout tool invocation. A save that only
// reached the local cache is reported in the output, not as an error.
func (s *Server) handleSave(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ SaveInput,
) (*mcp.CallToolResult, SaveOutput, error) {
	var output SaveOutput
	err := s.withBuilder(ctx, func(b driving.BuilderService) error {
		res, err := b.Save(ctx)
		status := res.Status()
		output = SaveOutput{
			Status:        string(status),
			Message:       status.Message(),
			Remote:        res.Remote,
			CachedLocally: res.CachedLocally,
		}
		if err != nil && !res.CachedLocally {
			return err
		}
		return nil
	})
	return nil, output, err
}

func (s *Server) mutate(
	ctx context.Context,
	fn func(driving.BuilderService) error,
) (*mcp.CallToolResult, LayoutOutput, error) {
	var output LayoutOutput
	err := s.withBuilder(ctx, func(b driving.BuilderService) error {
		if err := fn(b); err != nil {
			return err
		}
		var err error
		output, err = layoutOutput(b)
		return err
	})
	return nil, output, err
}

func (s *Server) step(
	ctx context.Context,
	fn func(driving.BuilderService) bool,
) (*mcp.CallToolResult, HistoryOutput, error) {
	var output HistoryOutput
	err := s.withBuilder(ctx, func(b driving.BuilderService) error {
		output.Changed = fn(b)
		var err error
		output.Layout, err = layoutOutput(b)
		return err
	})
	return nil, output, err
}

func layoutOutput(b driving.BuilderService) (LayoutOutput, error) {
	components := b.Layout().Components()
	output := LayoutOutput{
		RestaurantID: b.RestaurantKey(),
		Components:   make([]ComponentOutput, len(components)),
		SelectedID:   b.SelectedID(),
		CanUndo:      b.CanUndo(),
		CanRedo:      b.CanRedo(),
		SaveStatus:   string(b.SaveStatus()),
	}
	for i, c := range components {
		out, err := componentOutput(c)
		if err != nil {
			return LayoutOutput{}, err
		}
		output.Components[i] = out
	}
	return output, nil
}

func componentOutput(c domain.Component) (ComponentOutput, error) {
	cfg := map[string]any{}
	if c.Config != nil {
		raw, err := json.Marshal(c.Config)
		if err != nil {
			return ComponentOutput{}, fmt.Errorf("marshalling config of %s: %w", c.ID, err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return ComponentOutput{}, fmt.Errorf("decoding config of %s: %w", c.ID, err)
		}
	}
	return ComponentOutput{
		ID:      c.ID,
		Type:    c.Kind.String(),
		Visible: c.Visible,
		Config:  cfg,
	}, nil
}
