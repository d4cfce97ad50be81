package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

const (
	// uriScheme is the custom URI scheme for tablesite resources.
	uriScheme = "tablesite://"

	layoutURI  = uriScheme + "layout"
	previewURI = uriScheme + "layout/preview"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         layoutURI,
		Name:        "layout",
		Description: "The layout being edited, in its saved JSON form",
		MIMEType:    "application/json",
	}, s.handleLayoutResource)

	if s.ports.Render != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         previewURI,
			Name:        "layout-preview",
			Description: "The visible page rendered as Markdown",
			MIMEType:    "text/markdown",
		}, s.handlePreviewResource)
	}
}

// handleLayoutResource returns the working layout as a snapshot.
func (s *Server) handleLayoutResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var data []byte
	err := s.withBuilder(ctx, func(b driving.BuilderService) error {
		var err error
		data, err = json.MarshalIndent(domain.Snapshot{Components: b.Layout().Components()}, "", "  ")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reading layout: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePreviewResource renders the working layout.
func (s *Server) handlePreviewResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	var text string
	err := s.withBuilder(ctx, func(b driving.BuilderService) error {
		var err error
		text, err = s.ports.Render.RenderMarkdown(b.Layout())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("rendering preview: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     text,
		}},
	}, nil
}
