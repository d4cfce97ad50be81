package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablesite/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestHandleLayoutResource(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, err := env.server.handleAdd(ctx, nil, AddInput{Kind: "menu_section"})
	require.NoError(t, err)

	result, err := env.server.handleLayoutResource(ctx, readRequest(layoutURI))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, layoutURI, result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var snapshot domain.Snapshot
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &snapshot))
	require.Len(t, snapshot.Components, 2)
	assert.Equal(t, domain.KindMenuSection, snapshot.Components[1].Kind)
}

func TestHandlePreviewResource(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.server.handlePreviewResource(context.Background(), readRequest(previewURI))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "text/markdown", result.Contents[0].MIMEType)
	assert.Equal(t, "# Welcome to our kitchen", result.Contents[0].Text)
}

func TestHandlePreviewResource_RenderError(t *testing.T) {
	env := newTestEnv(t)
	renderErr := errors.New("no converter")
	env.server.ports.Render = &mockRender{err: renderErr}

	_, err := env.server.handlePreviewResource(context.Background(), readRequest(previewURI))

	assert.ErrorIs(t, err, renderErr)
}
