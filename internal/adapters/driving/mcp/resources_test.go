package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/margin/internal/core/domain"
)

func TestExtractPageIndex(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected int
		ok       bool
	}{
		{name: "first page", uri: "margin://pages/0", expected: 0, ok: true},
		{name: "later page", uri: "margin://pages/12", expected: 12, ok: true},
		{name: "invalid prefix", uri: "file://pages/1", ok: false},
		{name: "not a number", uri: "margin://pages/one", ok: false},
		{name: "negative", uri: "margin://pages/-1", ok: false},
		{name: "empty URI", uri: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, ok := extractPageIndex(tt.uri)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, page)
			}
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentResource(t *testing.T) {
	session := newMockSession(
		[]domain.Annotation{inkAnnotation("a"), textAnnotation("b", "x")},
		nil,
	)
	server, err := NewServer(&Ports{Session: session, Path: "/docs/report.margin"})
	require.NoError(t, err)

	result, err := server.handleDocumentResource(context.Background(), makeReadResourceRequest("margin://document"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var info struct {
		Path     string `json:"path"`
		Revision uint64 `json:"revision"`
		Pages    []struct {
			Index       int `json:"index"`
			Annotations int `json:"annotations"`
		} `json:"pages"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &info))
	assert.Equal(t, "/docs/report.margin", info.Path)
	assert.Equal(t, uint64(7), info.Revision)
	require.Len(t, info.Pages, 2)
	assert.Equal(t, 2, info.Pages[0].Annotations)
	assert.Equal(t, 0, info.Pages[1].Annotations)
}

func TestServer_handlePageResource(t *testing.T) {
	session := newMockSession([]domain.Annotation{textAnnotation("b", "hello")})
	server, err := NewServer(&Ports{Session: session})
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("returns page annotations", func(t *testing.T) {
		result, err := server.handlePageResource(ctx, makeReadResourceRequest("margin://pages/0"))

		require.NoError(t, err)
		var anns []AnnotationOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &anns))
		require.Len(t, anns, 1)
		assert.Equal(t, "hello", anns[0].Content)
	})

	t.Run("page beyond document is not found", func(t *testing.T) {
		_, err := server.handlePageResource(ctx, makeReadResourceRequest("margin://pages/4"))
		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handlePageResource(ctx, makeReadResourceRequest("margin://pages/x"))
		assert.Error(t, err)
	})
}
