package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for Margin resources.
	uriScheme = "margin://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "document",
		Name:        "document",
		Description: "Summary of the open document: backing path, pages and annotation counts",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "pages/{page}",
		Name:        "page-annotations",
		Description: "Annotations of a single page, bottom to top",
		MIMEType:    "application/json",
	}, s.handlePageResource)
}

// handleDocumentResource summarises the document.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	snap, err := s.ports.Session.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("taking snapshot: %w", err)
	}

	type pageInfo struct {
		Index       int     `json:"index"`
		Width       float64 `json:"width"`
		Height      float64 `json:"height"`
		Annotations int     `json:"annotations"`
	}
	info := struct {
		Path     string     `json:"path,omitempty"`
		Revision uint64     `json:"revision"`
		Pages    []pageInfo `json:"pages"`
	}{
		Path:     s.ports.Path,
		Revision: snap.Revision,
		Pages:    make([]pageInfo, len(snap.Pages)),
	}
	for i, p := range snap.Pages {
		info.Pages[i] = pageInfo{
			Index:       i,
			Width:       p.Size.Width,
			Height:      p.Size.Height,
			Annotations: len(p.Annotations),
		}
	}

	return jsonResult(req.Params.URI, info, "document")
}

// handlePageResource returns the annotations of one page.
func (s *Server) handlePageResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	page, ok := extractPageIndex(req.Params.URI)
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	count, err := s.ports.Session.PageCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting pages: %w", err)
	}
	if page >= count {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	anns, err := s.ports.Session.Query(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("querying page %d: %w", page, err)
	}
	out := make([]AnnotationOutput, len(anns))
	for i := range anns {
		out[i] = toAnnotationOutput(page, anns[i])
	}

	return jsonResult(req.Params.URI, out, "annotations")
}

func jsonResult(uri string, v any, what string) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", what, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPageIndex extracts the page index from a URI like margin://pages/{page}.
func extractPageIndex(uri string) (int, bool) {
	const prefix = uriScheme + "pages/"

	if !strings.HasPrefix(uri, prefix) {
		return 0, false
	}

	page, err := strconv.Atoi(strings.TrimPrefix(uri, prefix))
	if err != nil || page < 0 {
		return 0, false
	}
	return page, true
}
