// Package mcp provides an MCP (Model Context Protocol) server adapter for Margin.
// It lets AI assistants inspect a document's annotations and drive its
// editing session: add notes, undo and redo.
package mcp

import "errors"

// ErrMissingSession is returned when the editing session is not provided.
var ErrMissingSession = errors.New("mcp: editing session is required")
