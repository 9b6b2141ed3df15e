// Package mcp provides an MCP (Model Context Protocol) server adapter for
// satsync. It lets AI assistants browse projects and generate resolved
// product snapshots over the same core services the CLI uses.
package mcp

import "errors"

// ErrMissingGenerator is returned when the generator service is not provided.
var ErrMissingGenerator = errors.New("mcp: generator service is required")

// ErrMissingModelAPI is returned when the model API client is not provided.
var ErrMissingModelAPI = errors.New("mcp: model API client is required")
