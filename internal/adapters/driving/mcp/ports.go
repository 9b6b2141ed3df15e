package mcp

import (
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driving"
)

// Ports aggregates the services the MCP server exposes. This provides a
// single injection point for dependency injection.
type Ports struct {
	// Generator produces resolved snapshots.
	Generator driving.Generator

	// ModelAPI lists projects on the modeling server.
	ModelAPI driven.ModelAPI
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Generator == nil {
		return ErrMissingGenerator
	}
	if p.ModelAPI == nil {
		return ErrMissingModelAPI
	}
	return nil
}
