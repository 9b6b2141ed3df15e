package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

// ListProjectsOutput is the output schema for the list_projects tool.
type ListProjectsOutput struct {
	Projects []ProjectOutput `json:"projects"`
	Count    int             `json:"count"`
}

// ProjectOutput represents a single project.
type ProjectOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GenerateInput is the input schema for the generate_snapshot tool.
type GenerateInput struct {
	ProjectID string `json:"project_id" jsonschema:"the project to crawl"`
	ModelID   string `json:"model_id,omitempty" jsonschema:"explicit root model id, required when the project has several root models"`
}

// GenerateOutput is the output schema for the generate_snapshot tool.
type GenerateOutput struct {
	// Snapshot is the resolved products tree and parts list; nil when a
	// model choice is required first.
	Snapshot *domain.Snapshot `json:"snapshot,omitempty"`

	// Models lists the eligible root models when a choice is required.
	Models []domain.ModelChoice `json:"models,omitempty"`

	NeedsSelection bool `json:"needs_selection"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_projects",
		Description: "List the projects visible on the modeling server",
	}, s.handleListProjects)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_snapshot",
		Description: "Crawl a project and resolve it into a products tree with part definitions",
	}, s.handleGenerate)
}

// handleListProjects handles the list_projects tool invocation.
func (s *Server) handleListProjects(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, ListProjectsOutput, error) {
	projects, err := s.ports.ModelAPI.Projects(ctx)
	if err != nil {
		return nil, ListProjectsOutput{}, err
	}

	output := ListProjectsOutput{
		Projects: make([]ProjectOutput, len(projects)),
		Count:    len(projects),
	}
	for i, p := range projects {
		output.Projects[i] = ProjectOutput{ID: p.ID.String(), Name: p.Name}
	}
	return nil, output, nil
}

// handleGenerate handles the generate_snapshot tool invocation.
func (s *Server) handleGenerate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, GenerateOutput, error) {
	res, err := s.ports.Generator.Generate(ctx, input.ProjectID, input.ModelID)
	if err != nil {
		return nil, GenerateOutput{}, err
	}

	return nil, GenerateOutput{
		Snapshot:       res.Snapshot,
		Models:         res.Models,
		NeedsSelection: res.NeedsSelection(),
	}, nil
}
