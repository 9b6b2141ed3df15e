package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsat-labs/satsync-cli/internal/adapters/driving/tui/modelpicker"
	"github.com/vsat-labs/satsync-cli/internal/core/domain"
)

var (
	generateProject     string
	generateModel       string
	generateOutput      string
	generateInteractive bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a resolved snapshot from a project",
	Long: `Crawls a project on the modeling server, resolves entity and category
inheritance, and writes the resulting products tree and parts list as a
JSON snapshot.

When the project contains several root models the eligible candidates are
listed; pick one with --model, or use --interactive for a terminal picker.

Examples:
  satsync generate --project 4
  satsync generate --project 4 --model 17 --output satellite.json
  satsync generate --project 4 --interactive`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateProject, "project", "p", "", "project id (defaults to the configured project)")
	generateCmd.Flags().StringVarP(&generateModel, "model", "m", "", "root model id")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "output file (defaults to the snapshot store)")
	generateCmd.Flags().BoolVarP(&generateInteractive, "interactive", "i", false, "pick the model interactively when several exist")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	projectID, err := defaultProjectID(generateProject)
	if err != nil {
		if !generateInteractive {
			return err
		}
		projectID, err = pickProject()
		if err != nil {
			return err
		}
	}
	ctx := context.Background()
	snap, err := generateSnapshot(ctx, cmd, projectID, generateModel, generateInteractive)
	if err != nil {
		return err
	}
	if snap == nil {
		// Candidates were printed; nothing to write.
		return nil
	}

	path, err := writeSnapshot(ctx, projectID, snap)
	if err != nil {
		return err
	}

	nodes := 0
	snap.Products.Walk(func(_, _ *domain.ProductNode) { nodes++ })
	cmd.Printf("Generated %s (%d nodes, %d parts).\n", path, nodes, len(snap.Parts))
	return nil
}

// generateSnapshot runs the two-phase selection protocol. A nil snapshot
// with nil error means candidates were listed and the caller should stop.
func generateSnapshot(ctx context.Context, cmd *cobra.Command, projectID, modelID string, interactive bool) (*domain.Snapshot, error) {
	gen, err := ensureGenerator()
	if err != nil {
		return nil, err
	}

	res, err := gen.Generate(ctx, projectID, modelID)
	if err != nil {
		return nil, fmt.Errorf("generating snapshot: %w", err)
	}
	if !res.NeedsSelection() {
		return res.Snapshot, nil
	}

	if interactive {
		choice, err := modelpicker.Pick("Select a model", res.Models)
		if err != nil {
			return nil, err
		}
		res, err = gen.Generate(ctx, projectID, choice.ID)
		if err != nil {
			return nil, fmt.Errorf("generating snapshot: %w", err)
		}
		return res.Snapshot, nil
	}

	cmd.Printf("Project %s has %d root models, pick one with --model:\n", projectID, len(res.Models))
	for _, m := range res.Models {
		cmd.Printf("  %-8s %s (%s)\n", m.ID, m.Name, m.Type)
	}
	return nil, nil
}

// pickProject lists the server's projects in an interactive picker.
func pickProject() (string, error) {
	api, err := ensureModelAPI()
	if err != nil {
		return "", err
	}
	projects, err := api.Projects(context.Background())
	if err != nil {
		return "", fmt.Errorf("listing projects: %w", err)
	}

	choices := make([]domain.ModelChoice, len(projects))
	for i, p := range projects {
		choices[i] = domain.ModelChoice{ID: p.ID.String(), Name: p.Name}
	}
	choice, err := modelpicker.Pick("Select a project", choices)
	if err != nil {
		return "", err
	}
	return choice.ID, nil
}

func writeSnapshot(ctx context.Context, projectID string, snap *domain.Snapshot) (string, error) {
	store, err := ensureSnapshotStore()
	if err != nil {
		return "", err
	}
	if generateOutput != "" {
		if err := store.SaveTo(ctx, generateOutput, snap); err != nil {
			return "", err
		}
		return generateOutput, nil
	}
	return store.Save(ctx, projectID, snap)
}
