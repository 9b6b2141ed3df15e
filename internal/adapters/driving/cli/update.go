package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsat-labs/satsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/services"
)

var updateDB string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Refresh a materialized document from the server",
	Long: `Regenerates a snapshot for the project and model recorded in a
materialized document and applies the incremental difference. The
document must have been created by a previous import.

Examples:
  satsync update
  satsync update --db model.db`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateDB, "db", "", "document database path (default ~/.satsync/data/document.db)")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	doc, err := sqlite.Open(updateDB)
	if err != nil {
		return err
	}
	defer doc.Close()

	ctx := context.Background()
	meta, err := doc.Meta(ctx)
	if errors.Is(err, domain.ErrNotMaterialized) {
		return errors.New("document was not imported yet, run 'satsync import' first")
	}
	if err != nil {
		return err
	}

	gen, err := ensureGenerator()
	if err != nil {
		return err
	}

	cmd.Printf("Updating model %s from project %s...\n", meta.ModelUUID, meta.ProjectID)
	res, err := gen.Generate(ctx, meta.ProjectID, meta.ModelUUID)
	if err != nil {
		return fmt.Errorf("regenerating snapshot: %w", err)
	}
	if res.Snapshot == nil {
		return fmt.Errorf("model %s no longer exists in project %s", meta.ModelUUID, meta.ProjectID)
	}

	reconciler := services.NewReconciler(meta.ProjectID)
	report, err := reconciler.Reconcile(ctx, doc, res.Snapshot)
	if err != nil {
		return fmt.Errorf("updating document: %w", err)
	}

	printReport(cmd, report)
	return nil
}
