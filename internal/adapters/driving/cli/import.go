package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/vsat-labs/satsync-cli/internal/adapters/driven/storage/sqlite"
	"github.com/vsat-labs/satsync-cli/internal/core/domain"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
	"github.com/vsat-labs/satsync-cli/internal/core/services"
	"github.com/vsat-labs/satsync-cli/internal/logger"
)

var (
	importDB      string
	importProject string
	importWatch   bool
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot.json>",
	Short: "Materialize a snapshot into a local document",
	Long: `Reads a generated snapshot and reconciles a local document database
against it: missing nodes are added, stale ones removed, changed ones
updated and moved. Importing the same snapshot twice is a no-op.

With --watch the command keeps running and re-imports whenever the
snapshot file changes, which suits a workflow where generate runs
repeatedly against a live server.

Examples:
  satsync import satellite.json
  satsync import satellite.json --db model.db --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importDB, "db", "", "document database path (default ~/.satsync/data/document.db)")
	importCmd.Flags().StringVarP(&importProject, "project", "p", "", "project id recorded in the document")
	importCmd.Flags().BoolVarP(&importWatch, "watch", "w", false, "re-import when the snapshot file changes")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	snapshotPath := args[0]

	doc, err := sqlite.Open(importDB)
	if err != nil {
		return err
	}
	defer doc.Close()

	ctx := context.Background()
	if err := importSnapshot(ctx, cmd, doc, snapshotPath); err != nil {
		return err
	}

	if !importWatch {
		return nil
	}
	return watchSnapshot(ctx, cmd, doc, snapshotPath)
}

// importSnapshot loads and reconciles one snapshot file.
func importSnapshot(ctx context.Context, cmd *cobra.Command, doc driven.ProductDocument, path string) error {
	store, err := ensureSnapshotStore()
	if err != nil {
		return err
	}

	snap, err := store.Load(ctx, path)
	if err != nil {
		return err
	}

	reconciler := services.NewReconciler(importProject)
	report, err := reconciler.Reconcile(ctx, doc, snap)
	if err != nil {
		return fmt.Errorf("importing snapshot: %w", err)
	}

	printReport(cmd, report)
	return nil
}

// watchSnapshot blocks and re-imports on every change to the file.
// Editors and atomic renames produce bursts of events, so changes are
// debounced before re-importing.
func watchSnapshot(ctx context.Context, cmd *cobra.Command, doc driven.ProductDocument, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: rename-over-destination drops a watch placed
	// on the file itself.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for changes (ctrl-c to stop).\n", path)

	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("snapshot changed (%s), scheduling re-import", event.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			if err := importSnapshot(ctx, cmd, doc, path); err != nil {
				// Half-written files are expected mid-save; keep watching.
				logger.Warn("re-import failed: %v", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func printReport(cmd *cobra.Command, report *domain.ReconcileReport) {
	switch {
	case report.UpToDate:
		cmd.Println("Document is already up to date.")
	case report.Empty():
		cmd.Println("Document matches the snapshot, nothing to apply.")
	default:
		cmd.Printf("Applied %d additions, %d updates, %d moves, %d removals.\n",
			report.Added, report.Updated, report.Moved, report.Removed)
	}
}
