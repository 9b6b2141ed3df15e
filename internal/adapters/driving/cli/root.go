// Package cli implements the satsync command-line interface.
package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vsat-labs/satsync-cli/internal/adapters/driven/config/file"
	storagefile "github.com/vsat-labs/satsync-cli/internal/adapters/driven/storage/file"
	"github.com/vsat-labs/satsync-cli/internal/adapters/driven/vsat"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driving"
	"github.com/vsat-labs/satsync-cli/internal/core/services"
	"github.com/vsat-labs/satsync-cli/internal/logger"
)

// version is the CLI version, overridable at build time via ldflags.
var version = "0.2.0"

// Services used by the commands. Wired lazily in ensureServices and
// swappable in tests.
var (
	configStore   driven.ConfigStore
	modelAPI      driven.ModelAPI
	generator     driving.Generator
	snapshotStore driven.SnapshotStore
)

// Persistent flags.
var (
	flagConfigDir string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "satsync",
	Short: "Sync satellite product trees from a modeling server",
	Long: `satsync crawls a satellite data-modeling server, resolves entity and
category inheritance into a products tree with reusable part definitions,
and keeps a materialized local document in sync with the server through
incremental updates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.satsync)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureConfigStore opens the config store on first use.
func ensureConfigStore() (driven.ConfigStore, error) {
	if configStore != nil {
		return configStore, nil
	}
	store, err := file.NewConfigStore(flagConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config store: %w", err)
	}
	configStore = store
	return configStore, nil
}

// ensureModelAPI builds the API client from stored credentials.
func ensureModelAPI() (driven.ModelAPI, error) {
	if modelAPI != nil {
		return modelAPI, nil
	}
	store, err := ensureConfigStore()
	if err != nil {
		return nil, err
	}

	serverURL := store.GetString(driven.ConfigServerURL)
	if serverURL == "" {
		return nil, errors.New("no server configured, run 'satsync login' first")
	}
	modelAPI = vsat.NewClient(vsat.Config{
		BaseURL:  serverURL,
		Username: store.GetString(driven.ConfigUsername),
		Password: store.GetString(driven.ConfigPassword),
	})
	return modelAPI, nil
}

// ensureGenerator wires the snapshot generator.
func ensureGenerator() (driving.Generator, error) {
	if generator != nil {
		return generator, nil
	}
	api, err := ensureModelAPI()
	if err != nil {
		return nil, err
	}
	generator = services.NewGenerator(api)
	return generator, nil
}

// ensureSnapshotStore opens the snapshot store on first use.
func ensureSnapshotStore() (driven.SnapshotStore, error) {
	if snapshotStore != nil {
		return snapshotStore, nil
	}
	store, err := storagefile.NewSnapshotStore("")
	if err != nil {
		return nil, fmt.Errorf("opening snapshot store: %w", err)
	}
	snapshotStore = store
	return snapshotStore, nil
}

// defaultProjectID resolves the project id from a flag value or the
// configured default.
func defaultProjectID(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	store, err := ensureConfigStore()
	if err != nil {
		return "", err
	}
	if id := store.GetString(driven.ConfigProjectID); id != "" {
		return id, nil
	}
	return "", errors.New("no project selected, pass --project or set a default with 'satsync login'")
}
