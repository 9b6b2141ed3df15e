package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vsat-labs/satsync-cli/internal/adapters/driven/vsat"
	"github.com/vsat-labs/satsync-cli/internal/core/ports/driven"
)

var (
	loginServer   string
	loginUsername string
	loginPassword string
	loginProject  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store modeling server credentials",
	Long: `Validates credentials against a modeling server and stores them in the
satsync configuration.

The password is prompted interactively unless --password is given.
Optionally stores a default project for later generate/update runs.

Examples:
  satsync login --server http://127.0.0.1:8000 --username admin
  satsync login --server http://127.0.0.1:8000 --username admin --project 4`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginServer, "server", "", "modeling server base URL")
	loginCmd.Flags().StringVar(&loginUsername, "username", "", "username")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")
	loginCmd.Flags().StringVar(&loginProject, "project", "", "default project id")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	store, err := ensureConfigStore()
	if err != nil {
		return err
	}

	server := loginServer
	if server == "" {
		server = store.GetString(driven.ConfigServerURL)
	}
	if server == "" {
		return fmt.Errorf("no server given, pass --server")
	}

	username := loginUsername
	if username == "" {
		username = store.GetString(driven.ConfigUsername)
	}
	if username == "" {
		return fmt.Errorf("no username given, pass --username")
	}

	password := loginPassword
	if password == "" {
		cmd.Printf("Password for %s@%s: ", username, server)
		password = readPassword()
		cmd.Println()
	}
	if password == "" {
		return fmt.Errorf("empty password")
	}

	// Validate before persisting anything.
	client := vsat.NewClient(vsat.Config{BaseURL: server, Username: username, Password: password})
	projects, err := client.Projects(context.Background())
	if err != nil {
		return fmt.Errorf("validating credentials: %w", err)
	}

	if err := store.Set(driven.ConfigServerURL, server); err != nil {
		return err
	}
	if err := store.Set(driven.ConfigUsername, username); err != nil {
		return err
	}
	if err := store.Set(driven.ConfigPassword, password); err != nil {
		return err
	}
	if loginProject != "" {
		if err := store.Set(driven.ConfigProjectID, loginProject); err != nil {
			return err
		}
	}

	// Later commands pick up the fresh credentials.
	modelAPI = client

	cmd.Printf("Logged in to %s (%d projects visible).\n", server, len(projects))
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Read without echo when stdin is a terminal.
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
