package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects on the modeling server",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	api, err := ensureModelAPI()
	if err != nil {
		return err
	}

	projects, err := api.Projects(context.Background())
	if err != nil {
		return fmt.Errorf("listing projects: %w", err)
	}

	if len(projects) == 0 {
		cmd.Println("No projects visible.")
		return nil
	}

	for _, p := range projects {
		cmd.Printf("%-8s %s\n", p.ID, p.Name)
	}
	return nil
}
