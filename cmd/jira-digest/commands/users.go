package commands

import (
	"fmt"

	"jira-digest/internal/jira"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users [project]",
	Short: "List the members of a project's roles",
	Long:  `Prints "name | id | email" for everyone in the project's roles, a starting point for the roster and the USER_INCLUDE/USER_EXCLUDE filters.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		project := cfg.ProjectKey
		if len(args) == 1 {
			project = args[0]
		}
		if project == "" {
			return fmt.Errorf("missing project key: pass it as an argument or set JIRA_PROJECT_KEY")
		}

		users := jira.ListProjectUsers(cmd.Context(), jiraClient, project, cfg.Concurrency)
		out := cmd.OutOrStdout()
		for _, u := range users {
			fmt.Fprintf(out, "%s | %s | %s\n", u.Name, u.ID, u.Email)
		}
		if len(users) == 0 {
			fmt.Fprintln(out, "No users found.")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
