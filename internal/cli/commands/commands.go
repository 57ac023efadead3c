// Package commands implements Testament's cobra subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/gleladze/testament/internal/cli"
	"github.com/gleladze/testament/internal/config"
)

// Commands holds all CLI commands.
type Commands struct {
	Run  *RunCommand
	List *ListCommand
	PR   *PRCommand
}

// NewCommands creates all commands bound to cfg.
func NewCommands(cfg *config.Config) *Commands {
	return &Commands{
		Run:  &RunCommand{config: cfg},
		List: &ListCommand{config: cfg},
		PR:   &PRCommand{config: cfg},
	}
}

// Register registers all commands with cobra, following the teacher's
// Commands.Register shape (flag binding in PreRunE, one cobra.Command per
// subcommand).
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Discover and run .NET tests interactively",
		Long:  "Launch the interactive test runner, or run headlessly with --no-tui.",
		RunE:  c.Run.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Flags = flags.ToConfigFlags()
			return nil
		},
	}
	runCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to start workspace discovery from")
	runCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only run tests whose display name contains this substring")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop a headless run on the first test failure")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Not applied: no results are kept between invocations, so all tests run (headless mode prints a warning)")
	runCmd.Flags().BoolVar(&flags.NoTUI, "no-tui", false, "Run headlessly instead of opening the interactive screen")
	rootCmd.AddCommand(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered tests without running them",
		RunE:  c.List.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Flags = flags.ToConfigFlags()
			return nil
		},
	}
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to start workspace discovery from")
	listCmd.Flags().StringVarP(&flags.Filter, "filter", "f", "", "Only list tests whose display name contains this substring")
	rootCmd.AddCommand(listCmd)

	prCmd := &cobra.Command{
		Use:   "pr <github-pr-url>",
		Short: "Run only the tests changed by a GitHub pull request",
		Args:  cobra.ExactArgs(1),
		RunE:  c.PR.Execute,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			cfg.Flags = flags.ToConfigFlags()
			return nil
		},
	}
	prCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to start workspace discovery from")
	prCmd.Flags().BoolVar(&flags.NoTUI, "no-tui", false, "Run headlessly instead of opening the interactive screen")
	prCmd.Flags().StringVar(&flags.GithubToken, "github-token", "", "GitHub API token (defaults to GITHUB_TOKEN, then gh auth token)")
	rootCmd.AddCommand(prCmd)
}
