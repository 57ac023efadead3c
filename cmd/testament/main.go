package main

import (
	"fmt"
	"os"

	"github.com/gleladze/testament/internal/cli"
	"github.com/gleladze/testament/internal/cli/commands"
	"github.com/gleladze/testament/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "testament",
		Short:   "Interactive terminal test runner for .NET",
		Long:    `Testament discovers a .NET workspace's test projects and runs dotnet test against them, with an interactive screen for browsing, filtering, and re-running tests as source files change.`,
		Version: version,
	}

	cfg := config.New()

	var flags cli.Flags

	cmds := commands.NewCommands(cfg)
	cmds.Register(rootCmd, &flags, cfg)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
