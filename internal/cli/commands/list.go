package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gleladze/testament/internal/config"
)

// ListCommand discovers a workspace and prints its tree without running
// anything, in the teacher's color-coded output style (formatter.go).
type ListCommand struct {
	config *config.Config
}

// Execute runs the "list" subcommand.
func (c *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	projects, err := discoverAll(ctx, c.config)
	if err != nil {
		return err
	}

	filter := strings.ToLower(c.config.Flags.Filter)

	totalClasses, totalTests := 0, 0
	for _, p := range projects {
		if p.LoadError != "" {
			color.Red("%s (error: %s)", p.Name, p.LoadError)
			continue
		}

		color.Cyan(p.Name)
		for _, cls := range p.Classes {
			var shown []string
			for _, t := range cls.Tests {
				if !t.MatchesFilter(filter) {
					continue
				}
				shown = append(shown, t.DisplayName)
			}
			if len(shown) == 0 {
				continue
			}
			fmt.Printf("  %s\n", cls.FullName)
			for _, name := range shown {
				fmt.Printf("    %s\n", name)
			}
			totalClasses++
			totalTests += len(shown)
		}
	}

	if totalTests == 0 {
		color.Yellow("No tests found")
		return nil
	}

	color.Cyan("\n%d classes, %d tests", totalClasses, totalTests)
	return nil
}
