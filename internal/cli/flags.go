// Package cli wires cobra commands onto Testament's core packages,
// following the teacher's cli/cli-commands split.
package cli

import "github.com/gleladze/testament/internal/config"

// Flags holds command-line flags populated by cobra before being folded
// into config.Config.
type Flags struct {
	TestPath    string
	Filter      string
	FailFast    bool
	OnlyFailed  bool
	NoTUI       bool
	GithubToken string
}

// ToConfigFlags converts CLI flags to config flags.
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		TestPath:    f.TestPath,
		Filter:      f.Filter,
		FailFast:    f.FailFast,
		OnlyFailed:  f.OnlyFailed,
		NoTUI:       f.NoTUI,
		GithubToken: f.GithubToken,
	}
}
