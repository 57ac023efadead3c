package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// Flags holds command-line flags, populated by cobra and folded into Config.
type Flags struct {
	TestPath      string
	Filter        string
	FailFast      bool
	OnlyFailed    bool
	NoTUI         bool
	GithubToken   string
}

// Config holds all configuration for the application.
type Config struct {
	// StartPath is where the Workspace Locator begins its search.
	StartPath string
	// TestCLI is the external test CLI binary to invoke ("dotnet").
	TestCLI string
	// SkipDirs are directory names skipped during scans/walks.
	SkipDirs []string
	// WatchDebounce is the file-watch coalescing window.
	WatchDebounce time.Duration

	Flags Flags
}

// New creates a new Config with defaults. Loads a .env from the current
// directory if present (best-effort; a missing .env is not an error),
// following the teacher's migration.DatabaseManager pattern of optionally
// loading environment overrides before falling back to process env vars.
func New() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		StartPath:     DefaultStartPath,
		TestCLI:       DefaultTestCLI,
		WatchDebounce: DefaultWatchDebounce,
	}
	cfg.SkipDirs = make([]string, len(DefaultSkipDirs))
	copy(cfg.SkipDirs, DefaultSkipDirs)
	return cfg
}

// Load creates a config and applies flags.
func Load(flags Flags) *Config {
	cfg := New()
	cfg.Flags = flags
	if flags.TestPath != "" {
		cfg.StartPath = flags.TestPath
	}
	return cfg
}

// GithubToken resolves the token used for PR API calls: explicit flag, then
// GITHUB_TOKEN env var (possibly loaded from .env by New). It returns "" when
// neither is set; the "gh" CLI fallback is tried by pr.ResolveToken.
func (c *Config) GithubToken() string {
	if c.Flags.GithubToken != "" {
		return c.Flags.GithubToken
	}
	if tok := os.Getenv("GITHUB_TOKEN"); tok != "" {
		return tok
	}
	return ""
}

// AbsStartPath resolves StartPath to an absolute path.
func (c *Config) AbsStartPath() (string, error) {
	return filepath.Abs(c.StartPath)
}
