package config

import "time"

const (
	// DefaultStartPath is the default path the workspace locator starts from.
	DefaultStartPath = "."
	// DefaultTestCLI is the external test CLI binary name (the "dotnet" in "dotnet test").
	DefaultTestCLI = "dotnet"
	// DefaultWatchDebounce is the file-watch coalescing window (§4.7).
	DefaultWatchDebounce = 500 * time.Millisecond
	// DefaultCachePrefix names the discovery cache files under the OS temp dir.
	DefaultCachePrefix = "testament_discovery_"
	// DefaultResultsPrefix names the per-run structured-results XML files.
	DefaultResultsPrefix = "testament_"
)

// DefaultSkipDirs are directory names the Locator, Source Indexer, and
// build-artifact scan always skip.
var DefaultSkipDirs = []string{"bin", "obj"}
