// Package version reports build information
package version

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Rules   int    `json:"rules_version"`
}

// Set via -ldflags "-X 'filterdetect/internal/core/version.version=v0.1.0'
// -X 'filterdetect/internal/core/version.commit=abcd' -X 'filterdetect/internal/core/version.date=2026-10-01'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service; rules is the loaded rule pack version
func Info(service string, rules int) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
		Rules:   rules,
	}
}

// Version is the bare version string
func Version() string { return version }
