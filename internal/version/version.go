// Package version exposes build metadata for the clerkd daemon.
package version

import "fmt"

// Set at build time via -ldflags; the defaults cover plain `go build`.
var (
	Name      = "clerkd"
	Version   = "0.1.0"
	BuildTime = ""
	GitCommit = ""
)

// Info is the version payload served by the API.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	BuildTime string `json:"buildTime,omitempty"`
	GitCommit string `json:"gitCommit,omitempty"`
}

// GetInfo returns the current build metadata.
func GetInfo() Info {
	return Info{
		Name:      Name,
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	}
}

// String formats the info as a one-line startup banner.
func (i Info) String() string {
	s := fmt.Sprintf("%s v%s", i.Name, i.Version)
	if i.GitCommit != "" {
		s += fmt.Sprintf(" (%s)", i.GitCommit[:min(7, len(i.GitCommit))])
	}
	if i.BuildTime != "" {
		s += fmt.Sprintf(" built %s", i.BuildTime)
	}
	return s
}
