package cmd

import (
	"runtime"

	"github.com/deepself/deepself-cli/internal/version"
)

// VersionCmd shows version information
type VersionCmd struct{}

type versionResult struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	Go        string `json:"go"`
	Platform  string `json:"platform"`
}

// Run executes the version command
func (c *VersionCmd) Run(ctx *Context) error {
	info := versionResult{
		Version:   version.Version,
		GitCommit: version.GitCommit,
		BuildDate: version.BuildDate,
		Go:        runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if ctx.Out.Quiet() && !ctx.Out.Machine() {
		ctx.Out.Line("%s", version.Short())
		return nil
	}
	return ctx.Out.Result(info, func() {
		ctx.Out.Line("%s", version.String())
	})
}
