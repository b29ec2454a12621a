package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/urfave/cli/v3"
)

var (
	// Version is the release version (set via -ldflags).
	Version = ""
	// Commit is the git commit hash (set via -ldflags).
	Commit = ""
)

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func resolveVersion() versionInfo {
	info := versionInfo{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" {
			info.Version = bi.Main.Version
		}
		if info.Commit == "" {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" {
					info.Commit = s.Value
				}
			}
		}
	}
	if info.Version == "" {
		info.Version = "(devel)"
	}
	return info
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: commonFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := resolveVersion()
			return stdoutReport(info, func(w io.Writer) {
				_, _ = fmt.Fprintf(w, "version:  %s\n", info.Version)
				if info.Commit != "" {
					_, _ = fmt.Fprintf(w, "commit:   %s\n", info.Commit)
				}
				_, _ = fmt.Fprintf(w, "go:       %s\n", info.GoVersion)
				_, _ = fmt.Fprintf(w, "platform: %s\n", info.Platform)
			})
		},
	}
}
