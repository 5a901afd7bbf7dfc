package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hotkit/hotload"
)

// Set with -ldflags "-X main.version=..." at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
	Target  string `json:"target"`

	// Plugins reports whether this build can open plugin artifacts.
	Plugins bool `json:"plugins"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
		Go:      runtime.Version(),
		Target:  runtime.GOOS + "/" + runtime.GOARCH,
		Plugins: hotload.PluginsSupported,
	}
}

func (b buildInfo) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "hotreload %s\n", b.Version)
	fmt.Fprintf(&sb, "  commit: %s (%s)\n", b.Commit, b.Date)
	fmt.Fprintf(&sb, "  go: %s %s\n", b.Go, b.Target)
	fmt.Fprintf(&sb, "  plugins: %t\n", b.Plugins)
	return sb.String()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(currentBuild().String())
}

func runVersion() error {
	b := currentBuild()
	if jsonOut {
		return printJSON(b)
	}
	fmt.Print(b.String())
	return nil
}
