package main

import (
	"github.com/spf13/cobra"

	"github.com/joshuapare/hotkit/hotload"
	"github.com/joshuapare/hotkit/host"
	"github.com/joshuapare/hotkit/internal/demo"
)

// Artifact and display flags shared by run, check and dumpconfig. They
// override the config file only when set on the command line.
var (
	artifactDir    string
	artifactName   string
	artifactAPI    string
	artifactPolicy string
	artifactLoader string
	artifactWatch  bool
	displayWidth   uint32
	displayHeight  uint32
	displayRefresh int
	displayFrames  uint64
)

// demoTag is the artifact contents that select the built-in demo under the
// static loader.
const demoTag = "demo"

func addArtifactFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&artifactDir, "dir", "", "Directory containing the artifact")
	cmd.Flags().StringVar(&artifactName, "name", "", "Artifact file name")
	cmd.Flags().StringVar(&artifactAPI, "api", "", "Entry point shape (split, tick)")
	cmd.Flags().
		StringVar(&artifactPolicy, "policy", "", "Reload failure policy (keep-last-good, drop-first)")
	cmd.Flags().StringVar(&artifactLoader, "loader", "", "Artifact loader (plugin, static)")
	cmd.Flags().BoolVar(&artifactWatch, "watch", false, "Check the artifact only after filesystem events")
}

func addDisplayFlags(cmd *cobra.Command) {
	cmd.Flags().Uint32Var(&displayWidth, "width", 0, "Framebuffer width")
	cmd.Flags().Uint32Var(&displayHeight, "height", 0, "Framebuffer height")
	cmd.Flags().IntVar(&displayRefresh, "refresh", 0, "Display refresh rate in Hz (loop runs at half)")
	cmd.Flags().Uint64Var(&displayFrames, "frames", 0, "Stop after this many iterations (0: run until quit)")
}

// effectiveConfig loads --config (or the defaults) and applies the flags
// set on cmd.
func effectiveConfig(cmd *cobra.Command) (host.Config, error) {
	cfg := host.DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = host.LoadConfig(configPath); err != nil {
			return host.Config{}, err
		}
	}

	flags := cmd.Flags()
	set := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}
	if set("dir") {
		cfg.Artifact.Dir = artifactDir
	}
	if set("name") {
		cfg.Artifact.Name = artifactName
	}
	if set("api") {
		cfg.Artifact.API = artifactAPI
	}
	if set("policy") {
		cfg.Artifact.Policy = artifactPolicy
	}
	if set("loader") {
		cfg.Artifact.Loader = artifactLoader
	}
	if set("watch") {
		cfg.Artifact.Watch = artifactWatch
	}
	if set("width") {
		cfg.Display.Width = displayWidth
	}
	if set("height") {
		cfg.Display.Height = displayHeight
	}
	if set("refresh") {
		cfg.Display.RefreshHz = displayRefresh
	}
	if set("frames") {
		cfg.Display.MaxFrames = displayFrames
	}
	return cfg, cfg.Validate()
}

// newLoader returns the loader cfg selects. The static loader knows the
// built-in demo under the tag "demo".
func newLoader(cfg host.Config) hotload.Loader {
	if cfg.Artifact.Loader == "static" {
		l := hotload.NewStaticLoader()
		l.Register(demoTag, demo.Build().Symbols())
		return l
	}
	return &hotload.PluginLoader{}
}
