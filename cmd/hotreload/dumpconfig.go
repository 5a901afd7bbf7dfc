package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hotkit/host"
)

func init() {
	rootCmd.AddCommand(newDumpconfigCmd())
}

func newDumpconfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dumpconfig",
		Short: "Print the effective configuration as TOML",
		Long: `The dumpconfig command merges --config with the flags given and prints
the result, ready to be saved as a configuration file.

Example:
  hotreload dumpconfig --dir build --policy drop-first > hotreload.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(cmd)
			if err != nil {
				return err
			}
			return runDumpconfig(cfg)
		},
	}
	addArtifactFlags(cmd)
	addDisplayFlags(cmd)
	return cmd
}

func runDumpconfig(cfg host.Config) error {
	if jsonOut {
		return printJSON(cfg)
	}
	return cfg.WriteTOML(os.Stdout)
}
