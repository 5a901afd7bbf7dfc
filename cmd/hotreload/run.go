package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hotkit/host"
	"github.com/joshuapare/hotkit/internal/demo"
	"github.com/joshuapare/hotkit/internal/logger"
)

var runScript string

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the reload loop",
		Long: `The run command allocates the persistent state block, loads the artifact,
and iterates until a quit event, Ctrl-C, or the frame limit. Rebuilding the
artifact while it runs swaps the code in place.

The window is headless: input comes from an optional script of the form
"<frame> down|up <key>" or "<frame> quit".

Example:
  hotreload run --dir build --name game.so
  hotreload run --api tick --watch --dir . --name game.so
  echo demo > demo.art && hotreload run --loader static --name demo.art --frames 120`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runRun(ctx, cfg)
		},
	}
	addArtifactFlags(cmd)
	addDisplayFlags(cmd)
	cmd.Flags().StringVar(&runScript, "script", "", "Scripted input events for the headless platform")
	return cmd
}

type runReport struct {
	Stats host.Stats  `json:"stats"`
	World *demo.World `json:"world,omitempty"`
}

func runRun(ctx context.Context, cfg host.Config) error {
	closer, err := initLogging(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	var script host.Script
	if runScript != "" {
		f, err := os.Open(runScript)
		if err != nil {
			return fmt.Errorf("failed to open script: %w", err)
		}
		script, err = host.ParseScript(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to parse script: %w", err)
		}
	}

	platform := host.NewHeadless(cfg.Display.Width, cfg.Display.Height, cfg.Display.RefreshHz, script)
	loop, err := host.New(host.Options{
		Config:   cfg,
		Platform: platform,
		Loader:   newLoader(cfg),
		Logger:   logger.L,
	})
	if err != nil {
		return fmt.Errorf("failed to start host: %w", err)
	}
	defer loop.Close()

	canonical, _ := loop.Reloader().Paths()
	printVerbose("Running %s (api=%s, policy=%s)\n", canonical, cfg.Artifact.API, cfg.Artifact.Policy)

	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	report := runReport{Stats: loop.Stats()}
	if cfg.Artifact.Loader == "static" {
		if w, err := demo.WorldOf(loop.Memory()); err == nil {
			report.World = w
		}
	}

	if jsonOut {
		return printJSON(report)
	}

	st := report.Stats
	printInfo("\n%s %s\n", label("Artifact:"), canonical)
	printInfo("  Iterations:     %d\n", st.Iterations)
	printInfo("  Reloads:        %d\n", st.Reloads)
	if st.FailedReloads > 0 {
		printInfo("  Failed reloads: %s\n", failMark(st.FailedReloads))
	} else {
		printInfo("  Failed reloads: %s\n", okMark(0))
	}
	printInfo("  Skipped ticks:  %d\n", st.SkippedTicks)
	printInfo("  Missed frames:  %d\n", st.MissedFrames)
	if w := report.World; w != nil {
		printInfo("\n%s\n", label("Demo world:"))
		printInfo("  Position: %d,%d\n", w.X, w.Y)
		printInfo("  Frames:   %d\n", w.Frames)
		printInfo("  Presses:  %v\n", w.Presses)
	}
	return nil
}
