package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/hotkit/hotload"
	"github.com/joshuapare/hotkit/host"
	"github.com/joshuapare/hotkit/internal/logger"
	"github.com/joshuapare/hotkit/state"
)

func init() {
	rootCmd.AddCommand(newCheckCmd())
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Load an artifact once and report whether its entry points resolve",
		Long: `The check command performs one reload against a scratch state block and
reports whether the artifact would be accepted. It distinguishes artifacts
that fail to load from artifacts with missing or mistyped entry points.

Example:
  hotreload check --dir build --name game.so
  hotreload check --api tick --name game.so --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig(cmd)
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), cfg)
		},
	}
	addArtifactFlags(cmd)
	return cmd
}

type checkResult struct {
	Artifact string   `json:"artifact"`
	API      string   `json:"api"`
	Valid    bool     `json:"valid"`
	Symbols  []string `json:"symbols"`
	Failure  string   `json:"failure,omitempty"` // "artifact" or "symbol"
	Symbol   string   `json:"symbol,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func runCheck(ctx context.Context, cfg host.Config) error {
	api, err := hotload.ParseAPI(cfg.Artifact.API)
	if err != nil {
		return err
	}
	mem, err := state.New(cfg.Memory.StateSize)
	if err != nil {
		return err
	}
	defer mem.Release()

	r, err := hotload.NewReloader(hotload.Options{
		Dir:    cfg.Artifact.Dir,
		Name:   cfg.Artifact.Name,
		API:    api,
		Loader: newLoader(cfg),
		Logger: logger.L,
	}, mem)
	if err != nil {
		return err
	}
	defer r.Close()

	canonical, _ := r.Paths()
	res := checkResult{Artifact: canonical, API: api.String(), Symbols: api.Required()}
	_, loadErr := r.Poll(ctx)
	res.Valid = r.Active().Valid()

	var le *hotload.LoadError
	if errors.As(loadErr, &le) {
		res.Error = le.Err.Error()
		res.Symbol = le.Symbol
		switch {
		case errors.Is(le, hotload.ErrSymbolResolution):
			res.Failure = "symbol"
		case errors.Is(le, hotload.ErrArtifactLoad):
			res.Failure = "artifact"
		}
	} else if loadErr != nil {
		return loadErr
	}

	if jsonOut {
		if err := printJSON(res); err != nil {
			return err
		}
	} else if res.Valid {
		printInfo("%s %s: %s API resolved (%s)\n", okMark("✓"), canonical, res.API, strings.Join(res.Symbols, ", "))
	} else {
		printInfo("%s %s: %s\n", failMark("✗"), canonical, loadErr)
	}

	if !res.Valid {
		return fmt.Errorf("artifact rejected: %s failure", res.Failure)
	}
	return nil
}
