package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wireworld/internal/level"
	"wireworld/internal/sims/wireworld"
	"wireworld/internal/verify"
	"wireworld/levels"
)

func newVerifyCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "verify [path...]",
		Short: "Run levels headlessly with their paired solution files",
		Long: `Run every level headlessly. Each argument is a .level file or a
directory of them; a NAME.solution file next to NAME.level is painted onto the
grid first. Without arguments the configured levels directory is used, or the
embedded levels when none is configured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := verify.Options{MaxTicks: a.cfg.Verify.MaxTicks, Logger: a.logger}

			var results []verify.Result
			var err error
			if len(args) == 0 && a.cfg.Levels == "" {
				results, err = verifyEmbedded(ctx, opts)
			} else {
				if len(args) == 0 {
					args = []string{a.cfg.Levels}
				}
				var paths []string
				paths, err = expand(args)
				if err != nil {
					return err
				}
				results, err = verify.All(ctx, paths, a.cfg.Verify.Workers, opts)
			}
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), results, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}

// expand replaces directories with the level files they hold.
func expand(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		found, err := verify.Glob(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func verifyEmbedded(ctx context.Context, opts verify.Options) ([]verify.Result, error) {
	c, err := levels.Catalog()
	if err != nil {
		return nil, err
	}
	results := make([]verify.Result, 0, len(c.Levels))
	for _, e := range c.Levels {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := verify.Result{Level: e.File, Failed: -1}
		desc, err := levels.Load(e.File)
		if err != nil {
			res.Err = err
			results = append(results, res)
			continue
		}
		var solution []wireworld.Cell
		if text, ok := levels.Solution(e.File); ok {
			if solution, err = level.ParseGrid(text, desc.Size); err != nil {
				res.Err = fmt.Errorf("%s: %w", e.File, err)
				results = append(results, res)
				continue
			}
		}
		res, err = verify.Run(ctx, desc, solution, opts)
		res.Level = e.File
		res.Err = err
		results = append(results, res)
	}
	return results, nil
}

type jsonResult struct {
	verify.Result
	Error string `json:"error,omitempty"`
}

func report(w io.Writer, results []verify.Result, asJSON bool) error {
	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
		}
	}
	if asJSON {
		out := make([]jsonResult, len(results))
		for i, r := range results {
			out[i] = jsonResult{Result: r, Error: r.Error()}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			fmt.Fprintln(w, describe(r))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d levels failed", failed, len(results))
	}
	return nil
}

func describe(r verify.Result) string {
	name := r.Level
	if r.Path != "" {
		name = filepath.Base(r.Path)
	}
	switch {
	case r.Err != nil:
		return fmt.Sprintf("ERROR %s: %v", name, r.Err)
	case r.Passed:
		return fmt.Sprintf("PASS  %s: %d/%d exercises in %d ticks", name, r.Completed, r.Exercises, r.Ticks)
	default:
		return fmt.Sprintf("FAIL  %s: exercise %d of %d failed after %d ticks", name, r.Failed+1, r.Exercises, r.Ticks)
	}
}
