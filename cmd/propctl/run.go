// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/observability"
	"github.com/holomush/propcore/internal/script"
	"github.com/holomush/propcore/pkg/errutil"
)

type runOptions struct {
	exprs   []string
	scripts []string
	pattern string
	metrics bool
}

// NewRunCmd creates the run subcommand.
func NewRunCmd() *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Build a collection, apply edits and print the result",
		Long: `Build the collection defined in FILE, apply each --script file and then
each -e statement list in order, and print the resulting property values.

Statements:
  set NAME = VALUE    assign a value (numbers, "strings", true/false, (x, y))
  lock NAME           make a property read-only
  unlock NAME         make a property writable
  reset NAME          restore a property's default value`,
		Example: `  propctl run shadow.yaml -e 'set Enabled = true; set Radius = 12'
  propctl run shadow.yaml --script edits.pcs --select 'Blur.*' -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.exprs, "exec", "e", nil, "statements to apply (repeatable)")
	cmd.Flags().StringArrayVar(&opts.scripts, "script", nil, "script file to apply (repeatable)")
	cmd.Flags().StringVar(&opts.pattern, "select", "*", "glob selecting the properties to print")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "also print engine metrics")

	return cmd
}

func runRun(cmd *cobra.Command, path string, opts runOptions) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	reg := observability.NewRegistry(false)

	c, err := loadCollection(cfg, logger, path)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			errutil.LogError(logger, "close collection", err)
		}
	}()

	if err := applyEdits(c, opts); err != nil {
		errutil.LogError(logger, "edit failed", err)
		return err
	}

	props, err := c.Match(opts.pattern)
	if err != nil {
		return err
	}
	states := stateOf(props)

	out := cmd.OutOrStdout()
	if cfg.Output.Format == "json" {
		result := map[string]any{"properties": states}
		if opts.metrics {
			samples, err := observability.Samples(reg)
			if err != nil {
				return err
			}
			result["metrics"] = samples
		}
		return writeJSON(out, result)
	}

	if err := writeTable(out, states); err != nil {
		return oops.Wrapf(err, "write table")
	}
	if opts.metrics {
		fmt.Fprintln(out)
		return observability.WriteText(out, reg)
	}
	return nil
}

func applyEdits(c *collection.Collection, opts runOptions) error {
	for _, path := range opts.scripts {
		text, err := readScript(path)
		if err != nil {
			return err
		}
		if err := script.Run(c, path, text); err != nil {
			return err
		}
	}
	for i, expr := range opts.exprs {
		if err := script.Run(c, fmt.Sprintf("-e #%d", i+1), expr); err != nil {
			return err
		}
	}
	return nil
}

func readScript(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", oops.Wrapf(err, "read script from stdin")
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", oops.With("path", path).Wrapf(err, "read script")
	}
	return string(data), nil
}
