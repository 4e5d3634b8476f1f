// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/propcore/internal/definition"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check definition files",
		Long: `Validate each definition file against the schema, check its format
version, and build it to catch rule configuration errors.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			failed := 0
			for _, path := range args {
				c, err := loadCollection(cfg, logger, path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d properties, %d rules)\n", path, c.Len(), len(c.Rules()))
				if err := c.Close(); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d definitions failed validation", failed, len(args))
			}
			return nil
		},
	}
}

func readDefinition(path string) (*definition.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Code(definition.CodeInvalid).With("path", path).Wrapf(err, "read definition")
	}
	doc, err := definition.Parse(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return doc, nil
}
