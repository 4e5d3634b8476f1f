// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/holomush/propcore/internal/definition"
)

// NewSchemaCmd creates the schema subcommand.
func NewSchemaCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for definition files",
		Long: `Print the JSON Schema that collection definition files are validated
against, or write it to a file with --out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := definition.GenerateSchema()
			if err != nil {
				return err
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(append(schema, '\n'))
				return err
			}

			if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
				return fmt.Errorf("create schema directory: %w", err)
			}
			if err := os.WriteFile(outPath, schema, 0o600); err != nil {
				return fmt.Errorf("write schema: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "write the schema to this file instead of stdout")
	return cmd
}
