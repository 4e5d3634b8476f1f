// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/config"
	"github.com/holomush/propcore/internal/definition"
	"github.com/holomush/propcore/internal/logging"
	"github.com/holomush/propcore/internal/xdg"
	"github.com/holomush/propcore/pkg/errutil"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the propctl CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propctl",
		Short: "propctl - typed property collections and rules",
		Long: `propctl loads property collection definitions (typed properties plus the
rules that keep them consistent), applies edit scripts to them and reports
the resulting state and metrics.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default $XDG_CONFIG_HOME/propctl/config.yaml when present)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewSchemaCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewServeCmd())

	return cmd
}

// setup loads configuration and installs the logger for a subcommand.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path := configFile
	if path == "" {
		if p, ok := xdg.ConfigFile(); ok {
			path = p
		}
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger := logging.Setup("propctl", version, cfg.Log.Format, cfg.Log.Level, cmd.ErrOrStderr())
	return cfg, logger, nil
}

// loadCollection parses and builds the definition at path.
func loadCollection(cfg *config.Config, logger *slog.Logger, path string) (*collection.Collection, error) {
	doc, err := readDefinition(path)
	if err != nil {
		errutil.LogError(logger, "definition rejected", err)
		return nil, err
	}
	c, err := definition.Build(doc,
		collection.WithLogger(logger),
		collection.WithMaxCascadeDepth(cfg.Engine.MaxCascadeDepth),
	)
	if err != nil {
		errutil.LogError(logger, "collection build failed", err)
		return nil, err
	}
	logger.Debug("collection built",
		"path", path,
		"collection_id", c.ID().String(),
		"properties", c.Len(),
		"rules", len(c.Rules()),
	)
	return c, nil
}
