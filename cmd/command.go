// Copyright 2025 ZapFS Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"

	"github.com/LeeDigitalWorks/zapctl/pkg/logger"
	"github.com/LeeDigitalWorks/zapctl/pkg/provision"
	"github.com/LeeDigitalWorks/zapctl/pkg/topology"
	"github.com/LeeDigitalWorks/zapctl/pkg/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "zapctl",
	Short: "zapctl - storage topology tool for ZapFS volumes",
	Long: `zapctl turns a description of storage units into a validated volume layout
and submits it to the cluster as a storage resource.

Units can be given with flags (--device, --path, --pvc) or positionally in the
volume CLI syntax, e.g. "replica 3 node1:/a node2:/b node3:/c".`,
	PersistentPreRun: initialize,
	SilenceUsage:     true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&utils.ConfigurationFileDirectory, "config_dir", ".", "Directory for configuration files")
	rootCmd.PersistentFlags().String("log_level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
}

// initialize applies the log level and loads the optional config file
func initialize(cmd *cobra.Command, args []string) {
	if s, _ := cmd.Flags().GetString("log_level"); s != "" {
		level, err := zerolog.ParseLevel(s)
		if err != nil {
			logger.Warn().Err(err).Str("log_level", s).Msg("Ignoring invalid log level")
		} else {
			logger.SetLevel(level)
		}
	}

	utils.LoadConfiguration("zapctl", false)
}

// Execute runs the root command. Cobra has already printed the error.
func Execute() error {
	return rootCmd.Execute()
}

// IsInputError reports whether err was caused by what the user gave on the
// command line or stdin rather than by the tool or the cluster
func IsInputError(err error) bool {
	var (
		lexErr   *topology.LexError
		parseErr *topology.ParseError
		invalid  *topology.InvalidTopologyError
		field    *provision.Error
	)
	return errors.Is(err, ErrNoConfirmation) ||
		errors.As(err, &lexErr) ||
		errors.As(err, &parseErr) ||
		errors.As(err, &invalid) ||
		errors.As(err, &field)
}
