// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package commands

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/l3montree-dev/sunshine/cmd/sunshine/config"
	"github.com/l3montree-dev/sunshine/shared"
)

// Version information - set via ldflags during build
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

const (
	defaultConfigFilename = ".sunshine"
	envPrefix             = "SUNSHINE"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		SilenceUsage:      true,
		Use:               "sunshine",
		Short:             "Visualize the dependency graph and vulnerabilities of an SBOM",
		Version:           version,
		DisableAutoGenTag: true,
		Long: `Visualize the dependency graph and vulnerabilities of an SBOM

Sunshine reads CycloneDX JSON documents, resolves every component reference,
builds the dependency graph and propagates vulnerabilities from dependencies
to every component depending on them. Configuration can be provided via a
./.sunshine config file or environment variables (prefix SUNSHINE_).`,
		Example: `  # Print the components and vulnerabilities of an SBOM
  sunshine analyze bom.json

  # Print the dependency tree of all vulnerable components
  sunshine analyze bom.json --format tree --only-vulnerable`,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// init the logger - get the level
			level, err := cmd.Flags().GetString("logLevel")
			if err != nil {
				return err
			}
			shared.InitLogger(shared.ParseLogLevel(level))

			if err := shared.LoadConfig(); err != nil {
				slog.Warn("could not load .env file", "err", err)
			}

			return initializeConfig(cmd)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sunshine\n")
			fmt.Fprintf(out, "Version:    %s\n", version)
			fmt.Fprintf(out, "Commit:     %s\n", commit)
			fmt.Fprintf(out, "Built:      %s\n", date)
			fmt.Fprintf(out, "Built by:   %s\n", builtBy)
		},
	}

	rootCmd.AddCommand(
		versionCmd,
		NewAnalyzeCommand(),
	)

	rootCmd.PersistentFlags().StringP("logLevel", "l", "info", "Set the log level. Options: debug, info, warn, error")
	return rootCmd
}

func Execute() {
	err := NewRootCommand().Execute()
	if err != nil {
		slog.Error("Error executing command", "err", err)
		os.Exit(1)
	}
}

func initializeConfig(cmd *cobra.Command) error {
	viper.SetConfigName(defaultConfigFilename)

	// Set as many paths as you like where viper should look for the
	// config file.
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/sunshine")
	// Attempt to read the config file, gracefully ignoring errors
	// caused by a config file not being found. Return an error
	// if we cannot parse the config file.
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if there isn't a config file
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		slog.Debug("no config file found")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	// Bind the current command's flags to viper
	bindFlags(cmd)
	return nil
}

// Bind each cobra flag to its associated viper configuration (config file and environment variable)
func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// viper compares keys case-insensitive, only the hyphens need to go:
		// --only-vulnerable is read from onlyVulnerable and SUNSHINE_ONLYVULNERABLE
		configName := strings.ReplaceAll(f.Name, "-", "")

		// Apply the viper config value to the flag when the flag is not set and viper has a value
		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)
			cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)) // nolint: errcheck
		}

		// Bind the flag to viper
		if err := viper.BindPFlag(configName, f); err != nil {
			slog.Error("could not bind flag to viper", "err", err)
		}
	})
}
