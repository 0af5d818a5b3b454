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

package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/l3montree-dev/sunshine/normalize"
	"github.com/l3montree-dev/sunshine/shared"
)

const (
	FormatTable = "table"
	FormatTree  = "tree"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

type Config struct {
	LogLevel           string `json:"logLevel" mapstructure:"logLevel" validate:"oneof=debug info warn error"`
	Format             string `json:"format" mapstructure:"format" validate:"oneof=table tree json yaml"`
	OnlyVulnerable     bool   `json:"onlyVulnerable" mapstructure:"onlyVulnerable"`
	Lenient            bool   `json:"lenient" mapstructure:"lenient"`
	OutDir             string `json:"outDir" mapstructure:"outDir"`
	ReferenceCacheSize int    `json:"referenceCacheSize" mapstructure:"referenceCacheSize" validate:"gte=1"`
}

// SetDefaults registers the default of every key which is not backed by a flag.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("format", FormatTable)
	v.SetDefault("referenceCacheSize", normalize.DefaultReferenceCacheSize)
}

// Parse unmarshals and validates the configuration.
func Parse(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "could not parse configuration")
	}
	if err := shared.V.Struct(cfg); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	if cfg.OutDir != "" {
		if err := isValidPath(cfg.OutDir); err != nil {
			return cfg, errors.Wrap(err, "invalid outDir")
		}
	}
	return cfg, nil
}
