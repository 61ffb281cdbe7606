// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the carweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// These settings may be versioned and maintained by sub-packages.
// However, the parsed and validated configurations should be passed
// to their ultimate components as a series of individual params (for
// the mandatory items) and a series of functional options (for
// the optional items), so they may be validated in the relevant
// end-component such as a UseCase instance.
package config

import (
	"fmt"
	"os"

	"github.com/momeni/carweb/pkg/adapter/config/cfg1"
	"github.com/momeni/carweb/pkg/adapter/config/vers"
	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/core/cerr"
)

// EnvConfigFile names the environment variable which may specify the
// configuration file path.
const EnvConfigFile = "CONFIG_FILE"

// DefaultPath is the configuration file path which is used when
// neither a command line flag nor the CONFIG_FILE is set.
const DefaultPath = "configs/sample-config.yaml"

// Path returns the flag path if it is not empty, otherwise, the value
// of CONFIG_FILE environment variable or the DefaultPath in order.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return DefaultPath
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which conforms with
// the latest known configuration settings format.
// The corresponding database schema version must also match with the
// latest known database schema version.
// Secrets are taken from the environment variables.
func Load(path string) (*cfg1.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data, os.Getenv)
}

// Parse is the same as Load, but takes the configuration file contents
// and the environment variables lookup function as arguments.
func Parse(data []byte, getenv func(string) string) (*cfg1.Config, error) {
	v, err := vers.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	vc := v.Versions
	switch {
	case vc.Config[0] != cfg1.Major:
		return nil, fmt.Errorf(
			"unexpected config version: %s", vc.Config.String(),
		)
	case !postgres.Version.Supports(vc.Database):
		return nil, fmt.Errorf(
			"unexpected database schema version: %w",
			&cerr.MismatchingSemVerError{postgres.Version, vc.Database},
		)
	}
	c, err := cfg1.Load(data, getenv)
	if err != nil {
		return nil, fmt.Errorf("loading cfg1.Config: %w", err)
	}
	return c, nil
}
