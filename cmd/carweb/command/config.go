// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"os"

	"github.com/momeni/carweb/pkg/adapter/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the normalized configuration settings",
	Long: `Print the normalized configuration settings, including the
default values of the missing optional settings, as yaml.
Secrets are never printed.`,
	RunE: printConfig,
	Args: cobra.NoArgs,
}

func printConfig(_ *cobra.Command, _ []string) error {
	path := config.Path(cfgPath)
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", path, err)
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	if err = enc.Encode(c); err != nil {
		return fmt.Errorf("encoding configs: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
