// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the carweb
// project. Commands are organized using the cobra library.
// The root command starts the web server itself, the "db" sub-command
// initializes the database, the "config" sub-command prints the
// normalized configuration, and the "browse" sub-command runs a
// terminal browsing client against a running server.
//
//	./carweb [-c /path/of/config.yaml]           # start web server
//	./carweb db init-dev [-c /path/of/config.yaml]
//	./carweb db init-prod [-c /path/of/config.yaml]
//	./carweb config [-c /path/of/config.yaml]
//	./carweb browse [--server URL] [--token TOKEN] [--query QUERY]
package command

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/momeni/carweb/pkg/adapter/config"
	"github.com/momeni/carweb/pkg/adapter/restful/gin/routes"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/spf13/cobra"
)

var (
	cfgPath  string
	logLevel string
	logJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "carweb",
	Short: "A car marketplace web server",
	Long: `A car marketplace web server which lists cars for sale,
lets signed-in users bookmark cars and publish their own listings
(filling them with help of a text inference service and uploading
their images to ImageKit), and contact the sellers.
The configuration file is taken from the -c flag, the CONFIG_FILE
environment variable, or configs/sample-config.yaml in order, while
secrets are only taken from the environment variables.`,
	PersistentPreRunE: configureLogger,
	RunE:              startWebServer,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
}

func configureLogger(_ *cobra.Command, _ []string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("parsing log level %q: %w", logLevel, err)
	}
	log.Configure(os.Stderr, level, logJSON)
	return nil
}

func startWebServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	path := config.Path(cfgPath)
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", path, err)
	}
	log.Info(ctx, "configs are loaded", slog.String("path", path))
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	e := c.Gin.NewEngine()
	if err = routes.Register(e, p, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	if err = e.Run(); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code is
// zero for success and one for failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgPath, "config", "c", "", "config file path")
	flags.StringVar(&logLevel, "log-level", "info", "minimum log level")
	flags.BoolVar(&logJSON, "log-json", false, "write logs as JSON lines")
}
