// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/carweb/pkg/adapter/config"
	"github.com/momeni/carweb/pkg/core/usecase/migrationuc"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database management actions",
	Long: `Database management actions can be chosen by sub-commands.
For a fresh installation in a development or production environment,
the init-dev or init-prod may be used respectively.`,
}

var initDevCmd = &cobra.Command{
	Use:   "init-dev",
	Short: "Initialize database with tables and development sample cars",
	Long: `Initialize database with tables and development sample cars.
The database connection information are read from the config file.
Using the admin role (which must exist beforehand), the carweb role is
created if missing, granted the required privileges, and its password
is set (as a SCRAM-SHA-256 hash) to the value which is found in the
.pgpass file. Then the carweb role creates the missing tables.
If the DATABASE_URL environment variable is set, the roles preparation
is skipped and the given role must have enough privileges already.
`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return initDB(func(ctx context.Context, iduc *migrationuc.InitDBUseCase) error {
			return iduc.InitDev(ctx)
		})
	},
	Args: cobra.NoArgs,
}

var initProdCmd = &cobra.Command{
	Use:   "init-prod",
	Short: "Initialize database with empty tables",
	Long: `Initialize database with empty tables, preparing the carweb
role exactly like the init-dev command. Existing tables and rows are
kept, so the command may be repeated safely.
`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return initDB(func(ctx context.Context, iduc *migrationuc.InitDBUseCase) error {
			return iduc.InitProd(ctx)
		})
	},
	Args: cobra.NoArgs,
}

func initDB(
	run func(ctx context.Context, iduc *migrationuc.InitDBUseCase) error,
) error {
	ctx := context.Background()
	path := config.Path(cfgPath)
	c, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", path, err)
	}
	if err = run(ctx, migrationuc.NewInitDB(c)); err != nil {
		return fmt.Errorf("initializing DB: %w", err)
	}
	return nil
}

func init() {
	dbCmd.AddCommand(initDevCmd, initProdCmd)
	rootCmd.AddCommand(dbCmd)
}
