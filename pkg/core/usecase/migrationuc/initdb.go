// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/repo"
)

// InitDBUseCase represents the database initialization use case. It may
// be used to initialize database with development or production
// suitable data as asked by the InitDev and InitProd methods.
type InitDBUseCase struct {
	settings   Settings    // target settings
	schemaRepo repo.Schema // schema management repo
}

// NewInitDB creates an InitDBUseCase instance, using the `ss` settings
// in order to connect to the target database and create its schema
// initializer and role administrator.
func NewInitDB(ss Settings) *InitDBUseCase {
	return &InitDBUseCase{
		settings:   ss,
		schemaRepo: ss.NewSchemaRepo(),
	}
}

// InitProd prepares the normal role using the admin role. That is,
// it creates the normal role (if it does not exist), grants it the
// privileges which are required for creating tables, and sets its
// password as found in the settings. These operations run in one
// transaction of the admin role. Thereafter, it connects using the
// normal role and creates the missing tables and indexes in a second
// transaction, keeping the existing rows. It may be repeated safely.
//
// If the admin role is not configured (e.g., because a DATABASE_URL
// is given), the roles preparation is skipped and the normal role is
// expected to exist with enough privileges.
func (iduc *InitDBUseCase) InitProd(ctx context.Context) error {
	return iduc.initDB(
		ctx,
		func(ctx context.Context, si repo.SchemaInitializer) error {
			return si.CreateTables(ctx)
		},
	)
}

// InitDev prepares the normal role and creates the missing tables and
// indexes (similar to the InitProd method) and then inserts a
// development user which owns a few sample listings.
func (iduc *InitDBUseCase) InitDev(ctx context.Context) error {
	return iduc.initDB(
		ctx,
		func(ctx context.Context, si repo.SchemaInitializer) error {
			if err := si.CreateTables(ctx); err != nil {
				return err
			}
			return si.InsertDevData(ctx)
		},
	)
}

func (iduc *InitDBUseCase) initDB(
	ctx context.Context,
	dbi func(ctx context.Context, si repo.SchemaInitializer) error,
) error {
	if err := iduc.prepareRoles(ctx); err != nil {
		return fmt.Errorf("preparing roles: %w", err)
	}
	p, err := iduc.settings.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			si := iduc.schemaRepo.Tx(tx)
			if err := dbi(ctx, si); err != nil {
				return fmt.Errorf("initializing schema: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("normal connection: %w", err)
	}
	log.Info(ctx, "database is initialized")
	return nil
}

func (iduc *InitDBUseCase) prepareRoles(ctx context.Context) error {
	p, err := iduc.settings.AdminConnectionPool(ctx)
	if errors.Is(err, ErrNoAdminRole) {
		log.Info(ctx, "skipping roles preparation", log.Err("reason", err))
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating DB pool for admin: %w", err)
	}
	defer p.Close()
	pass, err := iduc.settings.RolePassword(repo.NormalRole)
	if err != nil {
		return fmt.Errorf("finding normal role password: %w", err)
	}
	err = p.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			ra := iduc.schemaRepo.Admin(tx)
			r := repo.NormalRole
			if err := ra.CreateRoleIfNotExists(ctx, r); err != nil {
				return fmt.Errorf("creating normal role: %w", err)
			}
			if err := ra.GrantPrivileges(ctx, r); err != nil {
				return fmt.Errorf("granting normal role privs: %w", err)
			}
			if err := ra.ChangePassword(ctx, r, pass); err != nil {
				return fmt.Errorf("setting normal role password: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("admin connection: %w", err)
	}
	log.Info(ctx, "normal role is prepared")
	return nil
}
