// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration implements the repo.Schema interface, creating
// the carweb tables with the GORM migrator and filling them with the
// development data rows on demand. All operations run in the caller
// transaction, so PostgreSQL transactional DDL guarantees that a failed
// initialization leaves no partially created tables.
//
// The database roles are prepared by the Administrator which hashes
// the role passwords in the SCRAM format before sending them.
package migration

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/tables"
	"github.com/momeni/carweb/pkg/core/repo"
	"github.com/momeni/carweb/pkg/core/scram"
)

// PasswordIterations is the PBKDF2 iterations count of the role
// passwords hashes.
const PasswordIterations = 15000

// Repo is the schema management repository.
type Repo struct {
	hasher scram.Hasher
}

// New instantiates a schema management repository. The hasher is used
// for the role passwords.
func New(hasher scram.Hasher) *Repo {
	return &Repo{hasher: hasher}
}

// Tx wraps tx (which must be a *postgres.Tx) as a SchemaInitializer.
func (r *Repo) Tx(tx repo.Tx) repo.SchemaInitializer {
	return &Initializer{tx: tx.(*postgres.Tx)}
}

// Admin wraps tx (which must be a *postgres.Tx of a super user) as a
// RoleAdministrator.
func (r *Repo) Admin(tx repo.Tx) repo.RoleAdministrator {
	return &Administrator{tx: tx.(*postgres.Tx), hasher: r.hasher}
}

// Initializer creates tables and inserts the initial rows in its
// wrapped transaction.
type Initializer struct {
	tx *postgres.Tx
}

// CreateTables creates the missing tables, columns, and indexes.
// Existing tables are kept, so it may be called repeatedly.
func (i *Initializer) CreateTables(ctx context.Context) error {
	if err := i.tx.GORM(ctx).AutoMigrate(tables.All()...); err != nil {
		return fmt.Errorf("auto-migrating tables: %w", err)
	}
	return nil
}

// Administrator creates and authorizes the database roles in its
// wrapped transaction.
type Administrator struct {
	tx     *postgres.Tx
	hasher scram.Hasher
}

func ident(r repo.Role) string {
	return pgx.Identifier{string(r)}.Sanitize()
}

// CreateRoleIfNotExists creates the role with the LOGIN attribute,
// unless a role with the same name exists.
func (a *Administrator) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	var n int64
	err := a.tx.GORM(ctx).Raw(
		"SELECT count(*) FROM pg_roles WHERE rolname = ?", string(role),
	).Scan(&n).Error
	if err != nil {
		return fmt.Errorf("looking up %q role: %w", role, err)
	}
	if n > 0 {
		return nil
	}
	if _, err := a.tx.Exec(ctx, "CREATE ROLE "+ident(role)+" LOGIN"); err != nil {
		return fmt.Errorf("creating %q role: %w", role, err)
	}
	return nil
}

// GrantPrivileges allows role to connect to the current database and
// to use and create tables in its public schema.
func (a *Administrator) GrantPrivileges(
	ctx context.Context, role repo.Role,
) error {
	var db string
	err := a.tx.GORM(ctx).Raw("SELECT current_database()").Scan(&db).Error
	if err != nil {
		return fmt.Errorf("finding current database: %w", err)
	}
	r := ident(role)
	stmts := []string{
		"GRANT CONNECT, TEMPORARY ON DATABASE " +
			pgx.Identifier{db}.Sanitize() + " TO " + r,
		"GRANT USAGE, CREATE ON SCHEMA public TO " + r,
	}
	for _, s := range stmts {
		if _, err := a.tx.Exec(ctx, s); err != nil {
			return fmt.Errorf("granting privileges to %q: %w", role, err)
		}
	}
	return nil
}

// ChangePassword sets the SCRAM hash of pass as the role password.
func (a *Administrator) ChangePassword(
	ctx context.Context, role repo.Role, pass string,
) error {
	h, err := a.hasher.Hash(pass, "", PasswordIterations)
	if err != nil {
		return fmt.Errorf("hashing password of %q: %w", role, err)
	}
	lit := "'" + strings.ReplaceAll(h, "'", "''") + "'"
	_, err = a.tx.Exec(ctx, "ALTER ROLE "+ident(role)+" WITH PASSWORD "+lit)
	if err != nil {
		return fmt.Errorf("altering password of %q: %w", role, err)
	}
	return nil
}
