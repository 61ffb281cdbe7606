// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaInitializer creates the carweb tables and fills them with the
// initial data rows. It wraps a transaction, so a failed initialization
// leaves no partial tables.
type SchemaInitializer interface {
	// CreateTables creates (or updates) all tables and indexes.
	CreateTables(ctx context.Context) error

	// InsertDevData inserts a few users and listings which are
	// suitable for a development environment.
	InsertDevData(ctx context.Context) error
}

// RoleAdministrator prepares the database roles. It wraps a transaction
// of the AdminRole.
type RoleAdministrator interface {
	// CreateRoleIfNotExists creates the role with the LOGIN attribute
	// unless it exists already.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges allows role to connect to the current database
	// and create tables in its public schema.
	GrantPrivileges(ctx context.Context, role Role) error

	// ChangePassword sets the password of role. Implementations must
	// not send pass in plaintext to the DBMS.
	ChangePassword(ctx context.Context, role Role, pass string) error
}

// Schema is the schema management repository.
type Schema interface {
	Tx(Tx) SchemaInitializer
	Admin(Tx) RoleAdministrator
}
