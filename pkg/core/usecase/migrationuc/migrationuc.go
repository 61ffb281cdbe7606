// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc provides the database schema use cases.
// Currently, it exposes the InitDBUseCase for preparing the database
// roles, creating the carweb tables, and optionally filling them with
// the development data.
// This package also exposes the Settings interface which represents
// the version-independent expectations from a configuration file
// representation type, so the use cases layer does not depend on a
// specific configuration format.
package migrationuc

import (
	"context"
	"errors"

	"github.com/momeni/carweb/pkg/core/repo"
)

// ErrNoAdminRole indicates that the settings do not provide any way
// to connect as the repo.AdminRole, so the roles preparation has to be
// skipped.
var ErrNoAdminRole = errors.New("admin role is not configured")

// Settings provides the database connection and schema repository
// which are required by the schema use cases.
type Settings interface {
	// ConnectionPool creates a database connection pool for the
	// repo.NormalRole using the connection information which are
	// kept in this Settings.
	ConnectionPool(ctx context.Context) (repo.Pool, error)

	// AdminConnectionPool creates a database connection pool for the
	// repo.AdminRole. It returns an error wrapping ErrNoAdminRole if
	// the admin role connection information are not available.
	AdminConnectionPool(ctx context.Context) (repo.Pool, error)

	// RolePassword returns the password which is configured for the
	// r role, so it may be set in the database too.
	RolePassword(r repo.Role) (string, error)

	// NewSchemaRepo instantiates a fresh Schema repository.
	NewSchemaRepo() repo.Schema
}
