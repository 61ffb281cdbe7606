// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a string specifying a database connection role. Each role
// has a set of granted privileges which indicates which operations
// may be performed after using it for connecting to a database.
// The password of each role is looked up from a pgpass formatted
// file, as indicated in the configuration file.
type Role string

const (
	// AdminRole is a super user role which must be created manually.
	// It is only used by the "db init-*" commands in order to create
	// the NormalRole, grant it the required privileges, and set its
	// password.
	AdminRole Role = "admin"

	// NormalRole is the unprivileged role which owns the carweb
	// tables. It is used both for serving the REST APIs and for
	// creating the tables by the "db init-*" commands.
	NormalRole Role = "carweb"
)
