// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
)

// UsersConnQueryer lists the users queries which may be run on a Conn.
type UsersConnQueryer interface {
	UsersQueryer
}

// UsersTxQueryer lists the users queries which may be run on a Tx.
type UsersTxQueryer interface {
	UsersQueryer

	// Upsert inserts u or updates the existing user with the same
	// email address. The stored user (with its ID) is returned.
	Upsert(ctx context.Context, u *model.User) (*model.User, error)
}

// UsersQueryer lists the read-only users queries.
type UsersQueryer interface {
	// FindByEmail returns the user with the given email address or
	// a cerr.NotFound error.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Find returns the userID user or a cerr.NotFound error.
	Find(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

// Users is the users repository.
type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}
