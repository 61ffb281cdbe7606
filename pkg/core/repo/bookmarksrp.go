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

// BookmarksConnQueryer lists the bookmarks queries for a Conn.
type BookmarksConnQueryer interface {
	BookmarksQueryer
}

// BookmarksTxQueryer lists the bookmarks queries for a Tx.
// Changing a bookmark requires to check its current state first, so
// the mutating methods are only available in a transaction.
type BookmarksTxQueryer interface {
	BookmarksQueryer

	// Save bookmarks the carID car for the userID user.
	// Saving an already saved car is a no-op.
	Save(ctx context.Context, userID, carID uuid.UUID) error

	// Unsave removes the bookmark of the carID car for the userID
	// user. Removing a missing bookmark is a no-op.
	Unsave(ctx context.Context, userID, carID uuid.UUID) error
}

// BookmarksQueryer lists the read-only bookmarks queries.
type BookmarksQueryer interface {
	// IsSaved reports whether userID user has bookmarked carID car.
	IsSaved(ctx context.Context, userID, carID uuid.UUID) (bool, error)

	// List returns the cars which are bookmarked by the userID user,
	// newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.Car, error)
}

// Bookmarks is the bookmarks repository which maintains the savedBy
// relation between cars and users.
type Bookmarks interface {
	Conn(Conn) BookmarksConnQueryer
	Tx(Tx) BookmarksTxQueryer
}
