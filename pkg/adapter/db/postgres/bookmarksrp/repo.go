// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookmarksrp implements the repo.Bookmarks interface for
// PostgreSQL. Bookmarks are kept in a join table between users and
// cars, representing the savedBy relation of a car.
package bookmarksrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (bookmarks *Repo) Conn(c repo.Conn) repo.BookmarksConnQueryer {
	return connQueryer{Conn: c.(*postgres.Conn)}
}

func (cq connQueryer) IsSaved(
	ctx context.Context, userID, carID uuid.UUID,
) (bool, error) {
	return IsSaved(ctx, cq.Conn, userID, carID)
}

func (cq connQueryer) List(ctx context.Context, userID uuid.UUID) (
	[]model.Car, error,
) {
	return List(ctx, cq.Conn, userID)
}

type txQueryer struct {
	*postgres.Tx
}

func (bookmarks *Repo) Tx(tx repo.Tx) repo.BookmarksTxQueryer {
	return txQueryer{Tx: tx.(*postgres.Tx)}
}

func (tq txQueryer) IsSaved(
	ctx context.Context, userID, carID uuid.UUID,
) (bool, error) {
	return IsSaved(ctx, tq.Tx, userID, carID)
}

func (tq txQueryer) List(ctx context.Context, userID uuid.UUID) (
	[]model.Car, error,
) {
	return List(ctx, tq.Tx, userID)
}

func (tq txQueryer) Save(ctx context.Context, userID, carID uuid.UUID) error {
	return Save(ctx, tq.Tx, userID, carID)
}

func (tq txQueryer) Unsave(ctx context.Context, userID, carID uuid.UUID) error {
	return Unsave(ctx, tq.Tx, userID, carID)
}
