// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp implements the repo.Users interface for PostgreSQL.
package usersrp

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

func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	return connQueryer{Conn: c.(*postgres.Conn)}
}

func (cq connQueryer) FindByEmail(ctx context.Context, email string) (
	*model.User, error,
) {
	return FindByEmail(ctx, cq.Conn, email)
}

func (cq connQueryer) Find(ctx context.Context, userID uuid.UUID) (
	*model.User, error,
) {
	return Find(ctx, cq.Conn, userID)
}

type txQueryer struct {
	*postgres.Tx
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	return txQueryer{Tx: tx.(*postgres.Tx)}
}

func (tq txQueryer) FindByEmail(ctx context.Context, email string) (
	*model.User, error,
) {
	return FindByEmail(ctx, tq.Tx, email)
}

func (tq txQueryer) Find(ctx context.Context, userID uuid.UUID) (
	*model.User, error,
) {
	return Find(ctx, tq.Tx, userID)
}

func (tq txQueryer) Upsert(ctx context.Context, u *model.User) (
	*model.User, error,
) {
	return Upsert(ctx, tq.Tx, u)
}
