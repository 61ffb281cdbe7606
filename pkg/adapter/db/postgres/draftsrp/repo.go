// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package draftsrp implements the repo.Drafts interface for PostgreSQL.
// Drafts are serialized as JSON documents in a jsonb column.
package draftsrp

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

// queryer serves both of the connections and transactions because
// drafts have no multi-statement operation.
type queryer[Q postgres.Queryer] struct {
	q Q
}

func (drafts *Repo) Conn(c repo.Conn) repo.DraftsQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (drafts *Repo) Tx(tx repo.Tx) repo.DraftsQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (dq queryer[Q]) Load(ctx context.Context, userID uuid.UUID, name string) (
	*model.Draft, error,
) {
	return Load(ctx, dq.q, userID, name)
}

func (dq queryer[Q]) Save(
	ctx context.Context, userID uuid.UUID, name string, d *model.Draft,
) error {
	return Save(ctx, dq.q, userID, name, d)
}

func (dq queryer[Q]) Delete(
	ctx context.Context, userID uuid.UUID, name string,
) error {
	return Delete(ctx, dq.q, userID, name)
}
