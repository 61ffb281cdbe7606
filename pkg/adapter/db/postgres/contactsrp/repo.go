// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package contactsrp implements the repo.Contacts interface for
// PostgreSQL, storing the messages which visitors send to sellers.
package contactsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/tables"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// ErrCarNotFound is reported if the car of a message does not exist.
var ErrCarNotFound = errors.New("car not found")

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type queryer[Q postgres.Queryer] struct {
	q Q
}

func (contacts *Repo) Conn(c repo.Conn) repo.ContactsQueryer {
	return queryer[*postgres.Conn]{q: c.(*postgres.Conn)}
}

func (contacts *Repo) Tx(tx repo.Tx) repo.ContactsQueryer {
	return queryer[*postgres.Tx]{q: tx.(*postgres.Tx)}
}

func (cq queryer[Q]) Create(ctx context.Context, msg *model.ContactMessage) error {
	return Create(ctx, cq.q, msg)
}

func Create[Q postgres.Queryer](
	ctx context.Context, q Q, msg *model.ContactMessage,
) error {
	msg.CreatedAt = time.Now().UTC()
	row := &tables.ContactMessage{
		CarID:     msg.CarID,
		FirstName: msg.FirstName,
		LastName:  msg.LastName,
		Email:     msg.Email,
		Phone:     msg.Phone,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
	err := q.GORM(ctx).Create(row).Error
	switch {
	case postgres.IsForeignKeyViolation(err):
		return cerr.NotFound(ErrCarNotFound)
	case err != nil:
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}
