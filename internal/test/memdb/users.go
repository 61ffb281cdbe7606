// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memdb

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// Users implements the repo.Users interface.
type Users struct {
}

// Conn wraps c (which must be a *memdb.Conn) as a users queryer.
func (Users) Conn(c repo.Conn) repo.UsersConnQueryer {
	return usersQueryer{q: c}
}

// Tx wraps tx (which must be a *memdb.Tx) as a users queryer.
func (Users) Tx(tx repo.Tx) repo.UsersTxQueryer {
	return usersQueryer{q: tx}
}

type usersQueryer struct {
	q any
}

var errUserNotFound = errors.New("user not found")

func (uq usersQueryer) FindByEmail(
	_ context.Context, email string,
) (u *model.User, err error) {
	email = strings.ToLower(email)
	err = view(uq.q, "FindByEmail", func(_ *DB, st *state) error {
		for _, su := range st.users {
			if su.Email == email {
				u = &su
				return nil
			}
		}
		return cerr.NotFound(errUserNotFound)
	})
	return
}

func (uq usersQueryer) Find(
	_ context.Context, userID uuid.UUID,
) (u *model.User, err error) {
	err = view(uq.q, "FindUser", func(_ *DB, st *state) error {
		su, ok := st.users[userID]
		if !ok {
			return cerr.NotFound(errUserNotFound)
		}
		u = &su
		return nil
	})
	return
}

func (uq usersQueryer) Upsert(
	_ context.Context, u *model.User,
) (stored *model.User, err error) {
	email := strings.ToLower(strings.TrimSpace(u.Email))
	if email == "" {
		return nil, cerr.BadRequest(errors.New("user has no email"))
	}
	err = view(uq.q, "Upsert", func(_ *DB, st *state) error {
		nu := *u
		nu.Email = email
		nu.ID = uuid.New()
		for id, su := range st.users {
			if su.Email == email {
				nu.ID = id
				break
			}
		}
		st.users[nu.ID] = nu
		stored = &nu
		return nil
	})
	return
}
