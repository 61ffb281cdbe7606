// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memdb

import (
	"context"
	"slices"

	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// Contacts implements the repo.Contacts interface.
type Contacts struct {
}

// Conn wraps c (which must be a *memdb.Conn) as a contacts queryer.
func (Contacts) Conn(c repo.Conn) repo.ContactsQueryer {
	return contactsQueryer{q: c}
}

// Tx wraps tx (which must be a *memdb.Tx) as a contacts queryer.
func (Contacts) Tx(tx repo.Tx) repo.ContactsQueryer {
	return contactsQueryer{q: tx}
}

type contactsQueryer struct {
	q any
}

func (cq contactsQueryer) Create(
	_ context.Context, msg *model.ContactMessage,
) error {
	return view(cq.q, "CreateContact", func(db *DB, st *state) error {
		msg.CreatedAt = db.tick()
		st.contacts = append(st.contacts, *msg)
		return nil
	})
}

// Contacts returns the stored contact messages.
func (db *DB) Contacts() []model.ContactMessage {
	db.mu.Lock()
	defer db.mu.Unlock()
	return slices.Clone(db.st.contacts)
}
