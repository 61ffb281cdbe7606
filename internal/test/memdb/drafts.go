// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memdb

import (
	"context"
	"slices"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// Drafts implements the repo.Drafts interface.
type Drafts struct {
}

// Conn wraps c (which must be a *memdb.Conn) as a drafts queryer.
func (Drafts) Conn(c repo.Conn) repo.DraftsQueryer {
	return draftsQueryer{q: c}
}

// Tx wraps tx (which must be a *memdb.Tx) as a drafts queryer.
func (Drafts) Tx(tx repo.Tx) repo.DraftsQueryer {
	return draftsQueryer{q: tx}
}

type draftsQueryer struct {
	q any
}

func cloneDraft(d model.Draft) *model.Draft {
	d.Images = slices.Clone(d.Images)
	d.Car.Colors = slices.Clone(d.Car.Colors)
	d.Car.Features = slices.Clone(d.Car.Features)
	return &d
}

func (dq draftsQueryer) Load(
	_ context.Context, userID uuid.UUID, name string,
) (d *model.Draft, err error) {
	err = view(dq.q, "LoadDraft", func(_ *DB, st *state) error {
		if sd, ok := st.drafts[draftKey{userID: userID, name: name}]; ok {
			d = cloneDraft(sd)
		}
		return nil
	})
	return
}

func (dq draftsQueryer) Save(
	_ context.Context, userID uuid.UUID, name string, d *model.Draft,
) error {
	return view(dq.q, "SaveDraft", func(_ *DB, st *state) error {
		st.drafts[draftKey{userID: userID, name: name}] = *cloneDraft(*d)
		return nil
	})
}

func (dq draftsQueryer) Delete(
	_ context.Context, userID uuid.UUID, name string,
) error {
	return view(dq.q, "DeleteDraft", func(_ *DB, st *state) error {
		delete(st.drafts, draftKey{userID: userID, name: name})
		return nil
	})
}
