// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memdb

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// Bookmarks implements the repo.Bookmarks interface.
type Bookmarks struct {
}

// Conn wraps c (which must be a *memdb.Conn) as a bookmarks queryer.
func (Bookmarks) Conn(c repo.Conn) repo.BookmarksConnQueryer {
	return bookmarksQueryer{q: c}
}

// Tx wraps tx (which must be a *memdb.Tx) as a bookmarks queryer.
func (Bookmarks) Tx(tx repo.Tx) repo.BookmarksTxQueryer {
	return bookmarksQueryer{q: tx}
}

type bookmarksQueryer struct {
	q any
}

func (bq bookmarksQueryer) IsSaved(
	_ context.Context, userID, carID uuid.UUID,
) (saved bool, err error) {
	err = view(bq.q, "IsSaved", func(_ *DB, st *state) error {
		_, saved = st.bookmarks[bookmarkKey{userID: userID, carID: carID}]
		return nil
	})
	return
}

func (bq bookmarksQueryer) List(
	_ context.Context, userID uuid.UUID,
) (cars []model.Car, err error) {
	err = view(bq.q, "ListBookmarks", func(_ *DB, st *state) error {
		cars = []model.Car{}
		for _, c := range newestFirst(st) {
			k := bookmarkKey{userID: userID, carID: c.ID}
			if _, ok := st.bookmarks[k]; ok {
				cars = append(cars, c)
			}
		}
		return nil
	})
	return
}

func (bq bookmarksQueryer) Save(
	_ context.Context, userID, carID uuid.UUID,
) error {
	return view(bq.q, "Save", func(db *DB, st *state) error {
		if _, ok := st.cars[carID]; !ok {
			return fmt.Errorf("car %s does not exist", carID)
		}
		k := bookmarkKey{userID: userID, carID: carID}
		if _, ok := st.bookmarks[k]; !ok {
			st.bookmarks[k] = db.tick()
		}
		return nil
	})
}

func (bq bookmarksQueryer) Unsave(
	_ context.Context, userID, carID uuid.UUID,
) error {
	return view(bq.q, "Unsave", func(_ *DB, st *state) error {
		delete(st.bookmarks, bookmarkKey{userID: userID, carID: carID})
		return nil
	})
}

// SavedBy is used by tests to inspect the bookmarks of a car.
func (db *DB) SavedBy(carID uuid.UUID) []uuid.UUID {
	db.mu.Lock()
	defer db.mu.Unlock()
	var ids []uuid.UUID
	for k := range db.st.bookmarks {
		if k.carID == carID {
			ids = append(ids, k.userID)
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})
	return ids
}
