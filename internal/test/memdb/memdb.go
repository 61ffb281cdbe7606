// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memdb is an internal helper for the use cases test packages.
// It implements the repo.Pool and the carweb repositories in memory,
// so use cases may be tested without a PostgreSQL server.
//
// Transactions are snapshot based. Each transaction works on a deep
// copy of the database state which replaces the committed state if its
// handler returns nil. Transactions are serialized, so a transaction
// never observes another uncommitted transaction. Failures may be
// injected for specific operations using the DB.FailOn method in order
// to verify the rollback behaviors.
package memdb

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
)

// ErrUnsupported is returned by the raw SQL methods.
var ErrUnsupported = errors.New("raw SQL is not supported by memdb")

type bookmarkKey struct {
	userID, carID uuid.UUID
}

type draftKey struct {
	userID uuid.UUID
	name   string
}

type state struct {
	cars      map[uuid.UUID]model.Car
	sellers   map[uuid.UUID]model.Seller
	specs     map[uuid.UUID]model.Specification
	users     map[uuid.UUID]model.User
	bookmarks map[bookmarkKey]time.Time
	drafts    map[draftKey]model.Draft
	contacts  []model.ContactMessage
}

func newState() *state {
	return &state{
		cars:      make(map[uuid.UUID]model.Car),
		sellers:   make(map[uuid.UUID]model.Seller),
		specs:     make(map[uuid.UUID]model.Specification),
		users:     make(map[uuid.UUID]model.User),
		bookmarks: make(map[bookmarkKey]time.Time),
		drafts:    make(map[draftKey]model.Draft),
	}
}

// clone copies the maps of st. Values are copied shallowly, so their
// slices must be replaced (never modified in place) by the repos.
func (st *state) clone() *state {
	return &state{
		cars:      maps.Clone(st.cars),
		sellers:   maps.Clone(st.sellers),
		specs:     maps.Clone(st.specs),
		users:     maps.Clone(st.users),
		bookmarks: maps.Clone(st.bookmarks),
		drafts:    maps.Clone(st.drafts),
		contacts:  slices.Clone(st.contacts),
	}
}

// DB is an in-memory database. It implements repo.Pool.
type DB struct {
	txMu sync.Mutex // serializes transactions

	mu       sync.Mutex
	st       *state
	failures map[string]error
	now      time.Time

	queries atomic.Int64
}

// New instantiates an empty DB.
func New() *DB {
	return &DB{
		st:       newState(),
		failures: make(map[string]error),
		now:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// FailOn makes the next calls of the op operation (e.g., "CreateCar")
// to fail with err. A nil err removes the injected failure.
func (db *DB) FailOn(op string, err error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if err == nil {
		delete(db.failures, op)
		return
	}
	db.failures[op] = err
}

// Queries returns the number of repository operations which were run.
func (db *DB) Queries() int64 {
	return db.queries.Load()
}

// tick returns a strictly increasing timestamp, so creation orders are
// deterministic. Caller must hold db.mu.
func (db *DB) tick() time.Time {
	db.now = db.now.Add(time.Second)
	return db.now
}

// Conn passes a connection to handler. It implements repo.Pool.
func (db *DB) Conn(ctx context.Context, handler repo.ConnHandler) error {
	return handler(ctx, &Conn{db: db})
}

// Close implements repo.Pool and does nothing.
func (db *DB) Close() error {
	return nil
}

// Counts reports the number of stored cars, sellers, specifications,
// bookmarks, and contact messages.
func (db *DB) Counts() (cars, sellers, specs, bookmarks, contacts int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.st.cars), len(db.st.sellers), len(db.st.specs),
		len(db.st.bookmarks), len(db.st.contacts)
}

// Conn is an in-memory connection which operates on the committed
// state directly.
type Conn struct {
	db *DB
}

// Exec implements repo.Queryer and always fails.
func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrUnsupported
}

// Query implements repo.Queryer and always fails.
func (c *Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrUnsupported
}

// IsConn implements repo.Conn.
func (c *Conn) IsConn() {
}

// Tx runs handler in a snapshot transaction. The snapshot replaces the
// committed state if handler returns nil (and does not panic).
func (c *Conn) Tx(ctx context.Context, handler repo.TxHandler) error {
	db := c.db
	db.txMu.Lock()
	defer db.txMu.Unlock()
	db.mu.Lock()
	tx := &Tx{db: db, st: db.st.clone()}
	db.mu.Unlock()
	if err := handler(ctx, tx); err != nil {
		return err
	}
	db.mu.Lock()
	db.st = tx.st
	db.mu.Unlock()
	return nil
}

// Tx is an in-memory transaction which operates on its own snapshot.
type Tx struct {
	db *DB
	st *state
}

// Exec implements repo.Queryer and always fails.
func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, ErrUnsupported
}

// Query implements repo.Queryer and always fails.
func (tx *Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, ErrUnsupported
}

// IsTx implements repo.Tx.
func (tx *Tx) IsTx() {
}

// view runs fn with the state which is visible to q, while holding the
// database lock. It returns the injected failure of op, if any.
func view(q any, op string, fn func(db *DB, st *state) error) error {
	var db *DB
	var st *state
	switch q := q.(type) {
	case *Conn:
		db = q.db
	case *Tx:
		db = q.db
		st = q.st
	default:
		panic("memdb: unknown queryer")
	}
	db.queries.Add(1)
	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.failures[op]; err != nil {
		return err
	}
	if st == nil {
		st = db.st
	}
	return fn(db, st)
}
