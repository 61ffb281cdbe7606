// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo contains the repository interfaces which are used by
// the use cases layer in order to access the Listing Store. Each
// repository, like Cars, is a factory of queryer objects which wrap a
// Conn (for standalone statements) or a Tx (for statements which must
// commit or roll back together). Implementations are provided by the
// adapters layer, e.g., the pkg/adapter/db/postgres/carsrp package.
package repo

import "context"

// ConnHandler is a callback which receives a database connection.
// The connection is only valid until the handler returns.
type ConnHandler func(context.Context, Conn) error

// Pool represents a database connection pool.
type Pool interface {
	// Conn acquires a connection, passes it to the handler, and
	// releases it after the handler returns. The handler error is
	// returned by Conn too.
	Conn(ctx context.Context, handler ConnHandler) error

	// Close releases all idle connections of the pool.
	Close() error
}
