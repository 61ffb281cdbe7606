// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram exports the Hasher interface which is used for
// preparing the database role passwords in the SCRAM format, so the
// "db init-prod" command never sends a plaintext password in its DDL
// statements (which may be logged by the DBMS). The implementation is
// provided by the pkg/adapter/hash/scram package.
package scram

// Hasher computes the storedKey and serverKey of a password for a
// fixed underlying hash function, like SHA-256, and serializes them
// with the salt and iterations count as accepted by PostgreSQL:
//
//	SCRAM-SHA-256${iters}:{b64-salt}${b64-storedKey}:{b64-serverKey}
//
// An empty salt asks for a random one. The salt is otherwise the
// base64 encoding of the salt bytes. The iters must be 4096 or more.
type Hasher interface {
	Hash(pass, salt string, iters int) (string, error)
}
