// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/carweb/pkg/core/repo"
	"gorm.io/gorm"
)

// Queryer is the type constraint of the generic query functions in
// the repository packages. It is satisfied by *Conn and *Tx, so each
// query may be implemented once and used in both of them.
type Queryer interface {
	*Conn | *Tx
	repo.Queryer

	// GORM returns the wrapped *gorm.DB which is bound to ctx.
	GORM(ctx context.Context) *gorm.DB
}
