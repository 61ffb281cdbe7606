// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
)

// DraftsQueryer lists the drafts queries. Drafts are keyed by their
// owner and their name (e.g., model.DraftName).
type DraftsQueryer interface {
	// Load returns the stored draft. A missing draft is reported by
	// a nil draft and a nil error.
	Load(ctx context.Context, userID uuid.UUID, name string) (*model.Draft, error)

	// Save stores d, replacing the previous draft with the same key.
	Save(ctx context.Context, userID uuid.UUID, name string, d *model.Draft) error

	// Delete removes the stored draft (if any).
	Delete(ctx context.Context, userID uuid.UUID, name string) error
}

// Drafts is the drafts repository.
type Drafts interface {
	Conn(Conn) DraftsQueryer
	Tx(Tx) DraftsQueryer
}
