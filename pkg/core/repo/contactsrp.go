// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/carweb/pkg/core/model"
)

// ContactsQueryer lists the contact messages queries.
type ContactsQueryer interface {
	// Create stores msg and fills its CreatedAt field.
	Create(ctx context.Context, msg *model.ContactMessage) error
}

// Contacts is the contact messages repository.
type Contacts interface {
	Conn(Conn) ContactsQueryer
	Tx(Tx) ContactsQueryer
}
