// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package browseuc

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/model"
)

// BookmarkToggler sends the bookmark toggle mutations to the server.
type BookmarkToggler interface {
	ToggleBookmark(ctx context.Context, carID uuid.UUID) (bool, error)
}

// Bookmark is the saved indicator of one car in a browsing client.
// The indicator is flipped as soon as it is toggled and the mutation
// is sent in the background. If the mutation fails, and the indicator
// is not toggled again meanwhile, the flip is reverted. A successful
// mutation is not reconciled with the server response.
type Bookmark struct {
	toggler  BookmarkToggler
	carID    uuid.UUID
	signedIn bool

	mu      sync.Mutex
	saved   bool
	version uint64
}

// NewBookmark instantiates a Bookmark indicator of the carID car with
// its initially known saved state. Anonymous clients (with a false
// signedIn) may not toggle it.
func NewBookmark(
	t BookmarkToggler, carID uuid.UUID, saved, signedIn bool,
) *Bookmark {
	return &Bookmark{
		toggler:  t,
		carID:    carID,
		signedIn: signedIn,
		saved:    saved,
	}
}

// Saved returns the predicted saved state.
func (b *Bookmark) Saved() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saved
}

// Toggle flips the saved state and sends the mutation without waiting
// for its result. The returned channel receives the mutation error
// (nil on success) and is closed afterwards. Anonymous clients get
// a cerr.Authentication error and the state is not flipped.
func (b *Bookmark) Toggle(ctx context.Context) (<-chan error, error) {
	if !b.signedIn {
		return nil, cerr.Authentication(model.ErrUnauthenticated)
	}
	b.mu.Lock()
	b.saved = !b.saved
	b.version++
	v := b.version
	b.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		defer close(done)
		_, err := b.toggler.ToggleBookmark(ctx, b.carID)
		if err != nil {
			b.revert(ctx, v, err)
		}
		done <- err
	}()
	return done, nil
}

func (b *Bookmark) revert(ctx context.Context, v uint64, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.version != v {
		return
	}
	b.saved = !b.saved
	log.Warn(
		ctx, "bookmark toggle is reverted",
		log.UUID("car", b.carID), log.Err("err", err),
	)
}
