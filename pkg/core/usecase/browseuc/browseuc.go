// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package browseuc contains the browsing client use cases. They keep
// the state of one browsing client (such as the carweb browse command)
// and are independent of the REST adapters which they use through the
// Navigator and BookmarkToggler interfaces.
//
// The FilterController mirrors the selected car types into the "type"
// query parameter after a quiet period, and Bookmark shows the saved
// state of a car optimistically, before the server confirms a change.
package browseuc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/momeni/carweb/pkg/core/cerr"
	"github.com/momeni/carweb/pkg/core/log"
	"github.com/momeni/carweb/pkg/core/model"
)

// TypeParam is the query parameter which holds the comma-joined types.
const TypeParam = "type"

// DefaultDebounce is the default quiet period of a FilterController.
const DefaultDebounce = 800 * time.Millisecond

// ErrClosed indicates that a closed FilterController was toggled.
var ErrClosed = errors.New("filter controller is closed")

// Navigator receives the rewritten query strings.
type Navigator interface {
	// Navigate replaces the current query string with rawQuery.
	Navigate(ctx context.Context, rawQuery string) error
}

// FilterController keeps the set of selected car types. Toggles update
// the set immediately, while the query string is rewritten after the
// set stays unchanged for a debounce duration. At most one rewrite is
// pending at any time and the last toggle wins.
//
// Navigation does not seed the set again, so the controller remains the
// owner of its state after its creation.
type FilterController struct {
	ctx      context.Context
	cancel   context.CancelFunc
	nav      Navigator
	debounce time.Duration

	mu     sync.Mutex
	query  url.Values
	types  model.TypeSet
	timer  *time.Timer
	gen    uint64
	closed bool
}

// NewFilterController instantiates a FilterController which seeds its
// set from the "type" parameter of the rawQuery query string. Unknown
// type tokens are dropped. The ctx is passed to nav on each navigation.
func NewFilterController(
	ctx context.Context, nav Navigator, rawQuery string, opts ...Option,
) (*FilterController, error) {
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, cerr.BadRequest(fmt.Errorf("parsing query: %w", err))
	}
	fc := &FilterController{
		nav:   nav,
		query: q,
		types: model.ParseTypeSet(q.Get(TypeParam)),
	}
	for _, opt := range opts {
		if err := opt(fc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if fc.debounce == 0 {
		fc.debounce = DefaultDebounce
	}
	fc.ctx, fc.cancel = context.WithCancel(ctx)
	return fc, nil
}

// Types returns the currently selected car types.
func (fc *FilterController) Types() model.TypeSet {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.types
}

// Query returns the last navigated (or the seeding) query string.
func (fc *FilterController) Query() string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return encode(fc.query)
}

// Pending reports whether a rewrite is scheduled.
func (fc *FilterController) Pending() bool {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.timer != nil
}

// Toggle adds the token car type to the selected set (if on is true)
// or removes it (if on is false). The token is uppercased before
// parsing. Toggles are idempotent, but each toggle postpones the
// pending rewrite for another debounce duration.
func (fc *FilterController) Toggle(token string, on bool) error {
	t, err := model.ParseCarType(token)
	if err != nil {
		return cerr.BadRequest(err)
	}
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.closed {
		return ErrClosed
	}
	if on {
		fc.types = fc.types.With(t)
	} else {
		fc.types = fc.types.Without(t)
	}
	fc.arm()
	return nil
}

// arm replaces the pending timer (if any) with a new timer.
// Each timer carries the generation which was current when it was
// armed, so a superseded timer which has already fired is ignored.
// Caller must hold fc.mu.
func (fc *FilterController) arm() {
	if fc.timer != nil {
		fc.timer.Stop()
	}
	fc.gen++
	gen := fc.gen
	fc.timer = time.AfterFunc(fc.debounce, func() {
		fc.fire(gen)
	})
}

func (fc *FilterController) fire(gen uint64) {
	fc.mu.Lock()
	if fc.closed || gen != fc.gen {
		fc.mu.Unlock()
		return
	}
	fc.timer = nil
	prev := encode(fc.query)
	q := make(url.Values, len(fc.query))
	for k, v := range fc.query {
		q[k] = v
	}
	if fc.types.Empty() {
		q.Del(TypeParam)
	} else {
		q.Set(TypeParam, fc.types.String())
	}
	fc.query = q
	raw := encode(q)
	fc.mu.Unlock()
	if raw == prev {
		return
	}

	if err := fc.nav.Navigate(fc.ctx, raw); err != nil {
		log.Warn(fc.ctx, "navigation failed", log.Err("err", err))
	}
}

// encode serializes q similar to q.Encode, but keeps the commas of the
// type parameter unescaped, so the query string stays readable.
func encode(q url.Values) string {
	types := q.Get(TypeParam)
	if types == "" {
		return q.Encode()
	}
	rest := make(url.Values, len(q))
	for k, v := range q {
		if k != TypeParam {
			rest[k] = v
		}
	}
	raw := rest.Encode()
	if raw != "" {
		raw += "&"
	}
	return raw + TypeParam + "=" + types
}

// Close cancels the pending rewrite (if any). Later toggles fail with
// ErrClosed. It is safe to call Close multiple times.
func (fc *FilterController) Close() {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.closed {
		return
	}
	fc.closed = true
	if fc.timer != nil {
		fc.timer.Stop()
		fc.timer = nil
	}
	fc.cancel()
}
