// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package ttlcache adapts the github.com/jellydator/ttlcache/v3 module
// as the listing cache of the cars use case (see carsuc.Cache).
// Entries expire after their own time-to-live duration, reading them
// does not extend their lifetime, and a group of keys may be removed
// by their common prefix.
//
// Expired entries are not collected by a background goroutine. They are
// ignored by Get and replaced by the next Set, or removed by an explicit
// invalidation. The cached keys are expected to form a small and
// bounded set (such as listing pages), so this keeps the cache simple.
package ttlcache

import (
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Cache keeps values of type V by their string keys.
// The zero value is not usable; use New instead.
type Cache[V any] struct {
	items *ttlcache.Cache[string, V]
}

// New instantiates an empty Cache.
func New[V any]() *Cache[V] {
	return &Cache[V]{
		items: ttlcache.New[string, V](
			ttlcache.WithDisableTouchOnHit[string, V](),
		),
	}
}

// Get returns the value which is cached for key, if it exists and has
// not expired yet. The ok return value reports whether it was found.
func (c *Cache[V]) Get(key string) (v V, ok bool) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		return v, false
	}
	return item.Value(), true
}

// Set caches v for key, replacing its previous value, and expires it
// after the ttl duration. A non-positive ttl removes key instead.
func (c *Cache[V]) Set(key string, v V, ttl time.Duration) {
	if ttl <= 0 {
		c.items.Delete(key)
		return
	}
	c.items.Set(key, v, ttl)
}

// InvalidatePrefix removes all keys which start with prefix.
// It returns the number of removed keys (including the expired ones).
func (c *Cache[V]) InvalidatePrefix(prefix string) int {
	n := 0
	for _, k := range c.items.Keys() {
		if strings.HasPrefix(k, prefix) {
			c.items.Delete(k)
			n++
		}
	}
	return n
}
