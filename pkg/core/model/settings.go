// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "time"

// Settings contains the visible settings which are reported to the
// web clients, so they may adapt their behavior with the server.
// For example, a browsing client takes its filter debounce delay from
// here. All settings are immutable during a server execution and are
// loaded from the configuration file.
//
// This model layer struct is required (in addition to its version
// dependent adapters layer counterparts) because the use cases layer
// should be able to report settings without depending on a specific
// configuration file format.
type Settings struct {
	Listing ListingSettings `json:"listing"`
	Browse  BrowseSettings  `json:"browse"`

	// Logger reports if server-side REST API logging is enabled.
	Logger bool `json:"logger"`
}

// ListingSettings contains the listing query related settings.
type ListingSettings struct {
	// PageSize is the number of cars in each listing page.
	PageSize int `json:"page_size"`

	// CacheTTL is the maximum staleness of a cached listing page.
	CacheTTL time.Duration `json:"cache_ttl"`
}

// BrowseSettings contains the browsing client related settings.
type BrowseSettings struct {
	// FilterDebounce is the quiet period which a filter controller
	// waits for before rewriting the query string.
	FilterDebounce time.Duration `json:"filter_debounce"`
}
