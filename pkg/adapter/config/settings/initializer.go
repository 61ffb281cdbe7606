// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package settings provides the generic helpers and types which are
// shared among the configuration settings versions, such as the
// human-readable Duration and the range verification of the bounded
// settings.
package settings

// Nil2Zero overwrites the (*t) pointer, which should be nil,
// in order to point to a newly allocated T instance and initializes it
// with the zero value of T type.
// If the (*t) pointer was not nil, Nil2Zero will perform no action.
func Nil2Zero[T any](t **T) {
	var zero T
	Default(t, zero)
}

// Default overwrites the (*t) pointer, which should be nil, in order to
// point to a newly allocated T instance holding the def value.
// If the (*t) pointer was not nil, Default will perform no action.
func Default[T any](t **T, def T) {
	if (*t) != nil {
		return
	}
	(*t) = &def
}
