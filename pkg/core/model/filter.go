// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"slices"
	"strings"
)

// ListingPageSize is the fixed number of cars in each listing page.
const ListingPageSize = 8

// AllTypes is the literal type filter which applies no restriction.
const AllTypes = "all"

// TypeSet is a canonical set of car types. It is kept sorted and
// free of duplicates, so two sets with the same members have the same
// String representation and may be used as cache keys.
// An empty (or nil) TypeSet applies no type restriction.
type TypeSet []CarType

// ParseTypeSet parses a comma-joined list of type tokens, such as the
// type URL query parameter. Tokens are trimmed and upper-cased and only
// the known car types are kept. Unknown tokens are dropped silently, so
// "SUV,foo" is parsed the same as "suv". The literal "all" and the
// empty string both produce an empty set.
func ParseTypeSet(raw string) TypeSet {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, AllTypes) {
		return nil
	}
	var ts TypeSet
	for _, token := range strings.Split(raw, ",") {
		t, err := ParseCarType(token)
		if err != nil {
			continue
		}
		ts = append(ts, t)
	}
	return ts.normalize()
}

// NewTypeSet creates a canonical TypeSet from the given types, dropping
// the invalid ones.
func NewTypeSet(types ...CarType) TypeSet {
	ts := make(TypeSet, 0, len(types))
	for _, t := range types {
		if t.Validate() == nil {
			ts = append(ts, t)
		}
	}
	return ts.normalize()
}

func (ts TypeSet) normalize() TypeSet {
	if len(ts) == 0 {
		return nil
	}
	slices.Sort(ts)
	return slices.Compact(ts)
}

// Empty reports whether ts applies no type restriction.
func (ts TypeSet) Empty() bool {
	return len(ts) == 0
}

// Contains reports whether t is a member of ts.
func (ts TypeSet) Contains(t CarType) bool {
	_, found := slices.BinarySearch(ts, t)
	return found
}

// With returns a new set which contains t in addition to the ts
// members. The ts set itself is not modified.
func (ts TypeSet) With(t CarType) TypeSet {
	if ts.Contains(t) {
		return ts
	}
	c := make(TypeSet, 0, len(ts)+1)
	c = append(c, ts...)
	c = append(c, t)
	return c.normalize()
}

// Without returns a new set which contains the ts members except t.
// The ts set itself is not modified.
func (ts TypeSet) Without(t CarType) TypeSet {
	i, found := slices.BinarySearch(ts, t)
	if !found {
		return ts
	}
	c := make(TypeSet, 0, len(ts)-1)
	c = append(c, ts[:i]...)
	c = append(c, ts[i+1:]...)
	return c.normalize()
}

// Strings returns the members of ts as a slice of strings.
func (ts TypeSet) Strings() []string {
	s := make([]string, len(ts))
	for i, t := range ts {
		s[i] = string(t)
	}
	return s
}

// String returns the comma-joined members of ts. It returns an empty
// string for an empty set.
func (ts TypeSet) String() string {
	return strings.Join(ts.Strings(), ",")
}

// Key returns a canonical representation of ts which is suitable for
// caching. An empty set is represented by the "all" literal.
func (ts TypeSet) Key() string {
	if ts.Empty() {
		return AllTypes
	}
	return ts.String()
}

// NormalizePage converts the 1-based page number into its valid range.
// Non-positive pages are treated as the first page.
func NormalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// PageOffset returns the number of cars which should be skipped in
// order to reach the given 1-based page.
func PageOffset(page int) int {
	return (NormalizePage(page) - 1) * ListingPageSize
}
