// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"strings"
)

// PriceRange is a fixed price bucket which may be used for searching
// the cars. Min is exclusive (unless MinInclusive is set) and Max is
// inclusive. A nil bound means that side is unbounded.
type PriceRange struct {
	Token        string
	Min, Max     *float64
	MinInclusive bool
}

// ErrUnknownPriceRange indicates that a given bucket token is neither
// one of the known price buckets nor the "all" literal.
var ErrUnknownPriceRange = errors.New("unknown price range")

// ErrMissingPriceRange indicates that no price bucket was selected.
// The "all" literal must be passed explicitly in order to search with
// no price restriction.
var ErrMissingPriceRange = errors.New("missing price range")

func bound(v float64) *float64 {
	return &v
}

// PriceRanges lists the known price buckets. The first bucket includes
// its lower bound, so a free car (price zero) can be found too.
var PriceRanges = []PriceRange{
	{Token: "0-10000", Min: bound(0), Max: bound(10000), MinInclusive: true},
	{Token: "10000-20000", Min: bound(10000), Max: bound(20000)},
	{Token: "20000-30000", Min: bound(20000), Max: bound(30000)},
	{Token: "30000+", Min: bound(30000)},
}

// ParsePriceRange returns the bucket which corresponds to the given
// token. The "all" literal is represented by a nil PriceRange.
// An empty token causes ErrMissingPriceRange and unknown tokens cause
// ErrUnknownPriceRange errors.
func ParsePriceRange(token string) (*PriceRange, error) {
	token = strings.TrimSpace(token)
	switch {
	case token == "":
		return nil, ErrMissingPriceRange
	case strings.EqualFold(token, AllTypes):
		return nil, nil
	}
	for i := range PriceRanges {
		if PriceRanges[i].Token == token {
			pr := PriceRanges[i]
			return &pr, nil
		}
	}
	return nil, ErrUnknownPriceRange
}

// Contains reports whether the given price falls in the pr bucket.
// A nil bucket contains all prices.
func (pr *PriceRange) Contains(price float64) bool {
	if pr == nil {
		return true
	}
	if pr.Min != nil {
		if pr.MinInclusive && price < *pr.Min {
			return false
		}
		if !pr.MinInclusive && price <= *pr.Min {
			return false
		}
	}
	if pr.Max != nil && price > *pr.Max {
		return false
	}
	return true
}
