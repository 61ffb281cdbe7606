// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the cars use case.
type Option func(uc *UseCase) error

// WithCacheTTL option configures a cars UseCase instance in order to
// keep the listing results in its cache for at most ttl duration.
// This option may be passed to the New() function.
func WithCacheTTL(ttl time.Duration) Option {
	return func(uc *UseCase) error {
		if d := int64(ttl); d <= 0 {
			return fmt.Errorf("ttl (%d) is not positive", d)
		}
		if uc.cacheTTL != 0 {
			return errors.New("ttl is already configured")
		}
		uc.cacheTTL = ttl
		return nil
	}
}
