// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package browseuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the FilterController.
type Option func(fc *FilterController) error

// WithDebounce option configures a FilterController instance in order
// to wait for delay quiet period before rewriting the query string.
// This option may be passed to the NewFilterController() function.
func WithDebounce(delay time.Duration) Option {
	return func(fc *FilterController) error {
		if d := int64(delay); d <= 0 {
			return fmt.Errorf("delay (%d) is not positive", d)
		}
		if fc.debounce != 0 {
			return errors.New("delay is already configured")
		}
		fc.debounce = delay
		return nil
	}
}
