// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"cmp"
	"fmt"
	"strconv"
	"strings"
)

// SemVer represents a released semantic version with its major, minor,
// and patch components. It versions the configuration file format and
// the database schema, so a binary may reject the files and databases
// which it cannot interpret.
type SemVer [3]uint

// UnmarshalText deserializes one to three dot-separated numbers into
// sv. Missing components are taken as zero, so "1.2" means "1.2.0".
// In case of errors, sv will be left unchanged.
func (sv *SemVer) UnmarshalText(text []byte) error {
	p := strings.Split(string(text), ".")
	if len(p) > 3 {
		return fmt.Errorf("the %q has too many components", text)
	}
	var v SemVer
	for i, s := range p {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("the %q component is not numeric", s)
		}
		v[i] = uint(n)
	}
	*sv = v
	return nil
}

// MarshalText serializes sv as three dot-separated numbers.
func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}

// Compare returns -1, 0, or +1 depending on whether sv is older than,
// equal to, or newer than other.
func (sv SemVer) Compare(other SemVer) int {
	for i := range sv {
		if c := cmp.Compare(sv[i], other[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Supports reports whether a component which implements the sv version
// can interpret data which was produced with the other version.
// The major versions must match and the other minor version may not be
// newer than the sv minor version.
func (sv SemVer) Supports(other SemVer) bool {
	return sv[0] == other[0] && other[1] <= sv[1]
}
