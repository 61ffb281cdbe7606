// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package scram implements the pkg/core/scram.Hasher interface for the
// SCRAM-SHA-256 mechanism using the github.com/xdg-go/scram module.
package scram

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/xdg-go/scram"
)

// MinIterations is the least accepted PBKDF2 iterations count.
const MinIterations = 4096

const saltLen = 256 / 8

// Mechanism computes SCRAM-SHA-256 password hashes.
type Mechanism struct {
	gen  scram.HashGeneratorFcn
	name string
}

// SHA256 returns the SCRAM-SHA-256 Mechanism which is the default
// password encryption of PostgreSQL since version 14.
func SHA256() *Mechanism {
	return &Mechanism{gen: scram.SHA256, name: "SCRAM-SHA-256"}
}

// Hash normalizes pass by the SASLprep profile and returns its SCRAM
// hash string. The salt is the base64 encoding of the salt bytes, or
// empty for a random salt. The returned string consists of printable
// ASCII letters, so it may be embedded in an ALTER ROLE statement.
func (m *Mechanism) Hash(pass, salt string, iters int) (string, error) {
	switch {
	case pass == "":
		return "", errors.New("password must be non-empty")
	case iters < MinIterations:
		return "", fmt.Errorf(
			"iters (%d) is less than %d", iters, MinIterations,
		)
	}
	var saltBytes []byte
	if salt == "" {
		saltBytes = make([]byte, saltLen)
		if _, err := rand.Read(saltBytes); err != nil {
			return "", fmt.Errorf("creating random salt: %w", err)
		}
		salt = base64.StdEncoding.EncodeToString(saltBytes)
	} else {
		var err error
		saltBytes, err = base64.StdEncoding.DecodeString(salt)
		if err != nil {
			return "", fmt.Errorf("decoding base64 salt: %w", err)
		}
	}
	// user and authzID do not affect the stored credentials
	c, err := m.gen.NewClient("carweb", pass, "")
	if err != nil {
		return "", fmt.Errorf("creating SCRAM client: %w", err)
	}
	sc := c.GetStoredCredentials(scram.KeyFactors{
		Salt:  string(saltBytes),
		Iters: iters,
	})
	return fmt.Sprintf(
		"%s$%d:%s$%s:%s",
		m.name, iters, salt,
		base64.StdEncoding.EncodeToString(sc.StoredKey),
		base64.StdEncoding.EncodeToString(sc.ServerKey),
	), nil
}
