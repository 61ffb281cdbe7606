// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"encoding/base64"
	"regexp"
	"strconv"
	"testing"

	"github.com/momeni/carweb/pkg/adapter/hash/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xdg "github.com/xdg-go/scram"
)

var hashPattern = regexp.MustCompile(
	`^SCRAM-SHA-256\$(\d+):([A-Za-z0-9+/=]+)\$([A-Za-z0-9+/=]+):([A-Za-z0-9+/=]+)$`,
)

// credentials parses h back, as PostgreSQL does with a stored password.
func credentials(t *testing.T, h string) xdg.StoredCredentials {
	m := hashPattern.FindStringSubmatch(h)
	require.NotNil(t, m, "malformed hash: %s", h)
	iters, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	salt, err := base64.StdEncoding.DecodeString(m[2])
	require.NoError(t, err)
	storedKey, err := base64.StdEncoding.DecodeString(m[3])
	require.NoError(t, err)
	serverKey, err := base64.StdEncoding.DecodeString(m[4])
	require.NoError(t, err)
	return xdg.StoredCredentials{
		KeyFactors: xdg.KeyFactors{Salt: string(salt), Iters: iters},
		StoredKey:  storedKey,
		ServerKey:  serverKey,
	}
}

// authenticate runs a full SCRAM conversation for pass against sc.
func authenticate(t *testing.T, sc xdg.StoredCredentials, pass string) bool {
	client, err := xdg.SHA256.NewClient("carweb", pass, "")
	require.NoError(t, err)
	server, err := xdg.SHA256.NewServer(
		func(string) (xdg.StoredCredentials, error) { return sc, nil },
	)
	require.NoError(t, err)
	cc, sconv := client.NewConversation(), server.NewConversation()
	msg, err := cc.Step("")
	require.NoError(t, err)
	msg, err = sconv.Step(msg)
	require.NoError(t, err)
	msg, err = cc.Step(msg)
	require.NoError(t, err)
	msg, err = sconv.Step(msg)
	if err != nil {
		return false
	}
	_, err = cc.Step(msg)
	return err == nil && cc.Valid() && sconv.Valid()
}

func TestHashAuthenticates(t *testing.T) {
	h, err := scram.SHA256().Hash("pencil", "", scram.MinIterations)
	require.NoError(t, err)
	sc := credentials(t, h)
	assert.Equal(t, scram.MinIterations, sc.Iters)
	assert.Len(t, sc.Salt, 32)
	assert.True(t, authenticate(t, sc, "pencil"))
	assert.False(t, authenticate(t, sc, "pen"))
}

func TestHashSalt(t *testing.T) {
	m := scram.SHA256()
	salt := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	h1, err := m.Hash("pencil", salt, 5000)
	require.NoError(t, err)
	h2, err := m.Hash("pencil", salt, 5000)
	require.NoError(t, err)
	assert.Equal(t, h1, h2, "a fixed salt must give a fixed hash")
	assert.Contains(t, h1, "$5000:"+salt+"$")

	r1, err := m.Hash("pencil", "", 5000)
	require.NoError(t, err)
	r2, err := m.Hash("pencil", "", 5000)
	require.NoError(t, err)
	assert.NotEqual(t, r1, r2, "random salts must differ")
}

func TestHashRejectsInvalidArgs(t *testing.T) {
	m := scram.SHA256()
	_, err := m.Hash("", "", scram.MinIterations)
	assert.Error(t, err)
	_, err = m.Hash("pencil", "", scram.MinIterations-1)
	assert.Error(t, err)
	_, err = m.Hash("pencil", "not base64!", scram.MinIterations)
	assert.Error(t, err)
}
