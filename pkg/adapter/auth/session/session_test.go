// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package session

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestIssueAndVerify(t *testing.T) {
	m, err := New(secret, "carweb", time.Hour)
	require.NoError(t, err)
	s := &model.Session{
		UserID: uuid.New(),
		Email:  "dev@example.com",
		Name:   "Dev",
		Image:  "/profile.png",
	}
	token, err := m.Issue(s)
	require.NoError(t, err)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestVerifyRejections(t *testing.T) {
	m, err := New(secret, "carweb", time.Hour)
	require.NoError(t, err)
	s := &model.Session{UserID: uuid.New(), Email: "a@example.com"}
	token, err := m.Issue(s)
	require.NoError(t, err)

	other, err := New(secret+"x", "carweb", time.Hour)
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "secret mismatch")

	foreign, err := New(secret, "other", time.Hour)
	require.NoError(t, err)
	_, err = foreign.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "issuer mismatch")

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired token")

	_, err = m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewValidation(t *testing.T) {
	_, err := New("short", "carweb", time.Hour)
	assert.Error(t, err)
	_, err = New(secret, "carweb", 0)
	assert.Error(t, err)
}
