// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"testing"

	"github.com/momeni/carweb/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemVer(t *testing.T) {
	var sv model.SemVer
	require.NoError(t, sv.UnmarshalText([]byte("1.2")))
	assert.Equal(t, model.SemVer{1, 2, 0}, sv)
	assert.Equal(t, "1.2.0", sv.String())
	assert.Error(t, sv.UnmarshalText([]byte("1.2.3.4")))
	assert.Error(t, sv.UnmarshalText([]byte("1.x")))
	assert.Equal(t, model.SemVer{1, 2, 0}, sv, "failures keep the old value")

	assert.True(t, model.SemVer{1, 3, 0}.Supports(model.SemVer{1, 2, 5}))
	assert.False(t, model.SemVer{1, 1, 0}.Supports(model.SemVer{1, 2, 0}))
	assert.False(t, model.SemVer{2, 0, 0}.Supports(model.SemVer{1, 0, 0}))
	assert.Equal(t, -1, model.SemVer{1, 2, 3}.Compare(model.SemVer{1, 3, 0}))
}
